package cmd

import (
	"fmt"

	"github.com/qiibee/crowdsim/config"
	"github.com/spf13/cobra"
)

// addSimulateFlags adds the various flags for the simulate command
func addSimulateFlags() error {
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	if err != nil {
		return err
	}

	simulateCmd.Flags().SortFlags = false
	addConfigFlags(simulateCmd)

	simulateCmd.Flags().Uint64("rate", 0,
		fmt.Sprintf("initial rate in token base units per wei (unless a config file is provided, default is %d)", defaultConfig.Simulation.Rate))
	simulateCmd.Flags().StringSlice("funding", []string{},
		fmt.Sprintf("tokens each of the five buyers should end up with (unless a config file is provided, default is %v)", defaultConfig.Simulation.Funding))
	simulateCmd.Flags().Uint64("wei-per-usd", 0,
		fmt.Sprintf("wei value of one USD (unless a config file is provided, default is %d)", defaultConfig.Simulation.WeiPerUSD))
	return nil
}

// updateProjectConfigWithSimulateFlags will update the given projectConfig with any CLI arguments that were provided
// to the simulate command
func updateProjectConfigWithSimulateFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("rate") {
		if projectConfig.Simulation.Rate, err = cmd.Flags().GetUint64("rate"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("funding") {
		if projectConfig.Simulation.Funding, err = cmd.Flags().GetStringSlice("funding"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("wei-per-usd") {
		if projectConfig.Simulation.WeiPerUSD, err = cmd.Flags().GetUint64("wei-per-usd"); err != nil {
			return err
		}
	}
	return projectConfig.Validate()
}
