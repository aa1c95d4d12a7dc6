package cmd

import (
	"fmt"

	"github.com/qiibee/crowdsim/config"
	"github.com/spf13/cobra"
)

// addCampaignFlags adds the various flags for the campaign command
func addCampaignFlags() error {
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	if err != nil {
		return err
	}

	campaignCmd.Flags().SortFlags = false
	addConfigFlags(campaignCmd)

	campaignCmd.Flags().Int("iterations", 0,
		fmt.Sprintf("number of sequences to run (unless a config file is provided, default is %d)", defaultConfig.Campaign.Iterations))
	campaignCmd.Flags().Int("seq-len", 0,
		fmt.Sprintf("maximum commands in a sequence (unless a config file is provided, default is %d)", defaultConfig.Campaign.SequenceLength))
	campaignCmd.Flags().Uint64("seed", 0,
		fmt.Sprintf("seed of the generators (unless a config file is provided, default is %d)", defaultConfig.Campaign.Seed))
	campaignCmd.Flags().String("corpus-dir", "",
		fmt.Sprintf("directory path for failing sequences, empty to not store them (unless a config file is provided, default is %q)", defaultConfig.Campaign.CorpusDirectory))
	campaignCmd.Flags().Bool("stop-on-failure", false,
		fmt.Sprintf("stop at the first failing sequence (unless a config file is provided, default is %t)", defaultConfig.Campaign.StopOnFailure))
	return nil
}

// updateProjectConfigWithCampaignFlags will update the given projectConfig with any CLI arguments that were provided
// to the campaign command
func updateProjectConfigWithCampaignFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("iterations") {
		if projectConfig.Campaign.Iterations, err = cmd.Flags().GetInt("iterations"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seq-len") {
		if projectConfig.Campaign.SequenceLength, err = cmd.Flags().GetInt("seq-len"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") {
		if projectConfig.Campaign.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("corpus-dir") {
		if projectConfig.Campaign.CorpusDirectory, err = cmd.Flags().GetString("corpus-dir"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("stop-on-failure") {
		if projectConfig.Campaign.StopOnFailure, err = cmd.Flags().GetBool("stop-on-failure"); err != nil {
			return err
		}
	}
	return projectConfig.Validate()
}
