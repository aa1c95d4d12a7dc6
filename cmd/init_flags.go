package cmd

import (
	"github.com/qiibee/crowdsim/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Target file / directory
	initCmd.Flags().String("target", "", TargetFlagDescription)

	// Bundled contracts
	initCmd.Flags().String("fixture", "", "directory to write the bundled token and crowdsale contracts to, which then become the compilation target")

	// Overwrite an existing configuration
	initCmd.Flags().Bool("force", false, "overwrite the configuration file if it exists")

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	// Update target if necessary
	return updateCompilationTarget(cmd, projectConfig)
}
