package cmd

import (
	"fmt"

	"github.com/qiibee/crowdsim/version"
	"github.com/spf13/cobra"
)

// versionCmd prints the build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Long:  `Prints the crowdsim release, the commit it was built from and the Go toolchain used to build it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.GetInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
