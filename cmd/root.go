package cmd

import (
	"github.com/qiibee/crowdsim/logging"
	"github.com/qiibee/crowdsim/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger of the command line interface, replaced once the project configuration is read.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true)

var rootCmd = &cobra.Command{
	Use:     "crowdsim",
	Short:   "A crowdsale and token simulation harness",
	Long:    "crowdsim deploys a crowdsale and its token on a simulated chain, drives them through scripted and randomized scenarios, and checks every outcome against the expected contract behavior",
	Version: version.GetInfo().Short(),
}

func Execute() error {
	return rootCmd.Execute()
}
