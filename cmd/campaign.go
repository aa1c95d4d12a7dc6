package cmd

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/campaign"
	"github.com/qiibee/crowdsim/cmd/exitcodes"
	"github.com/qiibee/crowdsim/corpus"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/spf13/cobra"
)

// corpusFileName is the name of the corpus database inside the corpus directory.
const corpusFileName = "corpus.db"

// campaignCmd represents the command provider for randomized campaigns
var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Runs randomly generated command sequences against fresh crowdsales",
	Long: `Generates crowdsale configurations and command sequences from a seed, runs every sequence against a freshly
deployed crowdsale, and checks each command's outcome against the expected contract behavior. Failing sequences are
stored in the corpus so they can be replayed.`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunCampaign,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	if err := addCampaignFlags(); err != nil {
		cmdLogger.Panic("Failed to initialize the campaign command", err)
	}
	rootCmd.AddCommand(campaignCmd)
}

// corpusPath returns the path of the corpus database in the directory.
func corpusPath(directory string) string {
	return filepath.Join(directory, corpusFileName)
}

// cmdRunCampaign executes the campaign CLI command
func cmdRunCampaign(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err == nil {
		err = updateProjectConfigWithCampaignFlags(cmd, projectConfig)
	}
	if err != nil {
		cmdLogger.Error("Failed to run the campaign command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	h, err := setupHarness(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to set up the harness", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer h.Close()

	var recorder campaign.FailureRecorder
	if projectConfig.Campaign.CorpusDirectory != "" {
		store, err := corpus.Open(corpusPath(projectConfig.Campaign.CorpusDirectory))
		if err != nil {
			cmdLogger.Error("Failed to open the corpus", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		defer store.Close()
		recorder = corpus.NewRecorder(store, h.artifactHash, nil)
	}

	runner, err := campaign.NewRunner(h.deployer, h.accounts, projectConfig.Campaign.Config, nil)
	if err != nil {
		cmdLogger.Error("Failed to run the campaign command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	c, err := campaign.NewCampaign(runner, projectConfig.Campaign.Config, recorder, nil)
	if err != nil {
		cmdLogger.Error("Failed to run the campaign command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	report, err := c.Run(ctx)
	if err != nil {
		cmdLogger.Error("Campaign stopped with an error", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	cmdLogger.Info(
		"Campaign finished: ", report.Sequences, " sequences, ", report.Commands, " commands (",
		report.Rejected, " rejected as expected), ", report.DeploymentsRejected, " rejected deployments in ",
		report.Duration.Round(time.Millisecond), " (~", report.Throughput(), " commands/s)",
	)
	if !report.Passed() {
		for _, failure := range report.Failures {
			cmdLogger.Error(colors.RedBold, "[FAILED] ", colors.Reset, "sequence ", failure.Iteration, ": ", failure.Result.Failure.Error())
		}
		return exitcodes.NewErrorWithExitCode(errors.Errorf("%d sequences failed", len(report.Failures)), exitcodes.ExitCodeTestFailed)
	}
	cmdLogger.Info(colors.GreenBold, "All sequences passed", colors.Reset)
	return nil
}
