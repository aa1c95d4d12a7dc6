package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/campaign"
	"github.com/qiibee/crowdsim/cmd/exitcodes"
	"github.com/qiibee/crowdsim/config"
	"github.com/qiibee/crowdsim/corpus"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

// corpusCmd represents the corpus command group
var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the corpus of failing sequences",
	Long:  `Commands for listing, replaying and removing the failing command sequences recorded by campaigns.`,
}

var corpusListCmd = &cobra.Command{
	Use:           "list",
	Short:         "List the sequences in the corpus",
	Args:          cobra.NoArgs,
	RunE:          cmdRunCorpusList,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var corpusReplayCmd = &cobra.Command{
	Use:   "replay [id...]",
	Short: "Replay sequences from the corpus",
	Long: `Runs the given sequences, or every sequence in the corpus if none is given, against freshly deployed
crowdsales. Sequences which now pass are reported, and removed with --prune.`,
	RunE:          cmdRunCorpusReplay,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var corpusRemoveCmd = &cobra.Command{
	Use:           "remove id...",
	Short:         "Remove sequences from the corpus",
	Args:          cobra.MinimumNArgs(1),
	RunE:          cmdRunCorpusRemove,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	for _, cmd := range []*cobra.Command{corpusListCmd, corpusReplayCmd, corpusRemoveCmd} {
		cmd.Flags().SortFlags = false
		addConfigFlags(cmd)
		cmd.Flags().String("corpus-dir", "", "directory path of the corpus (overrides the config file)")
		corpusCmd.AddCommand(cmd)
	}
	corpusReplayCmd.Flags().Bool("prune", false, "remove sequences which pass")

	rootCmd.AddCommand(corpusCmd)
}

// openCorpus reads the project configuration and opens the corpus it names.
func openCorpus(cmd *cobra.Command) (*config.ProjectConfig, *corpus.Corpus, error) {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("corpus-dir") {
		if projectConfig.Campaign.CorpusDirectory, err = cmd.Flags().GetString("corpus-dir"); err != nil {
			return nil, nil, err
		}
	}

	directory := projectConfig.Campaign.CorpusDirectory
	if directory == "" {
		return nil, nil, errors.New("no corpus directory configured")
	}
	if _, err = os.Stat(corpusPath(directory)); err != nil {
		return nil, nil, errors.Wrapf(err, "no corpus found in %s", directory)
	}
	store, err := corpus.Open(corpusPath(directory))
	if err != nil {
		return nil, nil, err
	}
	return projectConfig, store, nil
}

// cmdRunCorpusList executes the corpus list CLI command
func cmdRunCorpusList(cmd *cobra.Command, args []string) error {
	_, store, err := openCorpus(cmd)
	if err != nil {
		cmdLogger.Error("Failed to open the corpus", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		cmdLogger.Error("Failed to read the corpus", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	cmdLogger.Info(len(entries), " sequences in the corpus")
	for _, entry := range entries {
		cmdLogger.Info(colors.Bold, entry.ID, colors.Reset, fmt.Sprintf(" recorded %s, seed %d, iteration %d, %d commands, failed at command %d: %s",
			entry.Time().Format("2006-01-02 15:04:05"), entry.Seed, entry.Iteration, entry.Length(), entry.FailedCommand, entry.Failure))
	}
	return nil
}

// cmdRunCorpusReplay executes the corpus replay CLI command
func cmdRunCorpusReplay(cmd *cobra.Command, args []string) error {
	projectConfig, store, err := openCorpus(cmd)
	if err != nil {
		cmdLogger.Error("Failed to open the corpus", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer store.Close()
	prune, err := cmd.Flags().GetBool("prune")
	if err != nil {
		return err
	}

	var entries []*corpus.Entry
	if len(args) == 0 {
		if entries, err = store.List(); err != nil {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
	}
	for _, id := range args {
		entry, err := store.Get(id)
		if err != nil {
			cmdLogger.Error("Failed to read the corpus", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		entries = append(entries, entry)
	}

	h, err := setupHarness(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to set up the harness", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer h.Close()
	runner, err := campaign.NewRunner(h.deployer, h.accounts, projectConfig.Campaign.Config, nil)
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	ctx, cancel := interruptibleContext()
	defer cancel()

	failed := 0
	for _, entry := range entries {
		if entry.ArtifactHash != "" && entry.ArtifactHash != h.artifactHash {
			cmdLogger.Warn("Sequence ", entry.ID, " was recorded against different contract bytecode")
		}
		passed, err := replayEntry(ctx, runner, entry)
		if err != nil {
			cmdLogger.Error("Failed to replay sequence ", entry.ID, err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		if !passed {
			failed++
			continue
		}
		if prune {
			if err = store.Remove(entry.ID); err != nil {
				return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
			}
			cmdLogger.Info("Removed passing sequence ", entry.ID)
		}
	}

	cmdLogger.Info("Replayed ", len(entries), " sequences, ", failed, " still failing")
	if failed > 0 {
		return exitcodes.NewErrorWithExitCode(errors.Errorf("%d sequences still fail", failed), exitcodes.ExitCodeTestFailed)
	}
	return nil
}

// replayEntry runs the sequence of the entry and logs its outcome. It returns whether the sequence passed.
func replayEntry(ctx context.Context, runner *campaign.Runner, entry *corpus.Entry) (bool, error) {
	crowdsaleConfig, commands, err := entry.Sequence()
	if err != nil {
		return false, err
	}
	result, err := runner.RunSequence(ctx, crowdsaleConfig, commands)
	if err != nil {
		return false, err
	}
	if result.Passed() {
		cmdLogger.Info(colors.GreenBold, "[PASSED] ", colors.Reset, entry.ID)
		return true, nil
	}

	cmdLogger.Error(colors.RedBold, "[FAILED] ", colors.Reset, entry.ID, ": ", result.Failure.Error())
	for i, command := range commands[:result.Executed] {
		cmdLogger.Info(fmt.Sprintf("  %3d. %s", i, generators.Describe(command)))
	}
	return false, nil
}

// cmdRunCorpusRemove executes the corpus remove CLI command
func cmdRunCorpusRemove(cmd *cobra.Command, args []string) error {
	_, store, err := openCorpus(cmd)
	if err != nil {
		cmdLogger.Error("Failed to open the corpus", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer store.Close()

	for _, id := range args {
		if err = store.Remove(id); err != nil {
			cmdLogger.Error("Failed to remove sequence ", id, err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		cmdLogger.Info("Removed sequence ", id)
	}
	return nil
}
