package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/cmd/exitcodes"
	"github.com/qiibee/crowdsim/compilation"
	"github.com/qiibee/crowdsim/config"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// supportedPlatforms lists the compilation platforms init accepts, also offered as completions
var supportedPlatforms = compilation.GetSupportedCompilationPlatforms()

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:   "init [platform]",
	Short: "Initializes a project configuration",
	Long: `Writes a default project configuration for the given compilation platform (default solc). With --fixture,
the bundled token and crowdsale contracts are written as well and become the compilation target.`,
	Args:              cmdValidateInitArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	err := addInitFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the init command", err)
	}
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs completes the flags not yet used, plus the platforms while no platform or flag was given
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var unusedFlags []string
	flagUsed := false
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			flagUsed = true
			return
		}
		unusedFlags = append(unusedFlags, "--"+flag.Name)
	})
	if len(args) == 0 && !flagUsed {
		unusedFlags = append(unusedFlags, supportedPlatforms...)
	}
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateInitArgs validates CLI arguments
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	var err error
	if len(args) > 1 {
		err = fmt.Errorf("init accepts at most 1 platform argument (options: %s), default platform is %v",
			strings.Join(supportedPlatforms, ", "), DefaultCompilationPlatform)
	} else if len(args) == 1 && !compilation.IsSupportedCompilationPlatform(args[0]) {
		err = fmt.Errorf("init was provided invalid platform argument '%s' (options: %s)", args[0], strings.Join(supportedPlatforms, ", "))
	}
	if err != nil {
		cmdLogger.Error("Failed to validate args to the init command", err)
	}
	return err
}

// cmdRunInit executes the init CLI command and updates the project configuration with any flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	err := runInit(cmd, args)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outputPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return errors.WithStack(err)
		}
		outputPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}
	if outputPath, err = filepath.Abs(outputPath); err != nil {
		return errors.WithStack(err)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if _, err = os.Stat(outputPath); err == nil && !force {
		return errors.Errorf("%s already exists, use --force to overwrite it", outputPath)
	}

	platform := DefaultCompilationPlatform
	if len(args) == 1 {
		platform = args[0]
	}
	projectConfig, err := config.GetDefaultProjectConfig(platform)
	if err != nil {
		return err
	}
	if err = updateProjectConfigWithInitFlags(cmd, projectConfig); err != nil {
		return err
	}

	// Write the bundled contracts and point the compilation at them
	fixtureDirectory, err := cmd.Flags().GetString("fixture")
	if err != nil {
		return err
	}
	if fixtureDirectory != "" {
		fixturePath, err := contracts.WriteFixture(fixtureDirectory)
		if err != nil {
			return err
		}
		target, err := relativeTarget(filepath.Dir(outputPath), fixturePath)
		if err != nil {
			return err
		}
		if err = projectConfig.Compilation.SetTarget(target); err != nil {
			return err
		}
		cmdLogger.Info("Contracts written to: ", colors.Bold, fixturePath, colors.Reset)
	}

	if err = projectConfig.WriteToFile(outputPath); err != nil {
		return err
	}
	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}

// relativeTarget expresses path relative to the configuration directory, which commands change into before
// compiling.
func relativeTarget(configDirectory string, path string) (string, error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	target, err := filepath.Rel(configDirectory, absolutePath)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return target, nil
}
