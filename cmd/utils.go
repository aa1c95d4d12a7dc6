package cmd

import (
	"math/big"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain"
	"github.com/qiibee/crowdsim/compilation"
	"github.com/qiibee/crowdsim/config"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/logging"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/qiibee/crowdsim/utils"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

// harness is the compiled contract suite deployed to a fresh chain.
type harness struct {
	deployer     *contracts.Deployer
	accounts     []common.Address
	artifactHash string
}

// addConfigFlags adds the flags shared by every command reading a project configuration.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file")
	cmd.Flags().String("target", "", TargetFlagDescription)
	cmd.Flags().Bool("debug", false, "log every command and decoded event (also enabled by "+EnvDebug+")")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

// loadProjectConfig searches for either a custom config file (via --config) or the default one in the working
// directory and reads it. A missing default file falls back to the default project configuration, a missing custom
// file is an error. The working directory is changed to the directory of the config file, since compilation targets
// are relative to it. Environment variables and the shared flags are then applied, and the result validated.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	var projectConfig *config.ProjectConfig

	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	_, existenceError := os.Stat(configPath)
	switch {
	case existenceError == nil:
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err = os.Chdir(filepath.Dir(configPath)); err != nil {
			return nil, errors.WithStack(err)
		}
	case configFlagUsed:
		return nil, errors.Wrapf(existenceError, "could not find the config file at %s", configPath)
	default:
		cmdLogger.Warn("Unable to find the config file at ", configPath, ", will use the default project configuration for the ",
			DefaultCompilationPlatform, " compilation platform instead")
		projectConfig, err = config.GetDefaultProjectConfig(DefaultCompilationPlatform)
		if err != nil {
			return nil, err
		}
	}
	if projectConfig.Compilation == nil {
		if projectConfig.Compilation, err = compilation.NewCompilationConfig(DefaultCompilationPlatform); err != nil {
			return nil, err
		}
	}

	applyEnvironment(projectConfig)
	if err = updateProjectConfigWithSharedFlags(cmd, projectConfig); err != nil {
		return nil, err
	}
	if err = projectConfig.Validate(); err != nil {
		return nil, err
	}

	setupLogging(projectConfig)
	return projectConfig, nil
}

// applyEnvironment copies the environment variables the harness honors into the project configuration. WT_DEBUG
// enables debug logging only when it is "true". A GAS_PRICE that is not a non-negative integer falls back to the
// default gas price.
func applyEnvironment(projectConfig *config.ProjectConfig) {
	if value, ok := os.LookupEnv(EnvDebug); ok {
		if value != "" && value != "true" && value != "false" {
			cmdLogger.Warn("Ignoring ", EnvDebug, "=", value, ", debug logging is only enabled by \"true\"")
		}
		projectConfig.Logging.Debug = value == "true"
	}
	if value, ok := os.LookupEnv(EnvGasPrice); ok {
		gasPrice, ok := new(big.Int).SetString(value, 10)
		if !ok || gasPrice.Sign() < 0 {
			cmdLogger.Warn("Invalid ", EnvGasPrice, "=", value, ", using the default gas price of ", config.DefaultGasPrice.String(), " wei")
			gasPrice = new(big.Int).Set(config.DefaultGasPrice)
		}
		projectConfig.Chain.GasPrice = gasPrice
	}
}

// updateProjectConfigWithSharedFlags applies the flags added by addConfigFlags, if they were set.
func updateProjectConfigWithSharedFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if err = updateCompilationTarget(cmd, projectConfig); err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		if projectConfig.Logging.Debug, err = cmd.Flags().GetBool("debug"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("no-color") {
		if projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color"); err != nil {
			return err
		}
	}
	return nil
}

// updateCompilationTarget will update the compilation target in the projectConfig if the --target flag is used in the
// command
func updateCompilationTarget(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if !cmd.Flags().Changed("target") {
		return nil
	}
	newTarget, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	return projectConfig.Compilation.SetTarget(newTarget)
}

// setupLogging replaces the global and command loggers with ones configured by the project configuration.
func setupLogging(projectConfig *config.ProjectConfig) {
	if !projectConfig.Logging.NoColor {
		colors.EnableColor()
	}
	level := projectConfig.Logging.EffectiveLevel()
	logging.GlobalLogger = logging.NewLogger(level, !projectConfig.Logging.NoColor)
	if projectConfig.Logging.NoColor {
		logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED)
	}

	if projectConfig.Logging.LogDirectory != "" {
		file, err := utils.CreateFile(projectConfig.Logging.LogDirectory, "crowdsim.log")
		if err != nil {
			cmdLogger.Warn("Could not create the log file, logs are not written to disk", err)
		} else {
			logging.GlobalLogger.AddWriter(file, logging.STRUCTURED)
		}
	}
	cmdLogger = logging.GlobalLogger.NewSubLogger("module", "cmd")
}

// setupHarness compiles the contract suite and creates a chain with funded accounts to deploy it to.
func setupHarness(projectConfig *config.ProjectConfig) (*harness, error) {
	cmdLogger.Info("Compiling the contract suite with ", colors.Bold, projectConfig.Compilation.Platform, colors.Reset)
	compilations, _, err := projectConfig.Compilation.Compile()
	if err != nil {
		return nil, err
	}
	artifacts, err := contracts.LoadArtifacts(compilations, projectConfig.Contracts)
	if err != nil {
		return nil, err
	}

	accounts := contracts.NewAccountPool(projectConfig.Chain.AccountCount)
	testChain, err := chain.NewTestChain(contracts.GenesisAlloc(accounts, projectConfig.AccountBalance()), &projectConfig.Chain.TestChain)
	if err != nil {
		return nil, err
	}
	return &harness{
		deployer:     contracts.NewDeployer(testChain, artifacts, projectConfig.TxOptions()),
		accounts:     accounts,
		artifactHash: compilation.ComputeArtifactHash(compilations),
	}, nil
}

// Close releases the chain of the harness.
func (h *harness) Close() {
	h.deployer.Chain.Close()
}

// interruptibleContext returns a context cancelled on keyboard interrupts.
func interruptibleContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-c:
			cmdLogger.Warn("Interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, cancel
}
