package cmd

import "github.com/qiibee/crowdsim/config"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = config.DefaultFileName

// DefaultCompilationPlatform describes the default compilation platform to use if one is not provided
const DefaultCompilationPlatform = "solc"

// TargetFlagDescription describes the --target flag
const TargetFlagDescription = "target file or directory to compile (overrides the compilation target of the config file)"

// Environment variables read at startup. They are copied into the project configuration and read nowhere else.
const (
	// EnvDebug enables debug logging when set to a true value.
	EnvDebug = "WT_DEBUG"

	// EnvGasPrice overrides the gas price of every transaction, in wei.
	EnvGasPrice = "GAS_PRICE"
)
