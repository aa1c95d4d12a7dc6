package config

import (
	"math/big"

	"github.com/qiibee/crowdsim/campaign"
	chainConfig "github.com/qiibee/crowdsim/chain/config"
	"github.com/qiibee/crowdsim/compilation"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/rs/zerolog"
)

// DefaultGasPrice is 21 gwei.
var DefaultGasPrice = big.NewInt(21_000_000_000)

// GetDefaultProjectConfig obtains a default configuration for a project. It populates a default compilation config
// based on the provided platform, or a nil one if an empty string is provided.
func GetDefaultProjectConfig(platform string) (*ProjectConfig, error) {
	var (
		compilationConfig *compilation.CompilationConfig
		err               error
	)
	if platform != "" {
		compilationConfig, err = compilation.NewCompilationConfig(platform)
		if err != nil {
			return nil, err
		}
	}

	funding := make([]string, len(DefaultFunding))
	for i, amount := range DefaultFunding {
		funding[i] = amount.String()
	}

	return &ProjectConfig{
		Compilation: compilationConfig,
		Chain: ChainConfig{
			TestChain:           *chainConfig.DefaultTestChainConfig(),
			TransactionGasLimit: contracts.DefaultTxGasLimit,
			GasPrice:            new(big.Int).Set(DefaultGasPrice),
			AccountCount:        10,
			AccountBalance:      1_000_000,
		},
		Contracts: contracts.DefaultContractNames(),
		Simulation: SimulationConfig{
			Rate:      100_000_000_000,
			Funding:   funding,
			WeiPerUSD: 3_000_000_000_000_000,
		},
		Campaign: CampaignConfig{
			Config:          campaign.DefaultConfig(),
			CorpusDirectory: "corpus",
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			Debug:        false,
			NoColor:      false,
			LogDirectory: "",
		},
	}, nil
}
