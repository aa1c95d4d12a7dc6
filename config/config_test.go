package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProjectConfigIsValid(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	require.NoError(t, projectConfig.Validate())
	require.NotNil(t, projectConfig.Compilation)
	assert.Equal(t, "solc", projectConfig.Compilation.Platform)

	funding, err := projectConfig.Funding()
	require.NoError(t, err)
	for i, amount := range DefaultFunding {
		assert.True(t, amount.Equal(funding[i]))
	}
	assert.Equal(t, 0, projectConfig.TxOptions().GasPrice.Cmp(DefaultGasPrice))
}

func TestWriteAndReadProjectConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	projectConfig, err := GetDefaultProjectConfig("solc")
	require.NoError(t, err)
	projectConfig.Campaign.Seed = 1234
	projectConfig.Simulation.Funding = []string{"1.5", "2"}
	projectConfig.Chain.GasPrice = big.NewInt(0)
	require.NoError(t, projectConfig.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, read.Validate())
	assert.EqualValues(t, 1234, read.Campaign.Seed)
	assert.Equal(t, []string{"1.5", "2"}, read.Simulation.Funding)
	assert.Equal(t, 0, read.Chain.GasPrice.Sign())
	assert.Equal(t, projectConfig.Campaign.SequenceLength, read.Campaign.SequenceLength)
	assert.Equal(t, "corpus", read.Campaign.CorpusDirectory)
}

func TestReadPartialProjectConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"campaign": {"iterations": 7}, "logging": {"debug": true}}`), 0644))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, read.Campaign.Iterations)
	assert.Equal(t, 40, read.Campaign.SequenceLength)
	assert.EqualValues(t, 100_000_000_000, read.Simulation.Rate)
	assert.Equal(t, zerolog.DebugLevel, read.Logging.EffectiveLevel())
}

func TestReadProjectConfigErrors(t *testing.T) {
	_, err := ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProjectConfig)
	}{
		{"zero transaction gas limit", func(p *ProjectConfig) { p.Chain.TransactionGasLimit = 0 }},
		{"transaction gas above block gas", func(p *ProjectConfig) { p.Chain.TransactionGasLimit = p.Chain.TestChain.BlockGasLimit + 1 }},
		{"negative gas price", func(p *ProjectConfig) { p.Chain.GasPrice = big.NewInt(-1) }},
		{"too few accounts", func(p *ProjectConfig) { p.Chain.AccountCount = 5 }},
		{"no balance", func(p *ProjectConfig) { p.Chain.AccountBalance = 0 }},
		{"no token name", func(p *ProjectConfig) { p.Contracts.Token = "" }},
		{"zero rate", func(p *ProjectConfig) { p.Simulation.Rate = 0 }},
		{"zero wei per USD", func(p *ProjectConfig) { p.Simulation.WeiPerUSD = 0 }},
		{"negative funding", func(p *ProjectConfig) { p.Simulation.Funding = []string{"-1"} }},
		{"too much funding", func(p *ProjectConfig) { p.Simulation.Funding = []string{"1", "1", "1", "1", "1", "1"} }},
		{"no iterations", func(p *ProjectConfig) { p.Campaign.Iterations = 0 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			projectConfig, err := GetDefaultProjectConfig("")
			require.NoError(t, err)
			test.modify(projectConfig)
			assert.Error(t, projectConfig.Validate())
		})
	}
}
