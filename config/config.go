// Package config defines the project configuration file read by the command line interface.
package config

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/campaign"
	chainConfig "github.com/qiibee/crowdsim/chain/config"
	"github.com/qiibee/crowdsim/compilation"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/simulation"
	"github.com/qiibee/crowdsim/units"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultFileName is the name of the project configuration file looked up in the working directory.
const DefaultFileName = "crowdsim.json"

type ProjectConfig struct {
	// Compilation describes the configuration used to compile the contract suite.
	Compilation *compilation.CompilationConfig `json:"compilation"`

	// Chain describes the simulated chain and the transactions sent to it.
	Chain ChainConfig `json:"chain"`

	// Contracts names the contracts of the compiled suite.
	Contracts contracts.ContractNames `json:"contracts"`

	// Simulation describes the deterministic crowdsale simulation.
	Simulation SimulationConfig `json:"simulation"`

	// Campaign describes randomized command sequence campaigns.
	Campaign CampaignConfig `json:"campaign"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging"`
}

// ChainConfig describes the simulated chain.
type ChainConfig struct {
	// TestChain is the configuration of the chain itself.
	TestChain chainConfig.TestChainConfig `json:"testChain"`

	// TransactionGasLimit is the gas limit of every transaction.
	TransactionGasLimit uint64 `json:"transactionGasLimit"`

	// GasPrice is the gas price of every transaction, in wei.
	GasPrice *big.Int `json:"gasPrice"`

	// AccountCount is the number of funded accounts. Account 0 deploys the contracts.
	AccountCount int `json:"accountCount"`

	// AccountBalance is the balance of every account in whole ether.
	AccountBalance uint64 `json:"accountBalance"`
}

// SimulationConfig describes the deterministic crowdsale simulation.
type SimulationConfig struct {
	// Rate is the initial rate, in token base units per wei.
	Rate uint64 `json:"rate"`

	// Funding holds the amount of tokens each buyer should end up with, in display units.
	Funding []string `json:"funding"`

	// WeiPerUSD is the wei value of one USD set before the presale.
	WeiPerUSD uint64 `json:"weiPerUSD"`
}

// CampaignConfig describes campaigns and where their failures are stored.
type CampaignConfig struct {
	campaign.Config

	// CorpusDirectory is the directory of the corpus database. If empty, failures are not stored.
	CorpusDirectory string `json:"corpusDirectory"`
}

// LoggingConfig describes the configuration options used for logging.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	Level zerolog.Level `json:"level"`

	// Debug lowers the level to debug, which logs every command and decoded event.
	Debug bool `json:"debug"`

	// NoColor disables colored console output.
	NoColor bool `json:"noColor"`

	// LogDirectory is the directory structured log files are written to. If empty, no log files are kept.
	LogDirectory string `json:"logDirectory"`
}

// EffectiveLevel returns the level logs are emitted at.
func (l LoggingConfig) EffectiveLevel() zerolog.Level {
	if l.Debug && l.Level > zerolog.DebugLevel {
		return zerolog.DebugLevel
	}
	return l.Level
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Values missing from the
// file keep their defaults.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig, err := GetDefaultProjectConfig("")
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, projectConfig); err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(path, b, 0644))
}

// TxOptions returns the transaction options of the chain section.
func (p *ProjectConfig) TxOptions() contracts.TxOptions {
	return contracts.TxOptions{
		GasLimit: p.Chain.TransactionGasLimit,
		GasPrice: p.Chain.GasPrice,
	}
}

// Funding parses the funding of the simulation section.
func (p *ProjectConfig) Funding() (simulation.Funding, error) {
	return simulation.ParseFunding(p.Simulation.Funding)
}

// AccountBalance returns the balance of every account in wei.
func (p *ProjectConfig) AccountBalance() *big.Int {
	return units.FromUint64(p.Chain.AccountBalance)
}

// Validate validates that the ProjectConfig meets certain requirements.
func (p *ProjectConfig) Validate() error {
	if err := p.Chain.TestChain.Validate(); err != nil {
		return err
	}
	if p.Chain.TransactionGasLimit == 0 {
		return errors.New("transaction gas limit cannot be zero")
	}
	if p.Chain.TestChain.BlockGasLimit < p.Chain.TransactionGasLimit {
		return errors.New("block gas limit cannot be less than transaction gas limit")
	}
	if p.Chain.GasPrice == nil || p.Chain.GasPrice.Sign() < 0 {
		return errors.New("gas price must be a non-negative number")
	}
	if p.Chain.AccountCount <= simulation.BuyerCount {
		return errors.Errorf("account count must be greater than %d, one deployer and the buyers", simulation.BuyerCount)
	}
	if p.Chain.AccountBalance == 0 {
		return errors.New("account balance must be positive")
	}

	if err := p.Contracts.Validate(); err != nil {
		return err
	}

	if p.Simulation.Rate == 0 {
		return errors.New("simulation rate must be positive")
	}
	if p.Simulation.WeiPerUSD == 0 {
		return errors.New("simulation wei per USD must be positive")
	}
	if _, err := p.Funding(); err != nil {
		return errors.Wrap(err, "invalid simulation funding")
	}

	return p.Campaign.Validate()
}

// DefaultFunding is the funding of the default simulation, in whole tokens.
var DefaultFunding = []decimal.Decimal{
	decimal.NewFromInt(40),
	decimal.NewFromInt(30),
	decimal.NewFromInt(20),
	decimal.NewFromInt(10),
	decimal.Zero,
}
