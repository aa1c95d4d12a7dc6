package simulation

import (
	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/logging"
)

// Environment bundles what a simulation runs against.
type Environment struct {
	Clock    Clock
	Deployer Deployer

	// Accounts is the account pool. The simulation funds the crowdsale from accounts 1 through 5.
	Accounts []common.Address

	// Logger receives a debug line per step. If nil, the global logger is used.
	Logger *logging.Logger
}

// logger returns the environment's logger, falling back to a sub-logger of the global logger.
func (e Environment) logger() *logging.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.GlobalLogger.NewSubLogger("module", "simulation")
}

// chainDeployer adapts a contracts.Deployer to Deployer.
type chainDeployer struct {
	deployer *contracts.Deployer
}

// DeployCrowdsale deploys a crowdsale on the chain.
func (d chainDeployer) DeployCrowdsale(owner common.Address, params contracts.CrowdsaleParams) (Crowdsale, error) {
	crowdsale, err := d.deployer.DeployCrowdsale(owner, params)
	if err != nil {
		return nil, err
	}
	return crowdsale, nil
}

// NewChainEnvironment creates an Environment running on the deployer's chain.
func NewChainEnvironment(deployer *contracts.Deployer, accounts []common.Address, logger *logging.Logger) Environment {
	return Environment{
		Clock:    deployer.Chain,
		Deployer: chainDeployer{deployer: deployer},
		Accounts: accounts,
		Logger:   logger,
	}
}
