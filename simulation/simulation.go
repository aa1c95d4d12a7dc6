// Package simulation deploys a crowdsale, funds it from a fixed set of buyers and finalizes it, following a fixed
// schedule relative to the chain time.
package simulation

//go:generate mockgen -source simulation.go -destination simulation_mock.go -package simulation

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	chainTypes "github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/contracts"
)

// Clock controls the chain time.
type Clock interface {
	AdvanceSeconds(seconds uint64) error
	AdvanceToTimestamp(timestamp uint64) error
	LatestTimestamp() uint64
}

// Crowdsale is the part of a deployed crowdsale the simulation drives.
type Crowdsale interface {
	SetWeiPerUSDinTGE(from common.Address, wei *big.Int) (*chainTypes.MessageResults, error)
	SendEth(from common.Address, wei *big.Int) (*chainTypes.MessageResults, error)
	Finalize(from common.Address) (*chainTypes.MessageResults, error)
	Token() *contracts.Token
}

// Deployer deploys crowdsales.
type Deployer interface {
	DeployCrowdsale(owner common.Address, params contracts.CrowdsaleParams) (Crowdsale, error)
}

// TokenReader reads token balances.
type TokenReader interface {
	TotalSupply() (*big.Int, error)
	BalanceOf(account common.Address) (*big.Int, error)
}
