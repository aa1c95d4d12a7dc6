package contracts

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	gethTypes "github.com/crytic/medusa-geth/core/types"
)

// accountSpacing is the distance between consecutive pool addresses, so the pool reads 0x10000, 0x20000, ...
const accountSpacing = 0x10000

// NewAccountPool returns count deterministic account addresses. Index 0 is the deployer and owner in the default
// scenarios; the remaining indices act as buyers.
func NewAccountPool(count int) []common.Address {
	accounts := make([]common.Address, count)
	for i := range accounts {
		accounts[i] = common.BigToAddress(big.NewInt(int64(i+1) * accountSpacing))
	}
	return accounts
}

// GenesisAlloc funds every account with the provided balance in wei.
func GenesisAlloc(accounts []common.Address, balance *big.Int) gethTypes.GenesisAlloc {
	alloc := make(gethTypes.GenesisAlloc, len(accounts))
	for _, account := range accounts {
		alloc[account] = gethTypes.Account{Balance: new(big.Int).Set(balance)}
	}
	return alloc
}
