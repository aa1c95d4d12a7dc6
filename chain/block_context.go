package chain

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/types"
	"github.com/crytic/medusa-geth/core/vm"
)

// blockContext returns the vm.BlockContext for executing messages in the block with the given header. BLOCKHASH
// resolves against the chain's committed blocks, yielding the zero hash for unknown numbers.
func (t *TestChain) blockContext(header *types.Header) vm.BlockContext {
	ctx := vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash: func(n uint64) common.Hash {
			hash, _ := t.BlockHashFromNumber(n)
			return hash
		},
		Coinbase:    header.Coinbase,
		GasLimit:    header.GasLimit,
		BlockNumber: new(big.Int).Set(header.Number),
		Time:        header.Time,
		Difficulty:  new(big.Int).Set(header.Difficulty),
		Random:      &header.MixDigest,
		BaseFee:     new(big.Int),
	}
	if header.BaseFee != nil {
		ctx.BaseFee.Set(header.BaseFee)
	}
	return ctx
}
