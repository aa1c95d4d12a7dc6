package types

import (
	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/types"
)

// MessageResults represents metadata obtained from the execution of a message in a Block.
type MessageResults struct {
	// PostStateRoot refers to the state root hash after the execution of this transaction.
	PostStateRoot common.Hash

	// ExecutionResult describes the core.ExecutionResult returned after processing a given call.
	ExecutionResult *core.ExecutionResult

	// Receipt represents the transaction receipt
	Receipt *types.Receipt
}

// Failed indicates whether the message executed but failed, e.g. due to a revert or an invalid opcode.
func (m *MessageResults) Failed() bool {
	return m.ExecutionResult != nil && m.ExecutionResult.Failed()
}
