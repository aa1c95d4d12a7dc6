package types

import (
	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/types"
)

// Block represents a rudimentary block structure generated by sending messages to a test chain.
type Block struct {
	// Hash represents the block hash for this block.
	Hash common.Hash

	// Header is the block header for this block.
	Header *types.Header

	// Messages represent internal EVM core.Message objects. Messages are derived from transactions after validation
	// of a transaction occurs and can be thought of as an internal EVM transaction. It contains typical transaction
	// fields plainly (e.g. no transaction signature).
	Messages []*core.Message

	// MessageResults represents the results recorded while executing transactions.
	MessageResults []*MessageResults
}

// NewBlock returns a new Block with the provided parameters.
func NewBlock(header *types.Header) *Block {
	return &Block{
		Hash:           header.Hash(),
		Header:         header,
		Messages:       make([]*core.Message, 0),
		MessageResults: make([]*MessageResults, 0),
	}
}

// Logs returns the logs emitted by every transaction in the block, in execution order.
func (b *Block) Logs() []*types.Log {
	logs := make([]*types.Log, 0)
	for _, result := range b.MessageResults {
		logs = append(logs, result.Receipt.Logs...)
	}
	return logs
}
