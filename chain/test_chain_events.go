package chain

import (
	"github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/events"
)

// TestChainEvents defines event emitters for a TestChain.
type TestChainEvents struct {
	// PendingBlockCreated emits events indicating a pending block was created on the chain.
	PendingBlockCreated events.EventEmitter[PendingBlockCreatedEvent]

	// PendingBlockAddedTx emits events indicating a pending block had a transaction added to it.
	PendingBlockAddedTx events.EventEmitter[PendingBlockAddedTxEvent]

	// PendingBlockCommitted emits events indicating a pending block was committed to the chain.
	PendingBlockCommitted events.EventEmitter[PendingBlockCommittedEvent]

	// PendingBlockDiscarded emits events indicating a pending block was discarded before being committed.
	PendingBlockDiscarded events.EventEmitter[PendingBlockDiscardedEvent]

	// BlocksRemoved emits events indicating committed blocks were reverted from the chain.
	BlocksRemoved events.EventEmitter[BlocksRemovedEvent]
}

// PendingBlockCreatedEvent describes an event where a new pending block is created, prior to any transactions
// being added to it.
type PendingBlockCreatedEvent struct {
	// Chain refers to the TestChain which emitted the event.
	Chain *TestChain

	// Block refers to the pending block which was created.
	Block *types.Block
}

// PendingBlockAddedTxEvent describes an event where a transaction was added to a pending block.
type PendingBlockAddedTxEvent struct {
	// Chain refers to the TestChain which emitted the event.
	Chain *TestChain

	// Block refers to the pending block which the transaction was added to.
	Block *types.Block

	// TransactionIndex describes the index of the transaction in the pending block.
	TransactionIndex int
}

// PendingBlockCommittedEvent describes an event where a pending block is committed to the chain as the new head.
type PendingBlockCommittedEvent struct {
	// Chain refers to the TestChain which emitted the event.
	Chain *TestChain

	// Block refers to the block which was committed.
	Block *types.Block
}

// PendingBlockDiscardedEvent describes an event where a pending block is discarded from the chain before being
// committed.
type PendingBlockDiscardedEvent struct {
	// Chain refers to the TestChain which emitted the event.
	Chain *TestChain

	// Block refers to the pending block which was discarded.
	Block *types.Block
}

// BlocksRemovedEvent describes an event where committed blocks are removed from the chain because it was reverted.
type BlocksRemovedEvent struct {
	// Chain refers to the TestChain which emitted the event.
	Chain *TestChain

	// Blocks refers to the blocks which were removed, in the order they were committed.
	Blocks []*types.Block
}
