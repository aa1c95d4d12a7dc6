package chain

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/common/math"
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/rawdb"
	gethState "github.com/crytic/medusa-geth/core/state"
	"github.com/crytic/medusa-geth/core/tracing"
	gethTypes "github.com/crytic/medusa-geth/core/types"
	"github.com/crytic/medusa-geth/core/vm"
	"github.com/crytic/medusa-geth/ethdb"
	"github.com/crytic/medusa-geth/params"
	"github.com/crytic/medusa-geth/triedb"
	"github.com/crytic/medusa-geth/triedb/hashdb"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain/config"
	"github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/chain/vendored"
	"github.com/qiibee/crowdsim/utils"
	"golang.org/x/exp/maps"
)

var _, MAX_UINT_64 = utils.GetIntegerConstraints(false, 64)

// TestChain represents a simulated Ethereum chain used for testing. It maintains blocks in-memory and strips away
// typical consensus/chain objects to allow for specialized testing closer to the EVM. Every message sent through
// SendMessage is mined into its own block, the way an auto-mining development chain behaves.
//
// A TestChain is not safe for concurrent use: every operation which mutates the chain must complete before the next
// one is issued.
type TestChain struct {
	// blocks represents the blocks committed on the current chain, starting with the genesis block.
	blocks []*types.Block

	// pendingBlock is a block currently under construction by the chain which has not yet been committed.
	pendingBlock *types.Block

	// BlockGasLimit defines the maximum amount of gas that can be consumed by transactions in a block.
	BlockGasLimit uint64

	// testChainConfig represents the configuration used by this TestChain.
	testChainConfig *config.TestChainConfig

	// chainConfig represents the configuration used to instantiate and manage the underlying go-ethereum components.
	chainConfig *params.ChainConfig

	// vmConfigExtensions defines EVM extensions to use with each chain call or transaction.
	vmConfigExtensions *vm.ConfigExtensions

	// genesisDefinition represents the Genesis information used to generate the chain's initial state.
	genesisDefinition *core.Genesis

	// state represents the current Ethereum world state. It tracks accounts, balances, code and storage, and is the
	// subject of state changes when executing new transactions.
	state *gethState.StateDB

	// stateDatabase refers to the database object which state uses to store data. It is constructed over db.
	stateDatabase gethState.Database

	// db represents the in-memory key-value store backing stateDatabase.
	db ethdb.Database

	// Events defines the event system for the TestChain.
	Events TestChainEvents
}

// NewTestChain creates a simulated Ethereum backend used for testing, with the provided genesis allocation. If a nil
// config is provided, a default one is used.
func NewTestChain(genesisAlloc gethTypes.GenesisAlloc, testChainConfig *config.TestChainConfig) (*TestChain, error) {
	if testChainConfig == nil {
		testChainConfig = config.DefaultTestChainConfig()
	}
	err := testChainConfig.Validate()
	if err != nil {
		return nil, err
	}

	// Copy our chain config, so it is not shared across chains.
	chainConfig, err := utils.CopyChainConfig(params.TestChainConfig)
	if err != nil {
		return nil, err
	}

	// The go-ethereum test config does not activate the latest forks by timestamp, so activate them at genesis.
	forkTime := uint64(0)
	chainConfig.ShanghaiTime = &forkTime
	chainConfig.CancunTime = &forkTime
	chainConfig.PragueTime = &forkTime
	chainConfig.BlobScheduleConfig = params.DefaultBlobSchedule

	genesisDefinition := &core.Genesis{
		Config:     chainConfig,
		Nonce:      0,
		Timestamp:  0,
		ExtraData:  []byte("crowdsim"),
		GasLimit:   testChainConfig.BlockGasLimit,
		Difficulty: common.Big0,
		Mixhash:    common.Hash{},
		Coinbase:   common.Address{},
		Alloc:      maps.Clone(genesisAlloc),
		Number:     0,
		GasUsed:    0,
		ParentHash: common.Hash{},
		BaseFee:    big.NewInt(0),
	}

	db := rawdb.NewMemoryDatabase()
	trieDB := triedb.NewDatabase(db, &triedb.Config{
		HashDB: hashdb.Defaults,
	})
	genesisBlock := genesisDefinition.MustCommit(db, trieDB)

	chain := &TestChain{
		blocks:             []*types.Block{types.NewBlock(genesisBlock.Header())},
		pendingBlock:       nil,
		BlockGasLimit:      genesisBlock.Header().GasLimit,
		testChainConfig:    testChainConfig,
		chainConfig:        genesisDefinition.Config,
		vmConfigExtensions: testChainConfig.GetVMConfigExtensions(),
		genesisDefinition:  genesisDefinition,
		stateDatabase:      gethState.NewDatabase(trieDB, nil),
		db:                 db,
	}

	chain.state, err = chain.StateAfterBlockNumber(0)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// Close releases the resources held by the chain's trie database.
func (t *TestChain) Close() {
	t.stateDatabase.TrieDB().Close()
}

// GenesisDefinition returns the core.Genesis definition used to initialize the chain.
func (t *TestChain) GenesisDefinition() *core.Genesis {
	return t.genesisDefinition
}

// State returns the current state of the chain, including any pending block changes.
func (t *TestChain) State() *gethState.StateDB {
	return t.state
}

// CommittedBlocks returns the blocks committed to the chain, starting with the genesis block.
func (t *TestChain) CommittedBlocks() []*types.Block {
	return t.blocks
}

// Head returns the most recently committed block.
func (t *TestChain) Head() *types.Block {
	return t.blocks[len(t.blocks)-1]
}

// HeadBlockNumber returns the block number of the most recently committed block.
func (t *TestChain) HeadBlockNumber() uint64 {
	return t.Head().Header.Number.Uint64()
}

// BlockFromNumber obtains the committed block with the provided block number.
func (t *TestChain) BlockFromNumber(blockNumber uint64) (*types.Block, error) {
	// Blocks are committed with consecutive numbers from genesis, so the number is the index.
	if blockNumber < uint64(len(t.blocks)) {
		block := t.blocks[blockNumber]
		if block.Header.Number.Uint64() == blockNumber {
			return block, nil
		}
	}
	return nil, errors.Errorf("could not find block with block number %v", blockNumber)
}

// BlockHashFromNumber returns the hash of the committed block with the provided block number.
func (t *TestChain) BlockHashFromNumber(blockNumber uint64) (common.Hash, error) {
	block, err := t.BlockFromNumber(blockNumber)
	if err != nil {
		return common.Hash{}, err
	}
	return block.Hash, nil
}

// StateAfterBlockNumber obtains the world state after the block with the provided number was committed.
func (t *TestChain) StateAfterBlockNumber(blockNumber uint64) (*gethState.StateDB, error) {
	block, err := t.BlockFromNumber(blockNumber)
	if err != nil {
		return nil, err
	}
	stateDB, err := gethState.New(block.Header.Root, t.stateDatabase)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return stateDB, nil
}

// RevertToBlockIndex reverts all blocks after the provided index, so that blocks[index-1] becomes the head. Any
// pending block is discarded. An index of 1 reverts the chain to its genesis state.
func (t *TestChain) RevertToBlockIndex(index uint64) error {
	if index == 0 || index > uint64(len(t.blocks)) {
		return errors.Errorf("could not revert to block index %d on a chain of length %d", index, len(t.blocks))
	}

	err := t.PendingBlockDiscard()
	if err != nil {
		return err
	}

	removedBlocks := t.blocks[index:]
	t.blocks = t.blocks[:index]

	t.state, err = t.StateAfterBlockNumber(t.HeadBlockNumber())
	if err != nil {
		return err
	}

	if len(removedBlocks) == 0 {
		return nil
	}
	return t.Events.BlocksRemoved.Publish(BlocksRemovedEvent{
		Chain:  t,
		Blocks: removedBlocks,
	})
}

// CallContract performs a message call over the current state (including any pending block changes) without
// committing any changes. The sender is given an effectively infinite balance for the duration of the call.
func (t *TestChain) CallContract(msg *core.Message) (*core.ExecutionResult, error) {
	snapshot := t.state.Snapshot()
	defer t.state.RevertToSnapshot(snapshot)

	t.state.SetBalance(msg.From, uint256.MustFromBig(math.MaxBig256), tracing.BalanceChangeUnspecified)

	header := t.Head().Header
	if t.pendingBlock != nil {
		header = t.pendingBlock.Header
	}
	evm := vm.NewEVM(t.blockContext(header), t.state, t.chainConfig, vm.Config{
		NoBaseFee:        true,
		ConfigExtensions: t.vmConfigExtensions,
	})

	gasPool := new(core.GasPool).AddGas(MAX_UINT_64.Uint64())
	result, err := core.ApplyMessage(evm, msg, gasPool)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}

// PendingBlock returns the block currently under construction, or nil if there is none.
func (t *TestChain) PendingBlock() *types.Block {
	return t.pendingBlock
}

// PendingBlockCreate creates a new pending block one block number and one second after the head.
func (t *TestChain) PendingBlockCreate() (*types.Block, error) {
	return t.PendingBlockCreateWithParameters(t.HeadBlockNumber()+1, t.Head().Header.Time+1, nil)
}

// PendingBlockCreateWithParameters creates a new pending block with the provided block number and timestamp. If
// blockGasLimit is nil, the chain's BlockGasLimit is used. The block number must follow the head and the timestamp
// must not precede it.
func (t *TestChain) PendingBlockCreateWithParameters(blockNumber uint64, blockTime uint64, blockGasLimit *uint64) (*types.Block, error) {
	if t.pendingBlock != nil {
		return nil, errors.New("could not create a new pending block for chain, as a block is already pending")
	}
	if blockGasLimit == nil {
		blockGasLimit = &t.BlockGasLimit
	}

	head := t.Head().Header
	if blockNumber != t.HeadBlockNumber()+1 {
		return nil, errors.Errorf("could not create pending block with number %d, expected %d", blockNumber, t.HeadBlockNumber()+1)
	}
	if blockTime < head.Time {
		return nil, errors.Wrapf(ErrTimestampInPast, "pending block timestamp %d precedes head timestamp %d", blockTime, head.Time)
	}

	parentBlockHash := t.Head().Hash
	header := &gethTypes.Header{
		ParentHash:  parentBlockHash,
		UncleHash:   gethTypes.EmptyUncleHash,
		Root:        head.Root,
		TxHash:      gethTypes.EmptyRootHash,
		ReceiptHash: gethTypes.EmptyRootHash,
		Bloom:       gethTypes.Bloom{},
		GasLimit:    *blockGasLimit,
		GasUsed:     0,
		Extra:       []byte{},
		Nonce:       gethTypes.BlockNonce{},
		Coinbase:    head.Coinbase,
		Difficulty:  common.Big0,
		Number:      new(big.Int).SetUint64(blockNumber),
		Time:        blockTime,
		MixDigest:   parentBlockHash,
		BaseFee:     new(big.Int).Set(head.BaseFee),
	}
	t.pendingBlock = types.NewBlock(header)

	err := t.Events.PendingBlockCreated.Publish(PendingBlockCreatedEvent{
		Chain: t,
		Block: t.pendingBlock,
	})
	if err != nil {
		return nil, err
	}
	return t.pendingBlock, nil
}

// PendingBlockAddTx applies a message to the pending block. A message that executes but fails (e.g. reverts) is
// still added, consuming gas and the sender's nonce. An error is returned only if the message could not be applied
// at all (e.g. an invalid nonce or insufficient funds for gas).
func (t *TestChain) PendingBlockAddTx(message *core.Message) (*types.MessageResults, error) {
	if t.pendingBlock == nil {
		return nil, errors.New("could not add tx to the chain's pending block because no pending block was created")
	}

	gasPool := new(core.GasPool).AddGas(t.pendingBlock.Header.GasLimit - t.pendingBlock.Header.GasUsed)
	tx := utils.MessageToTransaction(message)

	t.state.SetTxContext(tx.Hash(), len(t.pendingBlock.Messages))
	evm := vm.NewEVM(t.blockContext(t.pendingBlock.Header), t.state, t.chainConfig, vm.Config{
		NoBaseFee:        true,
		ConfigExtensions: t.vmConfigExtensions,
	})

	var usedGas uint64
	receipt, executionResult, err := vendored.EVMApplyTransaction(message, t.chainConfig, t.testChainConfig, &t.pendingBlock.Header.Coinbase, gasPool, t.state, t.pendingBlock.Header.Number, t.pendingBlock.Hash, tx, &usedGas, evm)
	if err != nil {
		return nil, errors.Wrap(err, "test chain state write error when adding tx to pending block")
	}

	messageResult := &types.MessageResults{
		PostStateRoot:   common.BytesToHash(receipt.PostState),
		ExecutionResult: executionResult,
		Receipt:         receipt,
	}

	t.pendingBlock.Header.GasUsed += receipt.GasUsed
	t.pendingBlock.Header.Bloom.Add(receipt.Bloom.Bytes())
	t.pendingBlock.Messages = append(t.pendingBlock.Messages, message)
	t.pendingBlock.MessageResults = append(t.pendingBlock.MessageResults, messageResult)

	err = t.Events.PendingBlockAddedTx.Publish(PendingBlockAddedTxEvent{
		Chain:            t,
		Block:            t.pendingBlock,
		TransactionIndex: len(t.pendingBlock.Messages) - 1,
	})
	if err != nil {
		return nil, err
	}
	return messageResult, nil
}

// PendingBlockCommit commits the pending block to the chain, so that it becomes the new head.
func (t *TestChain) PendingBlockCommit() error {
	if t.pendingBlock == nil {
		return errors.New("could not commit chain's pending block, as no pending block was created")
	}

	root, err := t.state.Commit(t.pendingBlock.Header.Number.Uint64(), true, true)
	if err != nil {
		return errors.WithStack(err)
	}
	t.pendingBlock.Header.Root = root

	t.state, err = gethState.New(root, t.stateDatabase)
	if err != nil {
		return errors.WithStack(err)
	}

	// The header changed (root, gas used, bloom), so the hash is recomputed and propagated to the logs.
	t.pendingBlock.Hash = t.pendingBlock.Header.Hash()
	for _, result := range t.pendingBlock.MessageResults {
		result.Receipt.BlockHash = t.pendingBlock.Hash
		for _, log := range result.Receipt.Logs {
			log.BlockHash = t.pendingBlock.Hash
		}
	}
	t.blocks = append(t.blocks, t.pendingBlock)

	pendingBlock := t.pendingBlock
	t.pendingBlock = nil

	return t.Events.PendingBlockCommitted.Publish(PendingBlockCommittedEvent{
		Chain: t,
		Block: pendingBlock,
	})
}

// PendingBlockDiscard discards the pending block and any state changes it made. It is a no-op if there is no
// pending block.
func (t *TestChain) PendingBlockDiscard() error {
	if t.pendingBlock == nil {
		return nil
	}
	pendingBlock := t.pendingBlock
	t.pendingBlock = nil

	var err error
	t.state, err = t.StateAfterBlockNumber(t.HeadBlockNumber())
	if err != nil {
		return err
	}

	return t.Events.PendingBlockDiscarded.Publish(PendingBlockDiscardedEvent{
		Chain: t,
		Block: pendingBlock,
	})
}

// SendMessage mines the message into a new block one second after the head and commits it. If the message executed
// but failed, the block is still committed and an *ExecutionError is returned alongside the results.
func (t *TestChain) SendMessage(message *core.Message) (*types.MessageResults, error) {
	_, err := t.PendingBlockCreate()
	if err != nil {
		return nil, err
	}

	result, err := t.PendingBlockAddTx(message)
	if err != nil {
		// The message could not be applied, so leave the chain as it was.
		discardErr := t.PendingBlockDiscard()
		if discardErr != nil {
			return nil, discardErr
		}
		return nil, err
	}

	err = t.PendingBlockCommit()
	if err != nil {
		return nil, err
	}

	if result.Failed() {
		return result, NewExecutionError(result.ExecutionResult)
	}
	return result, nil
}
