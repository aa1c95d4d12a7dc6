package chain

import (
	"math/big"
	"testing"

	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core"
	gethTypes "github.com/crytic/medusa-geth/core/types"
	"github.com/crytic/medusa-geth/core/vm"
	"github.com/crytic/medusa-geth/crypto"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// senderAddress is funded in the genesis block of every chain created by these tests.
	senderAddress = common.HexToAddress("0x10000")

	// receiverAddress starts without a balance.
	receiverAddress = common.HexToAddress("0x20000")

	// revertingInitCode deploys a contract which always reverts (PUSH1 0 PUSH1 0 REVERT).
	revertingInitCode = common.FromHex("0x6005600c60003960056000f360006000fd")

	// invalidOpcodeInitCode deploys a contract consisting of the INVALID opcode.
	invalidOpcodeInitCode = common.FromHex("0x6001600c60003960016000f3fe")

	// loggingInitCode deploys a contract which emits an empty LOG0 and stops.
	loggingInitCode = common.FromHex("0x6006600c60003960066000f360006000a000")
)

// newTestChain creates a chain with senderAddress funded with 1000 ether.
func newTestChain(t *testing.T) *TestChain {
	balance, _ := new(big.Int).SetString("1000000000000000000000", 10)
	genesisAlloc := gethTypes.GenesisAlloc{
		senderAddress: {Balance: balance},
	}
	chain, err := NewTestChain(genesisAlloc, config.DefaultTestChainConfig())
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	return chain
}

// newMessage creates a message from senderAddress using the sender's current nonce and a zero gas price.
func newMessage(chain *TestChain, to *common.Address, value *big.Int, data []byte) *core.Message {
	return &core.Message{
		From:      senderAddress,
		To:        to,
		Nonce:     chain.State().GetNonce(senderAddress),
		Value:     value,
		GasLimit:  1_000_000,
		GasPrice:  big.NewInt(0),
		GasFeeCap: big.NewInt(0),
		GasTipCap: big.NewInt(0),
		Data:      data,
	}
}

// deploy deploys the init code and returns the created contract address.
func deploy(t *testing.T, chain *TestChain, initCode []byte) common.Address {
	result, err := chain.SendMessage(newMessage(chain, nil, big.NewInt(0), initCode))
	require.NoError(t, err)
	return result.Receipt.ContractAddress
}

// verifyChain verifies block numbers, parent hashes and timestamps are consistent across the chain.
func verifyChain(t *testing.T, chain *TestChain) {
	assert.Greater(t, len(chain.CommittedBlocks()), 0)
	assert.EqualValues(t, chain.CommittedBlocks()[len(chain.CommittedBlocks())-1], chain.Head())

	for i := int(chain.HeadBlockNumber()); i >= 0; i-- {
		currentBlock, err := chain.BlockFromNumber(uint64(i))
		require.NoError(t, err)
		assert.EqualValues(t, len(currentBlock.Messages), len(currentBlock.MessageResults))

		blockHash, err := chain.BlockHashFromNumber(uint64(i))
		require.NoError(t, err)
		assert.EqualValues(t, currentBlock.Hash, blockHash)

		_, err = chain.StateAfterBlockNumber(uint64(i))
		assert.NoError(t, err)

		if i > 0 {
			previousBlock, err := chain.BlockFromNumber(uint64(i - 1))
			require.NoError(t, err)
			assert.EqualValues(t, previousBlock.Hash, currentBlock.Header.ParentHash)
			assert.LessOrEqual(t, previousBlock.Header.Time, currentBlock.Header.Time)
		}
	}
}

func TestChainGenesis(t *testing.T) {
	chain := newTestChain(t)

	assert.EqualValues(t, 0, chain.HeadBlockNumber())
	assert.EqualValues(t, 0, chain.LatestTimestamp())
	assert.EqualValues(t, config.DefaultBlockGasLimit, chain.BlockGasLimit)
	assert.EqualValues(t, "1000000000000000000000", chain.State().GetBalance(senderAddress).ToBig().String())
	verifyChain(t, chain)
}

// TestChainTimeControl ensures each time operation mines exactly one empty block with the requested timestamp.
func TestChainTimeControl(t *testing.T) {
	chain := newTestChain(t)

	require.NoError(t, chain.AdvanceSeconds(1))
	assert.EqualValues(t, 1, chain.HeadBlockNumber())
	assert.EqualValues(t, 1, chain.LatestTimestamp())
	assert.Len(t, chain.Head().Messages, 0)

	require.NoError(t, chain.AdvanceToTimestamp(25))
	assert.EqualValues(t, 2, chain.HeadBlockNumber())
	assert.EqualValues(t, 25, chain.LatestTimestamp())

	// Advancing to the current timestamp still mines a block.
	require.NoError(t, chain.AdvanceToTimestamp(25))
	assert.EqualValues(t, 3, chain.HeadBlockNumber())
	assert.EqualValues(t, 25, chain.LatestTimestamp())

	require.NoError(t, chain.AdvanceBlocks(3))
	assert.EqualValues(t, 6, chain.HeadBlockNumber())
	assert.EqualValues(t, 28, chain.LatestTimestamp())

	verifyChain(t, chain)
}

func TestChainAdvanceToPastTimestamp(t *testing.T) {
	chain := newTestChain(t)
	require.NoError(t, chain.AdvanceToTimestamp(100))

	err := chain.AdvanceToTimestamp(99)
	assert.True(t, errors.Is(err, ErrTimestampInPast))
	assert.EqualValues(t, 1, chain.HeadBlockNumber())
	assert.EqualValues(t, 100, chain.LatestTimestamp())
	assert.Nil(t, chain.PendingBlock())
}

// TestChainValueTransfer ensures a value transfer is mined into its own block one second after the head.
func TestChainValueTransfer(t *testing.T) {
	chain := newTestChain(t)
	require.NoError(t, chain.AdvanceToTimestamp(10))

	value := big.NewInt(12345)
	result, err := chain.SendMessage(newMessage(chain, &receiverAddress, value, nil))
	require.NoError(t, err)
	assert.EqualValues(t, gethTypes.ReceiptStatusSuccessful, result.Receipt.Status)

	assert.EqualValues(t, 2, chain.HeadBlockNumber())
	assert.EqualValues(t, 11, chain.LatestTimestamp())
	assert.Len(t, chain.Head().Messages, 1)
	assert.EqualValues(t, value.String(), chain.State().GetBalance(receiverAddress).ToBig().String())
	assert.EqualValues(t, 1, chain.State().GetNonce(senderAddress))
	verifyChain(t, chain)
}

// TestChainFailedExecutions ensures failed executions are still mined and are classified as chain rejections.
func TestChainFailedExecutions(t *testing.T) {
	chain := newTestChain(t)
	reverting := deploy(t, chain, revertingInitCode)
	invalid := deploy(t, chain, invalidOpcodeInitCode)
	assert.NotEqual(t, reverting, invalid)
	assert.EqualValues(t, crypto.CreateAddress(senderAddress, 0), reverting)

	headBefore := chain.HeadBlockNumber()
	result, err := chain.SendMessage(newMessage(chain, &reverting, big.NewInt(0), nil))
	require.Error(t, err)
	assert.True(t, result.Failed())
	assert.True(t, errors.Is(err, vm.ErrExecutionReverted))
	assert.True(t, IsChainRejection(err))
	assert.False(t, IsInvalidOpcode(err))
	assert.EqualValues(t, headBefore+1, chain.HeadBlockNumber())

	var executionError *ExecutionError
	require.True(t, errors.As(err, &executionError))
	assert.Nil(t, executionError.RevertReason)

	_, err = chain.SendMessage(newMessage(chain, &invalid, big.NewInt(0), nil))
	require.Error(t, err)
	assert.True(t, IsInvalidOpcode(err))
	assert.True(t, IsChainRejection(err))
	assert.EqualValues(t, headBefore+2, chain.HeadBlockNumber())

	assert.False(t, IsChainRejection(nil))
	assert.False(t, IsChainRejection(errors.New("connection refused")))
	assert.True(t, IsInvalidOpcode(errors.New("VM Exception while processing transaction: invalid opcode")))
	verifyChain(t, chain)
}

// TestChainUnappliableMessage ensures a message that cannot be applied leaves no block behind.
func TestChainUnappliableMessage(t *testing.T) {
	chain := newTestChain(t)

	msg := newMessage(chain, &receiverAddress, big.NewInt(1), nil)
	msg.Nonce = 5
	_, err := chain.SendMessage(msg)
	assert.Error(t, err)
	assert.EqualValues(t, 0, chain.HeadBlockNumber())
	assert.Nil(t, chain.PendingBlock())
}

func TestChainCallContractDoesNotCommit(t *testing.T) {
	chain := newTestChain(t)

	msg := newMessage(chain, &receiverAddress, big.NewInt(1000), nil)
	msg.From = receiverAddress
	msg.Nonce = 0
	result, err := chain.CallContract(msg)
	require.NoError(t, err)
	assert.False(t, result.Failed())

	assert.EqualValues(t, 0, chain.HeadBlockNumber())
	assert.EqualValues(t, 0, chain.State().GetBalance(receiverAddress).Sign())
}

func TestChainLogsCarryBlockHash(t *testing.T) {
	chain := newTestChain(t)
	logger := deploy(t, chain, loggingInitCode)

	result, err := chain.SendMessage(newMessage(chain, &logger, big.NewInt(0), nil))
	require.NoError(t, err)
	require.Len(t, result.Receipt.Logs, 1)

	logs := chain.Head().Logs()
	require.Len(t, logs, 1)
	assert.EqualValues(t, logger, logs[0].Address)
	assert.EqualValues(t, chain.Head().Hash, logs[0].BlockHash)
}

func TestChainRevertToBlockIndex(t *testing.T) {
	chain := newTestChain(t)
	genesisHash := chain.Head().Hash

	var removed int
	chain.Events.BlocksRemoved.Subscribe(func(event BlocksRemovedEvent) error {
		removed += len(event.Blocks)
		return nil
	})

	_, err := chain.SendMessage(newMessage(chain, &receiverAddress, big.NewInt(7), nil))
	require.NoError(t, err)
	require.NoError(t, chain.AdvanceSeconds(30))
	assert.EqualValues(t, 2, chain.HeadBlockNumber())

	require.NoError(t, chain.RevertToBlockIndex(1))
	assert.EqualValues(t, 2, removed)
	assert.EqualValues(t, 0, chain.HeadBlockNumber())
	assert.EqualValues(t, genesisHash, chain.Head().Hash)
	assert.EqualValues(t, 0, chain.State().GetBalance(receiverAddress).Sign())
	assert.EqualValues(t, 0, chain.State().GetNonce(senderAddress))

	assert.Error(t, chain.RevertToBlockIndex(0))
	assert.Error(t, chain.RevertToBlockIndex(5))

	// The chain remains usable after reverting.
	_, err = chain.SendMessage(newMessage(chain, &receiverAddress, big.NewInt(7), nil))
	require.NoError(t, err)
	verifyChain(t, chain)
}

// TestChainPendingBlockEvents ensures pending block lifecycle events are published in order.
func TestChainPendingBlockEvents(t *testing.T) {
	chain := newTestChain(t)

	observed := make([]string, 0)
	chain.Events.PendingBlockCreated.Subscribe(func(event PendingBlockCreatedEvent) error {
		observed = append(observed, "created")
		return nil
	})
	chain.Events.PendingBlockAddedTx.Subscribe(func(event PendingBlockAddedTxEvent) error {
		observed = append(observed, "added")
		return nil
	})
	chain.Events.PendingBlockCommitted.Subscribe(func(event PendingBlockCommittedEvent) error {
		observed = append(observed, "committed")
		return nil
	})
	chain.Events.PendingBlockDiscarded.Subscribe(func(event PendingBlockDiscardedEvent) error {
		observed = append(observed, "discarded")
		return nil
	})

	_, err := chain.SendMessage(newMessage(chain, &receiverAddress, big.NewInt(1), nil))
	require.NoError(t, err)

	_, err = chain.PendingBlockCreate()
	require.NoError(t, err)
	_, err = chain.PendingBlockCreate()
	assert.Error(t, err)
	require.NoError(t, chain.PendingBlockDiscard())

	assert.EqualValues(t, []string{"created", "added", "committed", "created", "discarded"}, observed)
}
