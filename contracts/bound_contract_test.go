package contracts

import (
	"math/big"
	"strings"
	"testing"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain"
	compilationTypes "github.com/qiibee/crowdsim/compilation/types"
	"github.com/qiibee/crowdsim/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answerAbiJson = `[{"type":"function","name":"answer","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`

// answerContract returns 42 for any call and accepts value.
func answerContract(t *testing.T) *compilationTypes.CompiledContract {
	contractAbi, err := abi.JSON(strings.NewReader(answerAbiJson))
	require.NoError(t, err)
	return &compilationTypes.CompiledContract{
		Abi:             contractAbi,
		InitBytecode:    common.FromHex("0x600a600c600039600a6000f3602a60005260206000f3"),
		RuntimeBytecode: common.FromHex("0x602a60005260206000f3"),
	}
}

// revertingContract reverts on any call.
func revertingContract(t *testing.T) *compilationTypes.CompiledContract {
	contractAbi, err := abi.JSON(strings.NewReader(answerAbiJson))
	require.NoError(t, err)
	return &compilationTypes.CompiledContract{
		Abi:             contractAbi,
		InitBytecode:    common.FromHex("0x6005600c60003960056000f360006000fd"),
		RuntimeBytecode: common.FromHex("0x60006000fd"),
	}
}

func newTestChain(t *testing.T) (*chain.TestChain, []common.Address) {
	accounts := NewAccountPool(3)
	testChain, err := chain.NewTestChain(GenesisAlloc(accounts, units.FromUint64(10)), nil)
	require.NoError(t, err)
	t.Cleanup(testChain.Close)
	return testChain, accounts
}

func TestAccountPool(t *testing.T) {
	accounts := NewAccountPool(3)
	require.Len(t, accounts, 3)
	assert.EqualValues(t, common.HexToAddress("0x10000"), accounts[0])
	assert.EqualValues(t, common.HexToAddress("0x30000"), accounts[2])

	alloc := GenesisAlloc(accounts, big.NewInt(7))
	require.Len(t, alloc, 3)
	assert.EqualValues(t, 7, alloc[accounts[1]].Balance.Int64())
}

func TestDeployCallAndTransact(t *testing.T) {
	testChain, accounts := newTestChain(t)

	contract, err := Deploy(testChain, "Answer", answerContract(t), accounts[0], TxOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, testChain.HeadBlockNumber())
	assert.NotEqual(t, common.Address{}, contract.Address)

	answer, err := contract.callBigInt("answer")
	require.NoError(t, err)
	assert.EqualValues(t, 42, answer.Int64())
	assert.EqualValues(t, 1, testChain.HeadBlockNumber(), "calls must not mine blocks")

	results, err := contract.Transact(accounts[1], nil, "answer")
	require.NoError(t, err)
	assert.False(t, results.Failed())
	assert.EqualValues(t, 2, testChain.HeadBlockNumber())

	_, err = contract.SendValue(accounts[2], big.NewInt(5))
	require.NoError(t, err)
	assert.EqualValues(t, 5, testChain.State().GetBalance(contract.Address).Uint64())

	_, err = contract.callBool("answer")
	assert.Error(t, err)

	_, err = contract.Transact(accounts[0], nil, "missing")
	assert.Error(t, err)
}

func TestTransactRejection(t *testing.T) {
	testChain, accounts := newTestChain(t)

	contract, err := Deploy(testChain, "Reverter", revertingContract(t), accounts[0], TxOptions{})
	require.NoError(t, err)

	results, err := contract.Transact(accounts[0], nil, "answer")
	require.Error(t, err)
	require.NotNil(t, results)
	assert.True(t, results.Failed())
	assert.True(t, chain.IsChainRejection(err))
	var executionError *chain.ExecutionError
	assert.True(t, errors.As(err, &executionError))
	assert.Contains(t, err.Error(), "Reverter.answer")

	_, err = contract.Call("answer")
	require.Error(t, err)
	assert.True(t, chain.IsChainRejection(err))
}

func TestDeployRuntimeMismatch(t *testing.T) {
	testChain, accounts := newTestChain(t)

	compiled := answerContract(t)
	compiled.RuntimeBytecode = common.FromHex("0x602b60005260206000f3")
	_, err := Deploy(testChain, "Answer", compiled, accounts[0], TxOptions{})
	assert.ErrorContains(t, err, "does not match")
}

func TestLoadArtifacts(t *testing.T) {
	compilation := compilationTypes.NewCompilation()
	compilation.Sources["crowdsale.sol"] = compilationTypes.CompiledSource{Contracts: map[string]compilationTypes.CompiledContract{
		"QiibeeToken":     *answerContract(t),
		"QiibeeCrowdsale": *answerContract(t),
	}}
	compilations := []compilationTypes.Compilation{*compilation}

	_, err := LoadArtifacts(compilations, DefaultContractNames())
	assert.Error(t, err, "the message contract is missing")

	names := DefaultContractNames()
	names.Message = ""
	artifacts, err := LoadArtifacts(compilations, names)
	require.NoError(t, err)
	assert.NotNil(t, artifacts.Token)
	assert.NotNil(t, artifacts.Crowdsale)
	assert.Nil(t, artifacts.Message)

	_, err = LoadArtifacts(compilations, ContractNames{Token: "QiibeeToken"})
	assert.Error(t, err)
}

func TestWriteFixture(t *testing.T) {
	path, err := WriteFixture(t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, FixtureFileName))
	assert.Contains(t, string(FixtureSource), "contract QiibeeCrowdsale")
}
