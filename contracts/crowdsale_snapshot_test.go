package contracts

import (
	"math/big"
	"strings"
	"testing"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core/vm"
	compilationTypes "github.com/qiibee/crowdsim/compilation/types"
	"github.com/qiibee/crowdsim/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rateViewsAbiJson describes the crowdsale views Snapshot reads.
const rateViewsAbiJson = `[
{"type":"function","name":"initialRate","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
{"type":"function","name":"preferentialRate","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
{"type":"function","name":"goal","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
{"type":"function","name":"tokensSold","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
{"type":"function","name":"buyerRate","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
{"type":"function","name":"whitelist","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}
]`

// rateViews are the values served by the contract built with rateViewsContract.
type rateViews struct {
	initialRate, preferentialRate, goal, tokensSold *big.Int

	// rateBuyer is the only account with a buyer rate override, set to buyerRate.
	rateBuyer common.Address
	buyerRate *big.Int

	// whitelisted is the only whitelisted account.
	whitelisted common.Address
}

func ops(codes ...vm.OpCode) []byte {
	b := make([]byte, len(codes))
	for i, code := range codes {
		b[i] = byte(code)
	}
	return b
}

// push returns the PUSHn instruction for the value, n being the value's length.
func push(value []byte) []byte {
	return append([]byte{byte(vm.PUSH1) + byte(len(value)) - 1}, value...)
}

func word(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, part := range parts {
		b = append(b, part...)
	}
	return b
}

// rateViewsContract assembles a contract which dispatches on the function selector and returns the configured view
// values. Unknown selectors revert.
func rateViewsContract(t *testing.T, views rateViews) *compilationTypes.CompiledContract {
	contractAbi, err := abi.JSON(strings.NewReader(rateViewsAbiJson))
	require.NoError(t, err)

	// Leaves 1 on the stack if the first argument is the address, 0 otherwise.
	argumentIs := func(address common.Address) []byte {
		return concat(push([]byte{4}), ops(vm.CALLDATALOAD), push(address.Bytes()), ops(vm.EQ))
	}
	bodies := []struct {
		method string
		value  []byte
	}{
		{"initialRate", push(word(views.initialRate))},
		{"preferentialRate", push(word(views.preferentialRate))},
		{"goal", push(word(views.goal))},
		{"tokensSold", push(word(views.tokensSold))},
		{"buyerRate", concat(argumentIs(views.rateBuyer), push(word(views.buyerRate)), ops(vm.MUL))},
		{"whitelist", argumentIs(views.whitelisted)},
	}

	prefix := concat(push([]byte{0}), ops(vm.CALLDATALOAD), push([]byte{0xe0}), ops(vm.SHR))
	fallback := concat(push([]byte{0}), ops(vm.DUP1, vm.REVERT))
	const dispatchEntrySize = 11
	codeOffset := len(prefix) + len(bodies)*dispatchEntrySize + len(fallback)

	var dispatch, code []byte
	for _, body := range bodies {
		dest := codeOffset + len(code)
		dispatch = append(dispatch, concat(
			ops(vm.DUP1), push(contractAbi.Methods[body.method].ID), ops(vm.EQ),
			push([]byte{byte(dest >> 8), byte(dest)}), ops(vm.JUMPI),
		)...)
		code = append(code, concat(
			ops(vm.JUMPDEST), body.value,
			push([]byte{0}), ops(vm.MSTORE), push([]byte{0x20}), push([]byte{0}), ops(vm.RETURN),
		)...)
	}
	runtime := concat(prefix, dispatch, fallback, code)
	require.Len(t, dispatch, len(bodies)*dispatchEntrySize)

	// Copies the runtime code following this 12 byte constructor into memory and returns it.
	constructor := concat(
		push([]byte{byte(len(runtime) >> 8), byte(len(runtime))}), ops(vm.DUP1),
		push([]byte{12}), push([]byte{0}), ops(vm.CODECOPY),
		push([]byte{0}), ops(vm.RETURN),
	)
	require.Len(t, constructor, 12)

	return &compilationTypes.CompiledContract{
		Abi:          contractAbi,
		InitBytecode: concat(constructor, runtime),
	}
}

func TestCrowdsaleSnapshotFeedsOracle(t *testing.T) {
	testChain, accounts := newTestChain(t)
	views := rateViews{
		initialRate:      big.NewInt(100),
		preferentialRate: big.NewInt(150),
		goal:             big.NewInt(50),
		tokensSold:       big.NewInt(200),
		rateBuyer:        accounts[2],
		buyerRate:        big.NewInt(7),
		whitelisted:      accounts[1],
	}
	bound, err := Deploy(testChain, "QiibeeCrowdsale", rateViewsContract(t, views), accounts[0], TxOptions{})
	require.NoError(t, err)
	crowdsale := &Crowdsale{BoundContract: bound}

	state, err := crowdsale.Snapshot(accounts)
	require.NoError(t, err)
	assert.EqualValues(t, 100, state.InitialRate.Int64())
	assert.EqualValues(t, 150, state.PreferentialRate.Int64())
	assert.EqualValues(t, 50, state.Goal.Int64())
	assert.EqualValues(t, 200, state.TokensSold.Int64())
	assert.Equal(t, map[common.Address]bool{accounts[1]: true}, state.Whitelist)
	require.Len(t, state.BuyerRates, 1)
	assert.EqualValues(t, 7, state.BuyerRates[accounts[2]].Int64())

	// Oversubscribed at four times the goal: 100 * 50 / 200.
	assert.EqualValues(t, 25, oracle.ExpectedIntegerRate(state, accounts[0]).Int64())
	assert.EqualValues(t, 150, oracle.ExpectedIntegerRate(state, accounts[1]).Int64())
	assert.EqualValues(t, 7, oracle.ExpectedIntegerRate(state, accounts[2]).Int64())
	assert.EqualValues(t, 250, oracle.ExpectedPurchase(state, accounts[0], big.NewInt(10)).Int64())

	// Views missing from the contract's interface fail.
	_, err = crowdsale.IsFinalized()
	assert.Error(t, err)
}
