package contracts_test

import (
	"math/big"
	"testing"

	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/chain"
	"github.com/qiibee/crowdsim/compilation/abiutils"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/contracts/contractstest"
	"github.com/qiibee/crowdsim/oracle"
	"github.com/qiibee/crowdsim/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireRejected asserts the error is a rejection by the contract rather than a harness failure.
func requireRejected(t *testing.T, err error) {
	require.Error(t, err)
	assert.True(t, chain.IsChainRejection(err), "unexpected error: %v", err)
}

func TestCrowdsaleLifecycle(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	testChain := deployer.Chain
	owner, wallet := accounts[0], accounts[5]

	now := testChain.LatestTimestamp()
	params := contracts.CrowdsaleParams{
		PresaleStartTime:   now + 10,
		StartTime:          now + 20,
		EndTime:            now + 60,
		InitialRate:        big.NewInt(100),
		PreferentialRate:   big.NewInt(150),
		Goal:               units.FromUint64(150),
		PrivatePresaleRate: big.NewInt(1),
		WeiLockSeconds:     600,
		Wallet:             wallet,
	}
	crowdsale, err := deployer.DeployCrowdsale(owner, params)
	require.NoError(t, err)
	token := crowdsale.Token()

	paused, err := token.Paused()
	require.NoError(t, err)
	assert.True(t, paused)
	name, err := token.Name()
	require.NoError(t, err)
	assert.EqualValues(t, "QiibeeToken", name)
	decimals, err := token.Decimals()
	require.NoError(t, err)
	assert.EqualValues(t, units.Decimals, decimals)

	// Owner-only configuration before the presale.
	_, err = crowdsale.SetWeiPerUSDinTGE(owner, big.NewInt(3_000_000_000_000_000))
	require.NoError(t, err)
	_, err = crowdsale.SetWeiPerUSDinTGE(owner, big.NewInt(4_000_000_000_000_000))
	requireRejected(t, err)
	_, err = crowdsale.AddToWhitelist(accounts[1], accounts[2])
	requireRejected(t, err)
	_, err = crowdsale.AddToWhitelist(owner, accounts[2])
	require.NoError(t, err)
	_, err = crowdsale.SetBuyerRate(owner, accounts[3], big.NewInt(7))
	require.NoError(t, err)

	_, err = crowdsale.BuyTokens(accounts[1], accounts[1], units.FromUint64(1))
	requireRejected(t, err)

	require.NoError(t, testChain.AdvanceToTimestamp(params.PresaleStartTime))
	_, err = crowdsale.BuyTokens(accounts[1], accounts[1], units.FromUint64(1))
	require.NoError(t, err)
	_, err = crowdsale.SendEth(accounts[2], units.FromUint64(1))
	require.NoError(t, err)
	_, err = crowdsale.BuyTokens(accounts[1], accounts[1], big.NewInt(0))
	requireRejected(t, err)

	sold, err := crowdsale.TokensSold()
	require.NoError(t, err)
	assert.EqualValues(t, units.FromUint64(250), sold)

	// The oracle and the contract agree on every account's rate once the goal is exceeded.
	state, err := crowdsale.Snapshot(accounts)
	require.NoError(t, err)
	assert.True(t, state.Whitelist[accounts[2]])
	assert.EqualValues(t, 7, state.BuyerRates[accounts[3]].Int64())
	for _, account := range accounts {
		rate, err := crowdsale.GetRate(account)
		require.NoError(t, err)
		assert.EqualValues(t, oracle.ExpectedIntegerRate(state, account), rate)
	}
	rate, err := crowdsale.GetRate(accounts[4])
	require.NoError(t, err)
	assert.EqualValues(t, 60, rate.Int64())

	_, err = token.Transfer(accounts[1], accounts[4], units.FromUint64(1))
	requireRejected(t, err)

	_, err = crowdsale.Finalize(owner)
	requireRejected(t, err)
	require.NoError(t, testChain.AdvanceToTimestamp(params.EndTime+1))
	_, err = crowdsale.Finalize(owner)
	require.NoError(t, err)

	supply, err := token.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, new(big.Int).Add(sold, new(big.Int).Div(sold, big.NewInt(4))), supply)
	tokenOwner, err := token.Owner()
	require.NoError(t, err)
	assert.EqualValues(t, wallet, tokenOwner)
	paused, err = token.Paused()
	require.NoError(t, err)
	assert.False(t, paused)

	_, err = token.Transfer(accounts[1], accounts[4], units.FromUint64(1))
	require.NoError(t, err)
	balance, err := token.BalanceOf(accounts[4])
	require.NoError(t, err)
	assert.EqualValues(t, units.FromUint64(1), balance)
}

func TestTransferData(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	testChain := deployer.Chain
	owner := accounts[0]

	now := testChain.LatestTimestamp()
	crowdsale, err := deployer.DeployCrowdsale(owner, contracts.CrowdsaleParams{
		PresaleStartTime:   now + 5,
		StartTime:          now + 6,
		EndTime:            now + 10,
		InitialRate:        big.NewInt(10),
		PreferentialRate:   big.NewInt(10),
		Goal:               big.NewInt(1),
		PrivatePresaleRate: big.NewInt(1),
		WeiLockSeconds:     600,
		Wallet:             owner,
	})
	require.NoError(t, err)
	_, err = crowdsale.SetWeiPerUSDinTGE(owner, big.NewInt(1))
	require.NoError(t, err)
	require.NoError(t, testChain.AdvanceToTimestamp(now+5))
	_, err = crowdsale.BuyTokens(accounts[1], accounts[1], units.FromUint64(1))
	require.NoError(t, err)
	require.NoError(t, testChain.AdvanceToTimestamp(now+11))
	_, err = crowdsale.Finalize(owner)
	require.NoError(t, err)

	message, err := deployer.DeployMessage(owner)
	require.NoError(t, err)
	token := crowdsale.Token()
	decoder := abiutils.NewLogDecoder(token.Abi, message.Abi)

	var text [32]byte
	copy(text[:], "hello")
	data, err := message.ShowMessageData(text, big.NewInt(666), "hi")
	require.NoError(t, err)
	results, err := token.TransferData(accounts[1], message.Address, units.FromUint64(1), data)
	require.NoError(t, err)

	decoded := decoder.Decode(results.Receipt.Logs)
	require.Len(t, decoded, 2)
	assert.EqualValues(t, "Show", decoded[0].Name)
	assert.EqualValues(t, "hi", decoded[0].Arg("text"))
	assert.EqualValues(t, "TransferData", decoded[1].Name)
	assert.EqualValues(t, data, decoded[1].Arg("data"))
	assert.Less(t, decoded[0].LogIndex, decoded[1].LogIndex)

	// A failing data call keeps the transfer but emits nothing.
	data, err = message.FailData()
	require.NoError(t, err)
	results, err = token.TransferData(accounts[1], message.Address, units.FromUint64(1), data)
	require.NoError(t, err)
	assert.Empty(t, decoder.Decode(results.Receipt.Logs))
	balance, err := token.BalanceOf(message.Address)
	require.NoError(t, err)
	assert.EqualValues(t, units.FromUint64(2), balance)

	_, err = token.TransferData(accounts[1], token.Address, units.FromUint64(1), nil)
	requireRejected(t, err)
	_, err = token.TransferData(accounts[1], common.Address{}, units.FromUint64(1), nil)
	requireRejected(t, err)
}
