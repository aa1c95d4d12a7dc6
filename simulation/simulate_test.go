package simulation

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/units"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/context"
)

// bigIntEq matches *big.Int arguments by value.
type bigIntEq struct {
	expected *big.Int
}

func (m bigIntEq) Matches(x any) bool {
	value, ok := x.(*big.Int)
	return ok && value != nil && value.Cmp(m.expected) == 0
}

func (m bigIntEq) String() string {
	return fmt.Sprintf("is equal to %v", m.expected)
}

func mustFunding(t *testing.T, amounts ...string) Funding {
	funding, err := ParseFunding(amounts)
	require.NoError(t, err)
	return funding
}

func TestParseFunding(t *testing.T) {
	funding := mustFunding(t, "40", "30.5")
	assert.True(t, funding[1].Equal(decimal.RequireFromString("30.5")))
	assert.True(t, funding[4].IsZero())

	_, err := ParseFunding([]string{"1", "2", "3", "4", "5", "6"})
	assert.Error(t, err)
	_, err = ParseFunding([]string{"abc"})
	assert.Error(t, err)
	_, err = ParseFunding([]string{"-1"})
	assert.Error(t, err)
}

func TestNewSchedule(t *testing.T) {
	assert.EqualValues(t, Schedule{PresaleStart: 8, Start: 20, End: 25}, NewSchedule(5))
}

// expectSimulation sets up the calls of a successful simulation, in order, with the chain head at timestamp 100.
func expectSimulation(clock *MockClock, deployer *MockDeployer, crowdsale *MockCrowdsale, accounts []common.Address, weiPerUSD *big.Int, payments map[int]*big.Int) {
	calls := []any{
		clock.EXPECT().AdvanceSeconds(uint64(1)).Return(nil),
		clock.EXPECT().LatestTimestamp().Return(uint64(100)),
		deployer.EXPECT().DeployCrowdsale(accounts[0], gomock.Any()).Return(crowdsale, nil),
		clock.EXPECT().AdvanceToTimestamp(uint64(101)).Return(nil),
		crowdsale.EXPECT().SetWeiPerUSDinTGE(accounts[0], bigIntEq{weiPerUSD}).Return(nil, nil),
		clock.EXPECT().AdvanceToTimestamp(uint64(108)).Return(nil),
	}
	for i := 0; i < BuyerCount; i++ {
		if payment, ok := payments[i]; ok {
			calls = append(calls, crowdsale.EXPECT().SendEth(accounts[i+1], bigIntEq{payment}).Return(nil, nil))
		}
	}
	calls = append(calls, clock.EXPECT().AdvanceToTimestamp(uint64(126)).Return(nil))
	calls = append(calls, crowdsale.EXPECT().Finalize(accounts[0]).Return(nil, nil))
	gomock.InOrder(calls...)
}

func TestSimulateCrowdsaleStepOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := NewMockClock(ctrl)
	deployer := NewMockDeployer(ctrl)
	crowdsale := NewMockCrowdsale(ctrl)
	accounts := contracts.NewAccountPool(6)

	config := generators.DefaultCrowdsaleConfig(100_000_000_000)
	weiPerUSD := big.NewInt(3_000_000_000_000_000)
	expectSimulation(clock, deployer, crowdsale, accounts, weiPerUSD, map[int]*big.Int{
		0: big.NewInt(400_000_000),
		1: big.NewInt(300_000_000),
		2: big.NewInt(200_000_000),
		3: big.NewInt(100_000_000),
	})

	env := Environment{Clock: clock, Deployer: deployer, Accounts: accounts}
	result, schedule, err := SimulateCrowdsale(context.Background(), env, config, mustFunding(t, "40", "30", "20", "10", "0"), weiPerUSD)
	require.NoError(t, err)
	assert.Equal(t, crowdsale, result)
	assert.EqualValues(t, Schedule{PresaleStart: 108, Start: 120, End: 125}, schedule)
}

func TestSimulateCrowdsaleDeployParameters(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := NewMockClock(ctrl)
	deployer := NewMockDeployer(ctrl)
	accounts := contracts.NewAccountPool(6)

	config := generators.DefaultCrowdsaleConfig(7)
	config.FoundationWallet = generators.KnownAccountAt(5)
	config.Owner = generators.KnownAccountAt(2)

	clock.EXPECT().AdvanceSeconds(uint64(1)).Return(nil)
	clock.EXPECT().LatestTimestamp().Return(uint64(0))
	deployer.EXPECT().DeployCrowdsale(accounts[2], gomock.Any()).DoAndReturn(
		func(owner common.Address, params contracts.CrowdsaleParams) (Crowdsale, error) {
			assert.EqualValues(t, 8, params.PresaleStartTime)
			assert.EqualValues(t, 20, params.StartTime)
			assert.EqualValues(t, 25, params.EndTime)
			assert.EqualValues(t, 7, params.InitialRate.Int64())
			assert.EqualValues(t, 17, params.PreferentialRate.Int64())
			assert.EqualValues(t, 1, params.PrivatePresaleRate.Int64())
			assert.EqualValues(t, 600, params.WeiLockSeconds)
			assert.EqualValues(t, accounts[5], params.Wallet)
			assert.EqualValues(t, 0, params.Goal.Cmp(config.Goal))
			return nil, errors.New("out of gas")
		})

	env := Environment{Clock: clock, Deployer: deployer, Accounts: accounts}
	_, _, err := SimulateCrowdsale(context.Background(), env, config, Funding{}, big.NewInt(1))
	assert.ErrorContains(t, err, "deploying crowdsale")
}

func TestSimulateCrowdsaleAbortsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := NewMockClock(ctrl)
	deployer := NewMockDeployer(ctrl)
	crowdsale := NewMockCrowdsale(ctrl)
	accounts := contracts.NewAccountPool(6)
	weiPerUSD := big.NewInt(1)

	failure := errors.New("execution reverted")
	gomock.InOrder(
		clock.EXPECT().AdvanceSeconds(uint64(1)).Return(nil),
		clock.EXPECT().LatestTimestamp().Return(uint64(100)),
		deployer.EXPECT().DeployCrowdsale(accounts[0], gomock.Any()).Return(crowdsale, nil),
		clock.EXPECT().AdvanceToTimestamp(uint64(101)).Return(nil),
		crowdsale.EXPECT().SetWeiPerUSDinTGE(accounts[0], bigIntEq{weiPerUSD}).Return(nil, nil),
		clock.EXPECT().AdvanceToTimestamp(uint64(108)).Return(nil),
		crowdsale.EXPECT().SendEth(accounts[1], gomock.Any()).Return(nil, nil),
		crowdsale.EXPECT().SendEth(accounts[2], gomock.Any()).Return(nil, failure),
	)

	env := Environment{Clock: clock, Deployer: deployer, Accounts: accounts}
	_, _, err := SimulateCrowdsale(context.Background(), env, generators.DefaultCrowdsaleConfig(10), mustFunding(t, "1", "2", "3"), weiPerUSD)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure))
	assert.Contains(t, err.Error(), "funding crowdsale from account 2")
}

func TestSimulateCrowdsaleRejectsInvalidSetup(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := Environment{Clock: NewMockClock(ctrl), Deployer: NewMockDeployer(ctrl), Accounts: contracts.NewAccountPool(6)}

	_, _, err := SimulateCrowdsale(context.Background(), env, generators.DefaultCrowdsaleConfig(0), Funding{}, big.NewInt(1))
	assert.Error(t, err)

	config := generators.DefaultCrowdsaleConfig(10)
	config.Owner = generators.KnownAccountAt(9)
	_, _, err = SimulateCrowdsale(context.Background(), env, config, Funding{}, big.NewInt(1))
	assert.True(t, errors.Is(err, generators.ErrAccountOutOfRange))

	_, _, err = SimulateCrowdsale(context.Background(), env, generators.DefaultCrowdsaleConfig(10), mustFunding(t, "0.0000000000000000001"), big.NewInt(1))
	assert.True(t, errors.Is(err, units.ErrPrecisionLoss))

	env.Accounts = env.Accounts[:3]
	_, _, err = SimulateCrowdsale(context.Background(), env, generators.DefaultCrowdsaleConfig(10), Funding{}, big.NewInt(1))
	assert.Error(t, err)
}

func TestCheckToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	token := NewMockTokenReader(ctrl)
	accounts := contracts.NewAccountPool(6)
	balances := mustFunding(t, "40", "30", "20", "10", "0")

	token.EXPECT().TotalSupply().Return(units.FromUint64(125), nil).Times(2)
	for i, balance := range []uint64{40, 30, 20, 10, 0} {
		token.EXPECT().BalanceOf(accounts[i+1]).Return(units.FromUint64(balance), nil).MaxTimes(2)
	}
	require.NoError(t, CheckToken(token, accounts, decimal.NewFromInt(125), balances))

	balances[2] = decimal.NewFromInt(21)
	err := CheckToken(token, accounts, decimal.NewFromInt(125), balances)
	var assertionError *AssertionError
	require.True(t, errors.As(err, &assertionError))
	assert.EqualValues(t, "balance of account 3", assertionError.Subject)
	assert.EqualValues(t, "unexpected balance of account 3: expected 21, got 20", err.Error())

	token.EXPECT().TotalSupply().Return(units.FromUint64(100), nil)
	err = CheckToken(token, accounts, decimal.NewFromInt(125), balances)
	require.True(t, errors.As(err, &assertionError))
	assert.EqualValues(t, "total supply", assertionError.Subject)
}
