package campaign_test

import (
	"testing"

	"github.com/qiibee/crowdsim/campaign"
	"github.com/qiibee/crowdsim/contracts/contractstest"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

// saleConfig returns a crowdsale with a rate of 10 and a goal of 100 tokens, owned by account 0 and paying out to
// account 5.
func saleConfig() generators.CrowdsaleConfig {
	return generators.CrowdsaleConfig{
		InitialRate:        10,
		PreferentialRate:   20,
		PrivatePresaleRate: 1,
		Goal:               units.FromUint64(100),
		FoundationWallet:   generators.KnownAccountAt(5),
		WeiLockSeconds:     600,
		Owner:              generators.KnownAccountAt(0),
	}
}

func TestRunnerFullSale(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	runner, err := campaign.NewRunner(deployer, accounts, campaign.DefaultConfig(), nil)
	require.NoError(t, err)

	commands := []generators.Command{
		&generators.SetWeiPerUSDinTGE{Wei: 3_000_000_000_000_000, From: generators.KnownAccountAt(0)},
		&generators.AddToWhitelist{Account: generators.KnownAccountAt(3), From: generators.KnownAccountAt(0)},
		&generators.WaitTime{Seconds: 15},
		&generators.BuyTokens{Account: generators.KnownAccountAt(1), Beneficiary: generators.KnownAccountAt(1), Eth: 1},
		&generators.CheckRate{Account: generators.KnownAccountAt(3)},
		// The token stays paused until finalization.
		&generators.Transfer{Tokens: 1, From: generators.KnownAccountAt(1), To: generators.KnownAccountAt(2)},
		&generators.FundCrowdsaleOverSoftCap{Account: generators.KnownAccountAt(2), SoftCapExcessWei: 1, Finalize: true},
		// The goal was reached, so nothing can be claimed back.
		&generators.ClaimEth{Eth: 1, From: generators.KnownAccountAt(1)},
		&generators.Transfer{Tokens: 1, From: generators.KnownAccountAt(1), To: generators.KnownAccountAt(2)},
		&generators.Approve{Tokens: 2, From: generators.KnownAccountAt(2), Spender: generators.KnownAccountAt(4)},
		&generators.TransferFrom{Tokens: 2, Sender: generators.KnownAccountAt(4), From: generators.KnownAccountAt(2), To: generators.KnownAccountAt(4)},
		&generators.BurnTokens{Account: generators.KnownAccountAt(4), Tokens: 1},
		&generators.CheckRate{Account: generators.KnownAccountAt(1)},
	}

	result, err := runner.RunSequence(context.Background(), saleConfig(), commands)
	require.NoError(t, err)
	require.True(t, result.Passed(), "%v", result.Failure)
	assert.False(t, result.DeploymentRejected)
	assert.Equal(t, len(commands), result.Executed)
	assert.Equal(t, 2, result.Rejected)

	// Every sequence starts from the same base state.
	again, err := runner.RunSequence(context.Background(), saleConfig(), commands)
	require.NoError(t, err)
	assert.True(t, again.Passed(), "%v", again.Failure)
	assert.Equal(t, result.Rejected, again.Rejected)
}

func TestRunnerCountsRejections(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	runner, err := campaign.NewRunner(deployer, accounts, campaign.DefaultConfig(), nil)
	require.NoError(t, err)

	commands := []generators.Command{
		// Not the owner.
		&generators.SetWeiPerUSDinTGE{Wei: 1, From: generators.KnownAccountAt(1)},
		// Before the presale.
		&generators.BuyTokens{Account: generators.KnownAccountAt(1), Beneficiary: generators.KnownAccountAt(1), Eth: 1},
		// The sale is still open.
		&generators.FinalizeCrowdsale{From: generators.KnownAccountAt(1)},
		// No key for the zero address.
		&generators.PauseCrowdsale{Pause: true, From: generators.Account{Zero: true}},
		&generators.PauseCrowdsale{Pause: true, From: generators.KnownAccountAt(0)},
		&generators.PauseCrowdsale{Pause: true, From: generators.KnownAccountAt(0)},
		&generators.PauseCrowdsale{Pause: false, From: generators.KnownAccountAt(0)},
		&generators.WaitBlock{Blocks: 3},
	}

	result, err := runner.RunSequence(context.Background(), saleConfig(), commands)
	require.NoError(t, err)
	require.True(t, result.Passed(), "%v", result.Failure)
	assert.Equal(t, 5, result.Rejected)
}

func TestRunnerFundBelowGoalAllowsClaims(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	runner, err := campaign.NewRunner(deployer, accounts, campaign.DefaultConfig(), nil)
	require.NoError(t, err)

	commands := []generators.Command{
		&generators.FundCrowdsaleBelowGoal{Account: generators.KnownAccountAt(1), Finalize: true},
		&generators.ClaimEth{Eth: 1, From: generators.KnownAccountAt(1)},
		&generators.ClaimEth{Eth: 100, From: generators.KnownAccountAt(1)},
	}

	result, err := runner.RunSequence(context.Background(), saleConfig(), commands)
	require.NoError(t, err)
	require.True(t, result.Passed(), "%v", result.Failure)
	assert.Equal(t, 1, result.Rejected)
}

func TestRunnerDeploymentRejected(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	runner, err := campaign.NewRunner(deployer, accounts, campaign.DefaultConfig(), nil)
	require.NoError(t, err)

	config := saleConfig()
	config.InitialRate = 0
	result, err := runner.RunSequence(context.Background(), config, []generators.Command{&generators.WaitBlock{Blocks: 1}})
	require.NoError(t, err)
	assert.True(t, result.DeploymentRejected)
	assert.Zero(t, result.Executed)
}

func TestRunnerCampaign(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	config := campaign.DefaultConfig()
	config.Iterations = 20
	config.SequenceLength = 15
	config.Seed = 1

	runner, err := campaign.NewRunner(deployer, accounts, config, nil)
	require.NoError(t, err)
	c, err := campaign.NewCampaign(runner, config, nil, nil)
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Passed(), "%v", report.Failures)
	assert.Equal(t, 20, report.Sequences)
}
