package simulation

import (
	"math/big"
	"testing"

	"github.com/qiibee/crowdsim/contracts/contractstest"
	"github.com/qiibee/crowdsim/generators"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

func TestSimulateCrowdsaleOnChain(t *testing.T) {
	deployer, accounts := contractstest.NewDeployer(t)
	env := NewChainEnvironment(deployer, accounts, nil)

	funding := mustFunding(t, "40", "30", "20", "10", "0")
	crowdsale, schedule, err := SimulateCrowdsale(context.Background(), env, generators.DefaultCrowdsaleConfig(100_000_000_000), funding, big.NewInt(3_000_000_000_000_000))
	require.NoError(t, err)
	assert.Greater(t, deployer.Chain.LatestTimestamp(), schedule.End)

	require.NoError(t, CheckToken(crowdsale.Token(), accounts, decimal.NewFromInt(125), funding))
}
