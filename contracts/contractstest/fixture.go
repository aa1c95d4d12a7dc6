// Package contractstest compiles and deploys the bundled contract suite for tests in other packages.
package contractstest

import (
	"math/big"
	"testing"

	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/chain"
	"github.com/qiibee/crowdsim/compilation"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/units"
	"github.com/qiibee/crowdsim/utils/testutils"
	"github.com/stretchr/testify/require"
)

// AccountCount is the number of funded accounts on chains created by NewChain.
const AccountCount = 6

// CompileFixture compiles the bundled contract suite with solc and resolves its artifacts. The calling test is
// skipped when solc is not installed.
func CompileFixture(t *testing.T) *contracts.Artifacts {
	testutils.RequireSolc(t)

	path, err := contracts.WriteFixture(t.TempDir())
	require.NoError(t, err)

	compilationConfig, err := compilation.NewCompilationConfig("solc")
	require.NoError(t, err)
	require.NoError(t, compilationConfig.SetTarget(path))

	compilations, _, err := compilationConfig.Compile()
	require.NoError(t, err)

	artifacts, err := contracts.LoadArtifacts(compilations, contracts.DefaultContractNames())
	require.NoError(t, err)
	return artifacts
}

// NewChain creates a chain whose AccountCount accounts each hold one million ether.
func NewChain(t *testing.T) (*chain.TestChain, []common.Address) {
	accounts := contracts.NewAccountPool(AccountCount)
	testChain, err := chain.NewTestChain(contracts.GenesisAlloc(accounts, units.FromUint64(1_000_000)), nil)
	require.NoError(t, err)
	t.Cleanup(testChain.Close)
	return testChain, accounts
}

// NewDeployer compiles the fixture and creates a Deployer on a fresh chain. Messages use a zero gas price.
func NewDeployer(t *testing.T) (*contracts.Deployer, []common.Address) {
	artifacts := CompileFixture(t)
	testChain, accounts := NewChain(t)
	return contracts.NewDeployer(testChain, artifacts, contracts.TxOptions{GasPrice: big.NewInt(0)}), accounts
}
