package campaign

import (
	"math/big"
	"testing"

	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/stretchr/testify/assert"
)

var (
	owner  = common.HexToAddress("0x10000")
	buyer  = common.HexToAddress("0x20000")
	wallet = common.HexToAddress("0x30000")
)

// newView returns a view of an open sale at the given timestamp, with presale at 100, start at 200 and end at 300.
func newView(now uint64) *chainView {
	return &chainView{
		now: now,
		status: &contracts.CrowdsaleStatus{
			Owner:              owner,
			Wallet:             wallet,
			PresaleStartTime:   100,
			StartTime:          200,
			EndTime:            300,
			WeiLockSeconds:     600,
			WeiPerUSDinTGE:     big.NewInt(3),
			TokensSold:         big.NewInt(0),
			Goal:               big.NewInt(1000),
			PrivatePresaleRate: big.NewInt(1),
		},
		tokenPaused: true,
		tokenOwner:  common.HexToAddress("0xc0ffee"),
	}
}

func TestPurchaseAllowed(t *testing.T) {
	one := big.NewInt(1)

	assert.False(t, newView(99).purchaseAllowed(buyer, one))
	assert.True(t, newView(100).purchaseAllowed(buyer, one))
	assert.True(t, newView(300).purchaseAllowed(buyer, one))
	assert.False(t, newView(301).purchaseAllowed(buyer, one))
	assert.False(t, newView(150).purchaseAllowed(common.Address{}, one))
	assert.False(t, newView(150).purchaseAllowed(buyer, big.NewInt(0)))

	view := newView(150)
	view.status.Paused = true
	assert.False(t, view.purchaseAllowed(buyer, one))

	view = newView(150)
	view.status.Finalized = true
	assert.False(t, view.purchaseAllowed(buyer, one))

	view = newView(150)
	view.status.WeiPerUSDinTGE = big.NewInt(0)
	assert.False(t, view.purchaseAllowed(buyer, one))
}

func TestSetWeiPerUSDAllowed(t *testing.T) {
	wei := big.NewInt(5)

	assert.True(t, newView(50).setWeiPerUSDAllowed(owner, wei))
	assert.False(t, newView(50).setWeiPerUSDAllowed(buyer, wei))
	assert.False(t, newView(50).setWeiPerUSDAllowed(owner, big.NewInt(0)))
	assert.False(t, newView(100).setWeiPerUSDAllowed(owner, wei))

	// The value stays locked until the lock expires.
	view := newView(50)
	view.status.WeiPerUSDSetAt = 10
	view.status.WeiLockSeconds = 30
	view.now = 39
	assert.False(t, view.setWeiPerUSDAllowed(owner, wei))
	view.now = 40
	assert.True(t, view.setWeiPerUSDAllowed(owner, wei))
}

func TestOwnerOnlyExpectations(t *testing.T) {
	view := newView(50)

	assert.True(t, view.privatePaymentAllowed(owner, buyer, big.NewInt(1)))
	assert.False(t, view.privatePaymentAllowed(buyer, buyer, big.NewInt(1)))
	assert.False(t, view.privatePaymentAllowed(owner, common.Address{}, big.NewInt(1)))
	assert.False(t, view.privatePaymentAllowed(owner, buyer, big.NewInt(0)))
	assert.False(t, newView(100).privatePaymentAllowed(owner, buyer, big.NewInt(1)))

	assert.True(t, view.whitelistAllowed(owner, buyer))
	assert.False(t, view.whitelistAllowed(buyer, buyer))
	assert.False(t, view.whitelistAllowed(owner, common.Address{}))

	assert.True(t, newView(199).buyerRateAllowed(owner, buyer))
	assert.False(t, newView(200).buyerRateAllowed(owner, buyer))

	assert.True(t, view.crowdsalePauseAllowed(owner, true))
	assert.False(t, view.crowdsalePauseAllowed(owner, false))
	assert.False(t, view.crowdsalePauseAllowed(buyer, true))

	assert.True(t, view.tokenPauseAllowed(view.tokenOwner, false))
	assert.False(t, view.tokenPauseAllowed(view.tokenOwner, true))
	assert.False(t, view.tokenPauseAllowed(owner, false))
}

func TestFinalizeAndClaimExpectations(t *testing.T) {
	assert.False(t, newView(300).finalizeAllowed())
	assert.True(t, newView(301).finalizeAllowed())

	view := newView(301)
	view.status.Finalized = true
	assert.False(t, view.finalizeAllowed())

	deposited := big.NewInt(10)
	assert.True(t, view.claimAllowed(big.NewInt(10), deposited))
	assert.False(t, view.claimAllowed(big.NewInt(11), deposited))
	assert.False(t, view.claimAllowed(big.NewInt(0), deposited))
	assert.False(t, newView(301).claimAllowed(big.NewInt(1), deposited))

	view.status.TokensSold = big.NewInt(1000)
	assert.False(t, view.claimAllowed(big.NewInt(1), deposited))
}

func TestTokenExpectations(t *testing.T) {
	balance := big.NewInt(10)
	paused := newView(50)
	open := newView(50)
	open.tokenPaused = false

	assert.False(t, paused.transferAllowed(buyer, big.NewInt(1), balance))
	assert.True(t, open.transferAllowed(buyer, big.NewInt(10), balance))
	assert.False(t, open.transferAllowed(buyer, big.NewInt(11), balance))
	assert.False(t, open.transferAllowed(common.Address{}, big.NewInt(1), balance))

	assert.True(t, open.transferFromAllowed(buyer, big.NewInt(5), balance, big.NewInt(5)))
	assert.False(t, open.transferFromAllowed(buyer, big.NewInt(6), balance, big.NewInt(5)))

	assert.False(t, paused.approveAllowed())
	assert.True(t, open.approveAllowed())

	assert.False(t, paused.burnAllowed(big.NewInt(1), balance))
	assert.True(t, open.burnAllowed(big.NewInt(0), balance))
	assert.False(t, open.burnAllowed(big.NewInt(11), balance))
}
