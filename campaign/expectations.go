package campaign

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/contracts"
)

// chainView is the state a command's outcome depends on, read right before the command is sent.
type chainView struct {
	// now is the timestamp of the block the next transaction is mined in.
	now uint64

	status *contracts.CrowdsaleStatus

	tokenPaused bool
	tokenOwner  common.Address
}

func (v *chainView) purchaseAllowed(beneficiary common.Address, wei *big.Int) bool {
	s := v.status
	return !s.Paused && !s.Finalized && beneficiary != (common.Address{}) &&
		v.now >= s.PresaleStartTime && v.now <= s.EndTime &&
		wei.Sign() > 0 && s.WeiPerUSDinTGE.Sign() > 0
}

func (v *chainView) setWeiPerUSDAllowed(from common.Address, wei *big.Int) bool {
	s := v.status
	unlocked := s.WeiPerUSDSetAt == 0 || v.now >= s.WeiPerUSDSetAt+s.WeiLockSeconds
	return from == s.Owner && wei.Sign() > 0 && v.now < s.PresaleStartTime && unlocked
}

func (v *chainView) privatePaymentAllowed(from common.Address, beneficiary common.Address, wei *big.Int) bool {
	s := v.status
	return from == s.Owner && beneficiary != (common.Address{}) && v.now < s.PresaleStartTime && wei.Sign() > 0
}

func (v *chainView) whitelistAllowed(from common.Address, buyer common.Address) bool {
	return from == v.status.Owner && buyer != (common.Address{})
}

func (v *chainView) buyerRateAllowed(from common.Address, buyer common.Address) bool {
	return v.whitelistAllowed(from, buyer) && v.now < v.status.StartTime
}

func (v *chainView) crowdsalePauseAllowed(from common.Address, pause bool) bool {
	return from == v.status.Owner && v.status.Paused != pause
}

func (v *chainView) tokenPauseAllowed(from common.Address, pause bool) bool {
	return from == v.tokenOwner && v.tokenPaused != pause
}

func (v *chainView) finalizeAllowed() bool {
	return !v.status.Finalized && v.now > v.status.EndTime
}

func (v *chainView) claimAllowed(wei *big.Int, deposited *big.Int) bool {
	s := v.status
	return s.Finalized && !s.GoalReached() && wei.Sign() > 0 && wei.Cmp(deposited) <= 0
}

func (v *chainView) transferAllowed(to common.Address, value *big.Int, balance *big.Int) bool {
	return !v.tokenPaused && to != (common.Address{}) && value.Cmp(balance) <= 0
}

func (v *chainView) transferFromAllowed(to common.Address, value *big.Int, balance *big.Int, allowance *big.Int) bool {
	return v.transferAllowed(to, value, balance) && value.Cmp(allowance) <= 0
}

func (v *chainView) approveAllowed() bool {
	return !v.tokenPaused
}

func (v *chainView) burnAllowed(value *big.Int, balance *big.Int) bool {
	return !v.tokenPaused && value.Cmp(balance) <= 0
}
