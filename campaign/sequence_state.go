package campaign

import (
	"fmt"
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/qiibee/crowdsim/chain"
	chainTypes "github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/oracle"
	"github.com/qiibee/crowdsim/units"
	"github.com/qiibee/crowdsim/utils"
	"github.com/rs/zerolog"
)

// sequenceState runs the commands of one sequence against its crowdsale and checks every outcome.
type sequenceState struct {
	runner    *Runner
	chain     *chain.TestChain
	crowdsale *contracts.Crowdsale
	token     *contracts.Token

	// burned is the amount of token base units burned so far.
	burned *big.Int

	// index and command identify the command being run.
	index   int
	command generators.Command

	result *SequenceResult
}

// fail returns an AssertionError for the current command.
func (s *sequenceState) fail(format string, args ...any) error {
	return &AssertionError{
		Index:   s.index,
		Command: generators.Describe(s.command),
		Message: fmt.Sprintf(format, args...),
	}
}

// resolve returns the address of a generated account.
func (s *sequenceState) resolve(account generators.Account) (common.Address, error) {
	return account.Resolve(s.runner.accounts)
}

// view reads the state the outcome of the next transaction depends on.
func (s *sequenceState) view() (*chainView, error) {
	status, err := s.crowdsale.Status()
	if err != nil {
		return nil, err
	}
	tokenPaused, err := s.token.Paused()
	if err != nil {
		return nil, err
	}
	tokenOwner, err := s.token.Owner()
	if err != nil {
		return nil, err
	}
	return &chainView{
		now:         s.chain.LatestTimestamp() + 1,
		status:      status,
		tokenPaused: tokenPaused,
		tokenOwner:  tokenOwner,
	}, nil
}

// snapshot reads the rate state of the crowdsale for the account pool and the zero address.
func (s *sequenceState) snapshot() (*oracle.CrowdsaleState, error) {
	return s.crowdsale.Snapshot(append([]common.Address{{}}, s.runner.accounts...))
}

// send sends a transaction and compares its outcome with the expected one. It returns whether the transaction
// succeeded. A sender which is the zero address has no key to sign with, so nothing is sent and the command counts
// as rejected.
func (s *sequenceState) send(from generators.Account, allowed bool, transact func(from common.Address) (*chainTypes.MessageResults, error)) (bool, error) {
	if from.Zero {
		s.result.Rejected++
		return false, nil
	}
	sender, err := s.resolve(from)
	if err != nil {
		return false, err
	}

	results, err := transact(sender)
	if err != nil && !chain.IsChainRejection(err) {
		return false, err
	}
	rejected := err != nil
	if allowed && rejected {
		return false, s.fail("expected the transaction to succeed, it was rejected: %v", err)
	}
	if !allowed && !rejected {
		return false, s.fail("expected the transaction to be rejected, it succeeded")
	}
	if rejected {
		s.result.Rejected++
		return false, nil
	}

	if s.runner.logger.Level() <= zerolog.DebugLevel && results != nil && results.Receipt != nil {
		for _, event := range s.runner.decoder.Decode(results.Receipt.Logs) {
			s.runner.logger.Debug("Event: ", event.String())
		}
	}
	return true, nil
}

// expectEqual fails the command if the values differ.
func (s *sequenceState) expectEqual(subject string, expected *big.Int, actual *big.Int) error {
	if expected.Cmp(actual) != 0 {
		return s.fail("unexpected %s: expected %v, got %v", subject, expected, actual)
	}
	return nil
}

// checkInvariants checks the token supply against the balances of the account pool and the amounts sold, minted to
// the wallet, and burned.
func (s *sequenceState) checkInvariants() error {
	supply, err := s.token.TotalSupply()
	if err != nil {
		return err
	}

	balances := big.NewInt(0)
	for _, account := range s.runner.accounts {
		balance, err := s.token.BalanceOf(account)
		if err != nil {
			return err
		}
		balances.Add(balances, balance)
	}
	if err = s.expectEqual("sum of balances", supply, balances); err != nil {
		return err
	}

	status, err := s.crowdsale.Status()
	if err != nil {
		return err
	}
	minted := new(big.Int).Set(status.TokensSold)
	if status.Finalized {
		minted.Add(minted, new(big.Int).Div(status.TokensSold, big.NewInt(4)))
	}
	return s.expectEqual("minted tokens", minted, new(big.Int).Add(supply, s.burned))
}

func (s *sequenceState) VisitWaitBlock(command *generators.WaitBlock) error {
	return s.chain.AdvanceBlocks(command.Blocks)
}

func (s *sequenceState) VisitWaitTime(command *generators.WaitTime) error {
	return s.chain.AdvanceSeconds(command.Seconds)
}

// VisitCheckRate compares the contract's rate for the account with the oracle's.
func (s *sequenceState) VisitCheckRate(command *generators.CheckRate) error {
	account, err := s.resolve(command.Account)
	if err != nil {
		return err
	}
	state, err := s.snapshot()
	if err != nil {
		return err
	}
	rate, err := s.crowdsale.GetRate(account)
	if err != nil {
		return err
	}
	return s.expectEqual("rate", oracle.ExpectedIntegerRate(state, account), rate)
}

func (s *sequenceState) VisitSetWeiPerUSDinTGE(command *generators.SetWeiPerUSDinTGE) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	wei := new(big.Int).SetUint64(command.Wei)
	succeeded, err := s.send(command.From, view.setWeiPerUSDAllowed(from, wei), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.SetWeiPerUSDinTGE(from, wei)
	})
	if err != nil || !succeeded {
		return err
	}

	actual, err := s.crowdsale.WeiPerUSDinTGE()
	if err != nil {
		return err
	}
	return s.expectEqual("wei per USD", wei, actual)
}

// buy purchases tokens for the beneficiary and checks the minted amount against the oracle.
func (s *sequenceState) buy(from generators.Account, beneficiary common.Address, wei *big.Int, transact func(from common.Address) (*chainTypes.MessageResults, error)) error {
	view, err := s.view()
	if err != nil {
		return err
	}
	state, err := s.snapshot()
	if err != nil {
		return err
	}
	balanceBefore, err := s.token.BalanceOf(beneficiary)
	if err != nil {
		return err
	}

	succeeded, err := s.send(from, view.purchaseAllowed(beneficiary, wei), transact)
	if err != nil || !succeeded {
		return err
	}

	expected := oracle.ExpectedPurchase(state, beneficiary, wei)
	balanceAfter, err := s.token.BalanceOf(beneficiary)
	if err != nil {
		return err
	}
	if err = s.expectEqual("purchased tokens", expected, new(big.Int).Sub(balanceAfter, balanceBefore)); err != nil {
		return err
	}
	soldAfter, err := s.crowdsale.TokensSold()
	if err != nil {
		return err
	}
	return s.expectEqual("tokens sold", new(big.Int).Add(state.TokensSold, expected), soldAfter)
}

func (s *sequenceState) VisitBuyTokens(command *generators.BuyTokens) error {
	beneficiary, err := s.resolve(command.Beneficiary)
	if err != nil {
		return err
	}
	wei := units.FromUint64(command.Eth)
	return s.buy(command.Account, beneficiary, wei, func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.BuyTokens(from, beneficiary, wei)
	})
}

// VisitSendTransaction buys through the receive function, so the sender is the beneficiary.
func (s *sequenceState) VisitSendTransaction(command *generators.SendTransaction) error {
	sender, err := s.resolve(command.Account)
	if err != nil {
		return err
	}
	wei := units.FromUint64(command.Eth)
	return s.buy(command.Account, sender, wei, func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.SendEth(from, wei)
	})
}

func (s *sequenceState) VisitBurnTokens(command *generators.BurnTokens) error {
	account, err := s.resolve(command.Account)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	balance, err := s.token.BalanceOf(account)
	if err != nil {
		return err
	}
	value := units.FromUint64(command.Tokens)

	succeeded, err := s.send(command.Account, view.burnAllowed(value, balance), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.token.Burn(from, value)
	})
	if err != nil || !succeeded {
		return err
	}
	s.burned.Add(s.burned, value)

	after, err := s.token.BalanceOf(account)
	if err != nil {
		return err
	}
	return s.expectEqual("balance after burn", new(big.Int).Sub(balance, value), after)
}

func (s *sequenceState) VisitPauseCrowdsale(command *generators.PauseCrowdsale) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	_, err = s.send(command.From, view.crowdsalePauseAllowed(from, command.Pause), func(from common.Address) (*chainTypes.MessageResults, error) {
		if command.Pause {
			return s.crowdsale.Pause(from)
		}
		return s.crowdsale.Unpause(from)
	})
	return err
}

func (s *sequenceState) VisitPauseToken(command *generators.PauseToken) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	_, err = s.send(command.From, view.tokenPauseAllowed(from, command.Pause), func(from common.Address) (*chainTypes.MessageResults, error) {
		if command.Pause {
			return s.token.Pause(from)
		}
		return s.token.Unpause(from)
	})
	return err
}

// finalize finalizes the crowdsale from the account and checks the foundation share, the token's release and its
// change of ownership.
func (s *sequenceState) finalize(from generators.Account) error {
	view, err := s.view()
	if err != nil {
		return err
	}
	succeeded, err := s.send(from, view.finalizeAllowed(), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.Finalize(from)
	})
	if err != nil || !succeeded {
		return err
	}

	paused, err := s.token.Paused()
	if err != nil {
		return err
	}
	if paused {
		return s.fail("token is still paused after finalization")
	}
	owner, err := s.token.Owner()
	if err != nil {
		return err
	}
	if owner != view.status.Wallet {
		return s.fail("token owner is %s after finalization, expected the wallet %s", owner.Hex(), view.status.Wallet.Hex())
	}
	return nil
}

func (s *sequenceState) VisitFinalizeCrowdsale(command *generators.FinalizeCrowdsale) error {
	return s.finalize(command.From)
}

func (s *sequenceState) VisitAddPrivatePresalePayment(command *generators.AddPrivatePresalePayment) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	beneficiary, err := s.resolve(command.Beneficiary)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	balance, err := s.token.BalanceOf(beneficiary)
	if err != nil {
		return err
	}
	wei := units.FromUint64(command.Eth)

	succeeded, err := s.send(command.From, view.privatePaymentAllowed(from, beneficiary, wei), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.AddPrivatePresalePayment(from, beneficiary, wei)
	})
	if err != nil || !succeeded {
		return err
	}

	after, err := s.token.BalanceOf(beneficiary)
	if err != nil {
		return err
	}
	expected := new(big.Int).Mul(wei, view.status.PrivatePresaleRate)
	return s.expectEqual("private presale tokens", expected, new(big.Int).Sub(after, balance))
}

func (s *sequenceState) VisitClaimEth(command *generators.ClaimEth) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	deposited, err := s.crowdsale.Deposited(from)
	if err != nil {
		return err
	}
	wei := units.FromUint64(command.Eth)

	succeeded, err := s.send(command.From, view.claimAllowed(wei, deposited), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.ClaimEth(from, wei)
	})
	if err != nil || !succeeded {
		return err
	}

	after, err := s.crowdsale.Deposited(from)
	if err != nil {
		return err
	}
	return s.expectEqual("deposit after claim", new(big.Int).Sub(deposited, wei), after)
}

// checkTransfer checks the balances of a transfer which succeeded.
func (s *sequenceState) checkTransfer(from common.Address, to common.Address, value *big.Int, fromBefore *big.Int, toBefore *big.Int) error {
	if from == to {
		return nil
	}
	fromAfter, err := s.token.BalanceOf(from)
	if err != nil {
		return err
	}
	if err = s.expectEqual("sender balance", new(big.Int).Sub(fromBefore, value), fromAfter); err != nil {
		return err
	}
	toAfter, err := s.token.BalanceOf(to)
	if err != nil {
		return err
	}
	return s.expectEqual("receiver balance", new(big.Int).Add(toBefore, value), toAfter)
}

func (s *sequenceState) VisitTransfer(command *generators.Transfer) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	to, err := s.resolve(command.To)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	fromBefore, err := s.token.BalanceOf(from)
	if err != nil {
		return err
	}
	toBefore, err := s.token.BalanceOf(to)
	if err != nil {
		return err
	}
	value := units.FromUint64(command.Tokens)

	succeeded, err := s.send(command.From, view.transferAllowed(to, value, fromBefore), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.token.Transfer(from, to, value)
	})
	if err != nil || !succeeded {
		return err
	}
	return s.checkTransfer(from, to, value, fromBefore, toBefore)
}

func (s *sequenceState) VisitApprove(command *generators.Approve) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	spender, err := s.resolve(command.Spender)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	value := units.FromUint64(command.Tokens)

	succeeded, err := s.send(command.From, view.approveAllowed(), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.token.Approve(from, spender, value)
	})
	if err != nil || !succeeded {
		return err
	}

	allowance, err := s.token.Allowance(from, spender)
	if err != nil {
		return err
	}
	return s.expectEqual("allowance", value, allowance)
}

func (s *sequenceState) VisitTransferFrom(command *generators.TransferFrom) error {
	sender, err := s.resolve(command.Sender)
	if err != nil {
		return err
	}
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	to, err := s.resolve(command.To)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	allowance, err := s.token.Allowance(from, sender)
	if err != nil {
		return err
	}
	fromBefore, err := s.token.BalanceOf(from)
	if err != nil {
		return err
	}
	toBefore, err := s.token.BalanceOf(to)
	if err != nil {
		return err
	}
	value := units.FromUint64(command.Tokens)

	allowed := view.transferFromAllowed(to, value, fromBefore, allowance)
	succeeded, err := s.send(command.Sender, allowed, func(sender common.Address) (*chainTypes.MessageResults, error) {
		return s.token.TransferFrom(sender, from, to, value)
	})
	if err != nil || !succeeded {
		return err
	}

	allowanceAfter, err := s.token.Allowance(from, sender)
	if err != nil {
		return err
	}
	if err = s.expectEqual("allowance after transferFrom", new(big.Int).Sub(allowance, value), allowanceAfter); err != nil {
		return err
	}
	return s.checkTransfer(from, to, value, fromBefore, toBefore)
}

// fund moves the chain into the sale if needed, then buys tokens for the account with the wei computed from the
// remaining amount to the goal and the account's rate, and finalizes the sale if requested. It does nothing if the
// sale can no longer be funded.
func (s *sequenceState) fund(account generators.Account, finalize bool, weiFor func(remaining *big.Int, rate *big.Int) *big.Int) error {
	buyer, err := s.resolve(account)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	status := view.status
	if status.Finalized || status.Paused || view.now > status.EndTime {
		return nil
	}

	if status.WeiPerUSDinTGE.Sign() == 0 {
		if view.now >= status.PresaleStartTime {
			return nil
		}
		ownerIndex := indexOf(s.runner.accounts, status.Owner)
		if ownerIndex < 0 {
			return nil
		}
		owner := generators.KnownAccountAt(ownerIndex)
		wei := new(big.Int).SetUint64(s.runner.config.DefaultWeiPerUSD)
		succeeded, err := s.send(owner, view.setWeiPerUSDAllowed(status.Owner, wei), func(from common.Address) (*chainTypes.MessageResults, error) {
			return s.crowdsale.SetWeiPerUSDinTGE(from, wei)
		})
		if err != nil || !succeeded {
			return err
		}
	}
	if s.chain.LatestTimestamp() < status.PresaleStartTime {
		if err = s.chain.AdvanceToTimestamp(status.PresaleStartTime); err != nil {
			return err
		}
	}

	rate, err := s.crowdsale.GetRate(buyer)
	if err != nil {
		return err
	}
	if rate.Sign() == 0 {
		return nil
	}
	remaining := new(big.Int).Sub(status.Goal, status.TokensSold)
	wei := weiFor(remaining, rate)
	if wei.Sign() <= 0 {
		return nil
	}

	err = s.buy(account, buyer, wei, func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.BuyTokens(from, buyer, wei)
	})
	if err != nil || !finalize {
		return err
	}

	if s.chain.LatestTimestamp() <= status.EndTime {
		if err = s.chain.AdvanceToTimestamp(status.EndTime + 1); err != nil {
			return err
		}
	}
	return s.finalize(account)
}

// VisitFundCrowdsaleBelowGoal buys one base unit less than the remaining amount to the goal, rounded down to whole
// wei at the buyer's rate.
func (s *sequenceState) VisitFundCrowdsaleBelowGoal(command *generators.FundCrowdsaleBelowGoal) error {
	return s.fund(command.Account, command.Finalize, func(remaining *big.Int, rate *big.Int) *big.Int {
		if remaining.Sign() <= 0 {
			return big.NewInt(0)
		}
		below := new(big.Int).Sub(remaining, big.NewInt(1))
		return below.Div(below, rate)
	})
}

// VisitFundCrowdsaleOverSoftCap buys the remaining amount to the goal, rounded up to whole wei at the buyer's rate,
// plus the excess wei.
func (s *sequenceState) VisitFundCrowdsaleOverSoftCap(command *generators.FundCrowdsaleOverSoftCap) error {
	excess := new(big.Int).SetUint64(command.SoftCapExcessWei)
	return s.fund(command.Account, command.Finalize, func(remaining *big.Int, rate *big.Int) *big.Int {
		if remaining.Sign() <= 0 {
			return excess
		}
		return new(big.Int).Add(utils.CeilDiv(remaining, rate), excess)
	})
}

func (s *sequenceState) VisitAddToWhitelist(command *generators.AddToWhitelist) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	buyer, err := s.resolve(command.Account)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}

	succeeded, err := s.send(command.From, view.whitelistAllowed(from, buyer), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.AddToWhitelist(from, buyer)
	})
	if err != nil || !succeeded {
		return err
	}

	state, err := s.snapshot()
	if err != nil {
		return err
	}
	if !state.Whitelist[buyer] {
		return s.fail("%s is not whitelisted", buyer.Hex())
	}
	return nil
}

func (s *sequenceState) VisitSetBuyerRate(command *generators.SetBuyerRate) error {
	from, err := s.resolve(command.From)
	if err != nil {
		return err
	}
	buyer, err := s.resolve(command.Account)
	if err != nil {
		return err
	}
	view, err := s.view()
	if err != nil {
		return err
	}
	rate := new(big.Int).SetUint64(command.Rate)

	_, err = s.send(command.From, view.buyerRateAllowed(from, buyer), func(from common.Address) (*chainTypes.MessageResults, error) {
		return s.crowdsale.SetBuyerRate(from, buyer, rate)
	})
	return err
}

// indexOf returns the position of the address in the pool, or -1.
func indexOf(pool []common.Address, address common.Address) int {
	for i, candidate := range pool {
		if candidate == address {
			return i
		}
	}
	return -1
}
