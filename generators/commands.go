package generators

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Command is one step of a generated sequence. The set of commands is closed: every command type implements
// Accept by calling its method on CommandVisitor, so a visitor which misses a command does not compile.
type Command interface {
	// Name returns the stable name of the command type, used when encoding sequences.
	Name() string

	// Accept calls the visitor method for the command type.
	Accept(visitor CommandVisitor) error

	isCommand()
}

// CommandVisitor handles each command type.
type CommandVisitor interface {
	VisitWaitBlock(command *WaitBlock) error
	VisitWaitTime(command *WaitTime) error
	VisitCheckRate(command *CheckRate) error
	VisitSetWeiPerUSDinTGE(command *SetWeiPerUSDinTGE) error
	VisitBuyTokens(command *BuyTokens) error
	VisitBurnTokens(command *BurnTokens) error
	VisitSendTransaction(command *SendTransaction) error
	VisitPauseCrowdsale(command *PauseCrowdsale) error
	VisitPauseToken(command *PauseToken) error
	VisitFinalizeCrowdsale(command *FinalizeCrowdsale) error
	VisitAddPrivatePresalePayment(command *AddPrivatePresalePayment) error
	VisitClaimEth(command *ClaimEth) error
	VisitTransfer(command *Transfer) error
	VisitApprove(command *Approve) error
	VisitTransferFrom(command *TransferFrom) error
	VisitFundCrowdsaleBelowGoal(command *FundCrowdsaleBelowGoal) error
	VisitFundCrowdsaleOverSoftCap(command *FundCrowdsaleOverSoftCap) error
	VisitAddToWhitelist(command *AddToWhitelist) error
	VisitSetBuyerRate(command *SetBuyerRate) error
}

// Describe renders a command with its fields, e.g. "buyTokens{Account:account[1] Beneficiary:zero Eth:3}".
func Describe(command Command) string {
	value := reflect.Indirect(reflect.ValueOf(command))
	return fmt.Sprintf("%s%+v", command.Name(), value.Interface())
}

// WaitBlock mines empty blocks.
type WaitBlock struct {
	Blocks uint64
}

// WaitTime moves the chain time forward.
type WaitTime struct {
	Seconds uint64
}

// CheckRate compares the crowdsale's rate for an account with the expected rate.
type CheckRate struct {
	Account Account
}

// SetWeiPerUSDinTGE sets the wei value of one USD.
type SetWeiPerUSDinTGE struct {
	Wei  uint64
	From Account
}

// BuyTokens buys tokens for a beneficiary. Eth is in whole ether.
type BuyTokens struct {
	Account     Account
	Beneficiary Account
	Eth         uint64
}

// BurnTokens burns whole tokens from an account.
type BurnTokens struct {
	Account Account
	Tokens  uint64
}

// SendTransaction sends ether to the crowdsale's receive function, which buys tokens for the sender. Beneficiary is
// generated for parity with BuyTokens but the receive function cannot take one.
type SendTransaction struct {
	Account     Account
	Beneficiary Account
	Eth         uint64
}

// PauseCrowdsale pauses or unpauses the crowdsale.
type PauseCrowdsale struct {
	Pause bool
	From  Account
}

// PauseToken pauses or unpauses the token.
type PauseToken struct {
	Pause bool
	From  Account
}

type FinalizeCrowdsale struct {
	From Account
}

// AddPrivatePresalePayment registers a private presale payment in whole ether.
type AddPrivatePresalePayment struct {
	Beneficiary Account
	From        Account
	Eth         uint64
}

// ClaimEth claims back whole ether after a sale that missed its goal.
type ClaimEth struct {
	Eth  uint64
	From Account
}

// Transfer moves whole tokens.
type Transfer struct {
	Tokens uint64
	From   Account
	To     Account
}

type Approve struct {
	Tokens  uint64
	From    Account
	Spender Account
}

// TransferFrom moves whole tokens on behalf of From, sent by Sender.
type TransferFrom struct {
	Tokens uint64
	Sender Account
	From   Account
	To     Account
}

// FundCrowdsaleBelowGoal moves to the sale and buys just under the goal, optionally finalizing afterwards.
type FundCrowdsaleBelowGoal struct {
	Account  Account
	Finalize bool
}

// FundCrowdsaleOverSoftCap moves to the sale and buys the goal plus an excess, optionally finalizing afterwards.
type FundCrowdsaleOverSoftCap struct {
	Account          Account
	SoftCapExcessWei uint64
	Finalize         bool
}

// AddToWhitelist grants an account the preferential rate.
type AddToWhitelist struct {
	Account Account
	From    Account
}

// SetBuyerRate gives an account a custom rate.
type SetBuyerRate struct {
	Account Account
	Rate    uint64
	From    Account
}

const (
	NameWaitBlock                = "waitBlock"
	NameWaitTime                 = "waitTime"
	NameCheckRate                = "checkRate"
	NameSetWeiPerUSDinTGE        = "setWeiPerUSDinTGE"
	NameBuyTokens                = "buyTokens"
	NameBurnTokens               = "burnTokens"
	NameSendTransaction          = "sendTransaction"
	NamePauseCrowdsale           = "pauseCrowdsale"
	NamePauseToken               = "pauseToken"
	NameFinalizeCrowdsale        = "finalizeCrowdsale"
	NameAddPrivatePresalePayment = "addPrivatePresalePayment"
	NameClaimEth                 = "claimEth"
	NameTransfer                 = "transfer"
	NameApprove                  = "approve"
	NameTransferFrom             = "transferFrom"
	NameFundCrowdsaleBelowGoal   = "fundCrowdsaleBelowGoal"
	NameFundCrowdsaleOverSoftCap = "fundCrowdsaleOverSoftCap"
	NameAddToWhitelist           = "addToWhitelist"
	NameSetBuyerRate             = "setBuyerRate"
)

func (*WaitBlock) Name() string                { return NameWaitBlock }
func (*WaitTime) Name() string                 { return NameWaitTime }
func (*CheckRate) Name() string                { return NameCheckRate }
func (*SetWeiPerUSDinTGE) Name() string        { return NameSetWeiPerUSDinTGE }
func (*BuyTokens) Name() string                { return NameBuyTokens }
func (*BurnTokens) Name() string               { return NameBurnTokens }
func (*SendTransaction) Name() string          { return NameSendTransaction }
func (*PauseCrowdsale) Name() string           { return NamePauseCrowdsale }
func (*PauseToken) Name() string               { return NamePauseToken }
func (*FinalizeCrowdsale) Name() string        { return NameFinalizeCrowdsale }
func (*AddPrivatePresalePayment) Name() string { return NameAddPrivatePresalePayment }
func (*ClaimEth) Name() string                 { return NameClaimEth }
func (*Transfer) Name() string                 { return NameTransfer }
func (*Approve) Name() string                  { return NameApprove }
func (*TransferFrom) Name() string             { return NameTransferFrom }
func (*FundCrowdsaleBelowGoal) Name() string   { return NameFundCrowdsaleBelowGoal }
func (*FundCrowdsaleOverSoftCap) Name() string { return NameFundCrowdsaleOverSoftCap }
func (*AddToWhitelist) Name() string           { return NameAddToWhitelist }
func (*SetBuyerRate) Name() string             { return NameSetBuyerRate }

func (c *WaitBlock) Accept(v CommandVisitor) error         { return v.VisitWaitBlock(c) }
func (c *WaitTime) Accept(v CommandVisitor) error          { return v.VisitWaitTime(c) }
func (c *CheckRate) Accept(v CommandVisitor) error         { return v.VisitCheckRate(c) }
func (c *SetWeiPerUSDinTGE) Accept(v CommandVisitor) error { return v.VisitSetWeiPerUSDinTGE(c) }
func (c *BuyTokens) Accept(v CommandVisitor) error         { return v.VisitBuyTokens(c) }
func (c *BurnTokens) Accept(v CommandVisitor) error        { return v.VisitBurnTokens(c) }
func (c *SendTransaction) Accept(v CommandVisitor) error   { return v.VisitSendTransaction(c) }
func (c *PauseCrowdsale) Accept(v CommandVisitor) error    { return v.VisitPauseCrowdsale(c) }
func (c *PauseToken) Accept(v CommandVisitor) error        { return v.VisitPauseToken(c) }
func (c *FinalizeCrowdsale) Accept(v CommandVisitor) error { return v.VisitFinalizeCrowdsale(c) }
func (c *AddPrivatePresalePayment) Accept(v CommandVisitor) error {
	return v.VisitAddPrivatePresalePayment(c)
}
func (c *ClaimEth) Accept(v CommandVisitor) error               { return v.VisitClaimEth(c) }
func (c *Transfer) Accept(v CommandVisitor) error               { return v.VisitTransfer(c) }
func (c *Approve) Accept(v CommandVisitor) error                { return v.VisitApprove(c) }
func (c *TransferFrom) Accept(v CommandVisitor) error           { return v.VisitTransferFrom(c) }
func (c *FundCrowdsaleBelowGoal) Accept(v CommandVisitor) error { return v.VisitFundCrowdsaleBelowGoal(c) }
func (c *FundCrowdsaleOverSoftCap) Accept(v CommandVisitor) error {
	return v.VisitFundCrowdsaleOverSoftCap(c)
}
func (c *AddToWhitelist) Accept(v CommandVisitor) error { return v.VisitAddToWhitelist(c) }
func (c *SetBuyerRate) Accept(v CommandVisitor) error   { return v.VisitSetBuyerRate(c) }

func (*WaitBlock) isCommand() {}
func (*WaitTime) isCommand() {}
func (*CheckRate) isCommand() {}
func (*SetWeiPerUSDinTGE) isCommand() {}
func (*BuyTokens) isCommand() {}
func (*BurnTokens) isCommand() {}
func (*SendTransaction) isCommand() {}
func (*PauseCrowdsale) isCommand() {}
func (*PauseToken) isCommand() {}
func (*FinalizeCrowdsale) isCommand() {}
func (*AddPrivatePresalePayment) isCommand() {}
func (*ClaimEth) isCommand() {}
func (*Transfer) isCommand() {}
func (*Approve) isCommand() {}
func (*TransferFrom) isCommand() {}
func (*FundCrowdsaleBelowGoal) isCommand() {}
func (*FundCrowdsaleOverSoftCap) isCommand() {}
func (*AddToWhitelist) isCommand() {}
func (*SetBuyerRate) isCommand() {}

// NewCommand returns a zero command of the named type, for decoding.
func NewCommand(name string) (Command, error) {
	switch name {
	case NameWaitBlock:
		return &WaitBlock{}, nil
	case NameWaitTime:
		return &WaitTime{}, nil
	case NameCheckRate:
		return &CheckRate{}, nil
	case NameSetWeiPerUSDinTGE:
		return &SetWeiPerUSDinTGE{}, nil
	case NameBuyTokens:
		return &BuyTokens{}, nil
	case NameBurnTokens:
		return &BurnTokens{}, nil
	case NameSendTransaction:
		return &SendTransaction{}, nil
	case NamePauseCrowdsale:
		return &PauseCrowdsale{}, nil
	case NamePauseToken:
		return &PauseToken{}, nil
	case NameFinalizeCrowdsale:
		return &FinalizeCrowdsale{}, nil
	case NameAddPrivatePresalePayment:
		return &AddPrivatePresalePayment{}, nil
	case NameClaimEth:
		return &ClaimEth{}, nil
	case NameTransfer:
		return &Transfer{}, nil
	case NameApprove:
		return &Approve{}, nil
	case NameTransferFrom:
		return &TransferFrom{}, nil
	case NameFundCrowdsaleBelowGoal:
		return &FundCrowdsaleBelowGoal{}, nil
	case NameFundCrowdsaleOverSoftCap:
		return &FundCrowdsaleOverSoftCap{}, nil
	case NameAddToWhitelist:
		return &AddToWhitelist{}, nil
	case NameSetBuyerRate:
		return &SetBuyerRate{}, nil
	default:
		return nil, errors.Errorf("unknown command %q", name)
	}
}
