package oracle

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/shopspring/decimal"
)

// CrowdsaleState is a read-only snapshot of the crowdsale values the rate rules depend on. A snapshot describes the
// chain at the moment it was read and must be re-read after any state-mutating command.
type CrowdsaleState struct {
	// InitialRate is the number of token base units minted per wei for regular buyers.
	InitialRate *big.Int

	// PreferentialRate is the rate applied to whitelisted buyers.
	PreferentialRate *big.Int

	// Goal is the funding goal, expressed in token base units sold.
	Goal *big.Int

	// TokensSold is the amount of token base units sold so far.
	TokensSold *big.Int

	// BuyerRates maps buyers to a custom rate override. A zero or missing entry means no override.
	BuyerRates map[common.Address]*big.Int

	// Whitelist maps buyers to whether they are granted the preferential rate.
	Whitelist map[common.Address]bool
}

// NewCrowdsaleState returns a CrowdsaleState with empty buyer mappings.
func NewCrowdsaleState(initialRate, preferentialRate, goal, tokensSold *big.Int) *CrowdsaleState {
	return &CrowdsaleState{
		InitialRate:      initialRate,
		PreferentialRate: preferentialRate,
		Goal:             goal,
		TokensSold:       tokensSold,
		BuyerRates:       make(map[common.Address]*big.Int),
		Whitelist:        make(map[common.Address]bool),
	}
}

// buyerRate returns the custom rate override for the buyer, or nil if none exists.
func (s *CrowdsaleState) buyerRate(buyer common.Address) *big.Int {
	rate, ok := s.BuyerRates[buyer]
	if !ok || rate == nil || rate.Sign() == 0 {
		return nil
	}
	return rate
}

// oversubscribed indicates whether more tokens were sold than the goal.
func (s *CrowdsaleState) oversubscribed() bool {
	return s.Goal != nil && s.Goal.Sign() > 0 && s.TokensSold != nil && s.TokensSold.Cmp(s.Goal) > 0
}

// ExpectedRate returns the rate the crowdsale should apply to a purchase by the buyer. The first matching rule wins:
// a nonzero custom rate for the buyer, then the preferential rate for whitelisted buyers, then the oversubscription
// decay initialRate / (tokensSold / goal), and finally the initial rate.
//
// The decay rule does not account for the purchase being priced, nor does it bound the result below by any minimum
// rate. It is kept as the expected contract behavior rather than corrected here.
func ExpectedRate(state *CrowdsaleState, buyer common.Address) decimal.Decimal {
	if rate := state.buyerRate(buyer); rate != nil {
		return decimal.NewFromBigInt(rate, 0)
	}
	if state.Whitelist[buyer] {
		return decimal.NewFromBigInt(state.PreferentialRate, 0)
	}
	if state.oversubscribed() {
		initialRate := decimal.NewFromBigInt(state.InitialRate, 0)
		ratio := decimal.NewFromBigInt(state.TokensSold, 0).Div(decimal.NewFromBigInt(state.Goal, 0))
		return initialRate.Div(ratio)
	}
	return decimal.NewFromBigInt(state.InitialRate, 0)
}

// ExpectedIntegerRate evaluates the same rules as ExpectedRate in integer arithmetic, the way the contract computes
// them: the oversubscription rule becomes initialRate * goal / tokensSold, rounded down.
func ExpectedIntegerRate(state *CrowdsaleState, buyer common.Address) *big.Int {
	if rate := state.buyerRate(buyer); rate != nil {
		return new(big.Int).Set(rate)
	}
	if state.Whitelist[buyer] {
		return new(big.Int).Set(state.PreferentialRate)
	}
	if state.oversubscribed() {
		rate := new(big.Int).Mul(state.InitialRate, state.Goal)
		return rate.Div(rate, state.TokensSold)
	}
	return new(big.Int).Set(state.InitialRate)
}

// ExpectedPurchase returns the amount of token base units a purchase of the given wei should mint for the buyer.
func ExpectedPurchase(state *CrowdsaleState, buyer common.Address, wei *big.Int) *big.Int {
	return new(big.Int).Mul(wei, ExpectedIntegerRate(state, buyer))
}

// MaxPresaleTokens returns the maximum amount of tokens a presale contribution can buy:
// (contributionEth / (minCap / maxTokens)) * (bonusRatePercent + 100) / 100.
func MaxPresaleTokens(minCap, maxTokens, bonusRatePercent, contributionEth decimal.Decimal) decimal.Decimal {
	pricePerToken := minCap.Div(maxTokens)
	hundred := decimal.NewFromInt(100)
	return contributionEth.Div(pricePerToken).Mul(bonusRatePercent.Add(hundred)).Div(hundred)
}
