package generators

import (
	"math/big"

	"github.com/qiibee/crowdsim/units"
	"pgregory.net/rand"
)

// CrowdsaleConfig describes the constructor parameters of a crowdsale, apart from its schedule.
type CrowdsaleConfig struct {
	// InitialRate is the number of token base units minted per wei.
	InitialRate uint64 `json:"initialRate"`

	// PreferentialRate is the rate for whitelisted buyers.
	PreferentialRate uint64 `json:"preferentialRate"`

	// PrivatePresaleRate is the rate of private presale payments.
	PrivatePresaleRate uint64 `json:"privatePresaleRate"`

	// Goal is the funding goal in token base units.
	Goal *big.Int `json:"goal"`

	// FoundationWallet receives the funds and the foundation tokens.
	FoundationWallet Account `json:"foundationWallet"`

	// WeiLockSeconds is how long the wei per USD value stays locked once set.
	WeiLockSeconds uint64 `json:"weiLockSeconds"`

	// Owner deploys and administers the crowdsale.
	Owner Account `json:"owner"`
}

// DefaultCrowdsaleConfig returns the configuration of the deterministic simulation: a preferential rate ten above the
// initial rate, a private presale rate of one, a goal too large to be reached by the simulation's funding, a ten
// minute lock, and account 0 as both wallet and owner.
func DefaultCrowdsaleConfig(rate uint64) CrowdsaleConfig {
	return CrowdsaleConfig{
		InitialRate:        rate,
		PreferentialRate:   rate + 10,
		PrivatePresaleRate: 1,
		Goal:               units.FromUint64(1_000_000_000),
		FoundationWallet:   KnownAccountAt(0),
		WeiLockSeconds:     600,
		Owner:              KnownAccountAt(0),
	}
}

// CrowdsaleConfigGen generates crowdsale configurations. Rates may be zero, which the crowdsale rejects on
// deployment for its initial and preferential rates. The owner is always a known account, since it has to sign the
// deployment.
func CrowdsaleConfigGen(poolSize int) Generator[CrowdsaleConfig] {
	rate := Nat(200)
	goal := NatRange(1, 1000)
	lock := NatRange(600, 3600)
	wallet := AnyAccount(poolSize)
	owner := KnownAccount(poolSize)

	return func(rnd *rand.Rand) CrowdsaleConfig {
		return CrowdsaleConfig{
			InitialRate:        rate(rnd),
			PreferentialRate:   rate(rnd),
			PrivatePresaleRate: rate(rnd),
			Goal:               units.FromUint64(goal(rnd)),
			FoundationWallet:   wallet(rnd),
			WeiLockSeconds:     lock(rnd),
			Owner:              owner(rnd),
		}
	}
}
