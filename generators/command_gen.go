package generators

import (
	"pgregory.net/rand"
)

const (
	// maxEth bounds generated ether amounts of purchases.
	maxEth = 100

	// maxAmount bounds generated token and ether amounts of transfers, payments and claims.
	maxAmount = 200

	// maxWeiPerUSD bounds the generated wei value of one USD to 0.01 ether.
	maxWeiPerUSD = 10_000_000_000_000_000

	// maxWaitBlocks and maxWaitSeconds bound waits, so sequences can reach every phase of the sale.
	maxWaitBlocks  = 10
	maxWaitSeconds = 60
)

// CommandGen generates commands of every type, weighted towards purchases and transfers. Accounts are drawn from a
// pool of the provided size and may be the zero address, except for the funding commands.
func CommandGen(poolSize int) Generator[Command] {
	account := AnyAccount(poolSize)
	knownAccount := KnownAccount(poolSize)
	flag := Bool()
	eth := Nat(maxEth)
	amount := Nat(maxAmount)

	weighted := func(weight uint64, generator Generator[Command]) WeightedGenerator[Command] {
		return WeightedGenerator[Command]{Weight: weight, Generator: generator}
	}

	return Weighted(
		weighted(2, func(rnd *rand.Rand) Command {
			return &WaitBlock{Blocks: Nat(maxWaitBlocks)(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &WaitTime{Seconds: Nat(maxWaitSeconds)(rnd)}
		}),
		weighted(3, func(rnd *rand.Rand) Command {
			return &CheckRate{Account: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &SetWeiPerUSDinTGE{Wei: Nat(maxWeiPerUSD)(rnd), From: account(rnd)}
		}),
		weighted(6, func(rnd *rand.Rand) Command {
			return &BuyTokens{Account: account(rnd), Beneficiary: account(rnd), Eth: eth(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &BurnTokens{Account: account(rnd), Tokens: eth(rnd)}
		}),
		weighted(5, func(rnd *rand.Rand) Command {
			return &SendTransaction{Account: account(rnd), Beneficiary: account(rnd), Eth: eth(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &PauseCrowdsale{Pause: flag(rnd), From: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &PauseToken{Pause: flag(rnd), From: account(rnd)}
		}),
		weighted(1, func(rnd *rand.Rand) Command {
			return &FinalizeCrowdsale{From: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &AddPrivatePresalePayment{Beneficiary: account(rnd), From: account(rnd), Eth: amount(rnd)}
		}),
		weighted(1, func(rnd *rand.Rand) Command {
			return &ClaimEth{Eth: amount(rnd), From: account(rnd)}
		}),
		weighted(3, func(rnd *rand.Rand) Command {
			return &Transfer{Tokens: amount(rnd), From: account(rnd), To: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &Approve{Tokens: amount(rnd), From: account(rnd), Spender: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &TransferFrom{Tokens: amount(rnd), Sender: account(rnd), From: account(rnd), To: account(rnd)}
		}),
		weighted(1, func(rnd *rand.Rand) Command {
			return &FundCrowdsaleBelowGoal{Account: knownAccount(rnd), Finalize: flag(rnd)}
		}),
		weighted(1, func(rnd *rand.Rand) Command {
			return &FundCrowdsaleOverSoftCap{Account: knownAccount(rnd), SoftCapExcessWei: eth(rnd), Finalize: flag(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &AddToWhitelist{Account: account(rnd), From: account(rnd)}
		}),
		weighted(2, func(rnd *rand.Rand) Command {
			return &SetBuyerRate{Account: account(rnd), Rate: amount(rnd), From: account(rnd)}
		}),
	)
}

// SequenceGen generates sequences of commands with a length in [1, maxLength].
func SequenceGen(poolSize int, maxLength int) Generator[[]Command] {
	if maxLength < 1 {
		panic("generators: SequenceGen requires a positive length")
	}
	command := CommandGen(poolSize)
	length := NatRange(1, uint64(maxLength))
	return func(rnd *rand.Rand) []Command {
		sequence := make([]Command, length(rnd))
		for i := range sequence {
			sequence[i] = command(rnd)
		}
		return sequence
	}
}
