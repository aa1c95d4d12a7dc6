package simulation

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/units"
	"github.com/qiibee/crowdsim/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/net/context"
)

// BuyerCount is the number of buyers funding a simulated crowdsale. Buyer i is account i+1 of the pool.
const BuyerCount = 5

// Funding is the amount of tokens, in display units, each buyer purchases. A zero entry skips the buyer.
type Funding [BuyerCount]decimal.Decimal

// ParseFunding parses display amounts into a Funding. Missing trailing entries are zero.
func ParseFunding(amounts []string) (Funding, error) {
	var funding Funding
	if len(amounts) > BuyerCount {
		return funding, errors.Errorf("at most %d funding amounts can be provided, got %d", BuyerCount, len(amounts))
	}
	for i := range funding {
		funding[i] = decimal.Zero
	}
	for i, amount := range amounts {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return funding, errors.Wrapf(err, "invalid funding amount %q", amount)
		}
		if value.IsNegative() {
			return funding, errors.Errorf("funding amount %q is negative", amount)
		}
		funding[i] = value
	}
	return funding, nil
}

// Schedule holds the timestamps a simulated crowdsale was deployed with.
type Schedule struct {
	PresaleStart uint64
	Start        uint64
	End          uint64
}

// NewSchedule returns the schedule of a crowdsale whose reference start is the provided timestamp: the presale opens
// three seconds after it, the main sale fifteen seconds after it, and the sale ends twenty seconds after it.
func NewSchedule(start uint64) Schedule {
	return Schedule{
		PresaleStart: start + 3,
		Start:        start + 15,
		End:          start + 20,
	}
}

// SimulateCrowdsale deploys a crowdsale from the configured owner, sets its wei per USD value, buys the funded token
// amounts from accounts 1 through 5 through the crowdsale's receive function, and finalizes it once the sale ended.
// The first failing step aborts the simulation and its error is returned, wrapped with the step.
func SimulateCrowdsale(ctx context.Context, env Environment, config generators.CrowdsaleConfig, funding Funding, weiPerUSD *big.Int) (Crowdsale, Schedule, error) {
	logger := env.logger()

	if len(env.Accounts) < BuyerCount+1 {
		return nil, Schedule{}, errors.Errorf("simulation needs %d accounts, got %d", BuyerCount+1, len(env.Accounts))
	}
	if config.InitialRate == 0 {
		return nil, Schedule{}, errors.New("simulation needs a non-zero initial rate")
	}
	owner, err := config.Owner.Resolve(env.Accounts)
	if err != nil {
		return nil, Schedule{}, err
	}
	wallet, err := config.FoundationWallet.Resolve(env.Accounts)
	if err != nil {
		return nil, Schedule{}, err
	}

	// Compute the wei each buyer sends up front, so that invalid funding fails before touching the chain.
	rate := new(big.Int).SetUint64(config.InitialRate)
	payments := make([]*big.Int, BuyerCount)
	for i, amount := range funding {
		if !amount.IsPositive() {
			continue
		}
		tokens, err := units.ToBaseUnits(amount)
		if err != nil {
			return nil, Schedule{}, errors.Wrapf(err, "invalid funding for account %d", i+1)
		}
		payments[i] = tokens.Div(tokens, rate)
	}

	if err = env.Clock.AdvanceSeconds(1); err != nil {
		return nil, Schedule{}, errors.Wrap(err, "advancing the chain before deployment")
	}
	latest := env.Clock.LatestTimestamp()
	start := latest + 5
	schedule := NewSchedule(start)

	params := contracts.CrowdsaleParams{
		PresaleStartTime:   schedule.PresaleStart,
		StartTime:          schedule.Start,
		EndTime:            schedule.End,
		InitialRate:        rate,
		PreferentialRate:   new(big.Int).SetUint64(config.PreferentialRate),
		Goal:               config.Goal,
		PrivatePresaleRate: new(big.Int).SetUint64(config.PrivatePresaleRate),
		WeiLockSeconds:     config.WeiLockSeconds,
		Wallet:             wallet,
	}
	logger.Debug("Deploying crowdsale with schedule ", schedule.PresaleStart, "/", schedule.Start, "/", schedule.End)
	crowdsale, err := env.Deployer.DeployCrowdsale(owner, params)
	if err != nil {
		return nil, schedule, errors.Wrap(err, "deploying crowdsale")
	}

	if err = env.Clock.AdvanceToTimestamp(latest + 1); err != nil {
		return nil, schedule, errors.Wrap(err, "advancing the chain after deployment")
	}
	if _, err = crowdsale.SetWeiPerUSDinTGE(owner, weiPerUSD); err != nil {
		return nil, schedule, errors.Wrap(err, "setting wei per USD")
	}
	if err = env.Clock.AdvanceToTimestamp(schedule.PresaleStart); err != nil {
		return nil, schedule, errors.Wrap(err, "advancing the chain to the presale")
	}

	for i, payment := range payments {
		if payment == nil {
			continue
		}
		if utils.CheckContextDone(ctx) {
			return nil, schedule, errors.WithStack(ctx.Err())
		}
		logger.Debug("Funding crowdsale from account ", i+1, " with ", payment.String(), " wei")
		if _, err = crowdsale.SendEth(env.Accounts[i+1], payment); err != nil {
			return nil, schedule, errors.Wrapf(err, "funding crowdsale from account %d", i+1)
		}
	}

	if err = env.Clock.AdvanceToTimestamp(schedule.End + 1); err != nil {
		return nil, schedule, errors.Wrap(err, "advancing the chain past the end of the sale")
	}
	if _, err = crowdsale.Finalize(owner); err != nil {
		return nil, schedule, errors.Wrap(err, "finalizing crowdsale")
	}
	return crowdsale, schedule, nil
}
