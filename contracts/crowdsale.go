package contracts

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain"
	chainTypes "github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/oracle"
)

// CrowdsaleParams are the constructor arguments of the crowdsale.
type CrowdsaleParams struct {
	// PresaleStartTime is when purchases open.
	PresaleStartTime uint64

	// StartTime is when the main sale starts. Buyer rates can only be set before it.
	StartTime uint64

	// EndTime is the last timestamp purchases are accepted at.
	EndTime uint64

	// InitialRate is the number of token base units minted per wei.
	InitialRate *big.Int

	// PreferentialRate is the rate for whitelisted buyers.
	PreferentialRate *big.Int

	// Goal is the funding goal in token base units sold.
	Goal *big.Int

	// PrivatePresaleRate is the rate of payments registered by the owner before the presale.
	PrivatePresaleRate *big.Int

	// WeiLockSeconds is how long the wei per USD value stays locked after being set.
	WeiLockSeconds uint64

	// Wallet receives the raised funds and the foundation tokens on finalization.
	Wallet common.Address
}

// args returns the constructor arguments in declaration order.
func (p CrowdsaleParams) args() []any {
	return []any{
		new(big.Int).SetUint64(p.PresaleStartTime),
		new(big.Int).SetUint64(p.StartTime),
		new(big.Int).SetUint64(p.EndTime),
		p.InitialRate,
		p.PreferentialRate,
		p.Goal,
		p.PrivatePresaleRate,
		new(big.Int).SetUint64(p.WeiLockSeconds),
		p.Wallet,
	}
}

// Deployer deploys crowdsales and binds the contracts they create.
type Deployer struct {
	// Chain is the chain contracts are deployed on.
	Chain *chain.TestChain

	// Artifacts are the compiled contracts.
	Artifacts *Artifacts

	// Options are the gas parameters of every message sent to the deployed contracts.
	Options TxOptions
}

// NewDeployer creates a Deployer.
func NewDeployer(testChain *chain.TestChain, artifacts *Artifacts, options TxOptions) *Deployer {
	return &Deployer{
		Chain:     testChain,
		Artifacts: artifacts,
		Options:   options,
	}
}

// DeployCrowdsale deploys a crowdsale from the owner and binds the token it creates.
func (d *Deployer) DeployCrowdsale(owner common.Address, params CrowdsaleParams) (*Crowdsale, error) {
	bound, err := Deploy(d.Chain, d.Artifacts.Names.Crowdsale, d.Artifacts.Crowdsale, owner, d.Options, params.args()...)
	if err != nil {
		return nil, err
	}

	crowdsale := &Crowdsale{BoundContract: bound}
	tokenAddress, err := crowdsale.callAddress("token")
	if err != nil {
		return nil, err
	}
	crowdsale.token = NewToken(Bind(d.Chain, d.Artifacts.Names.Token, tokenAddress, &d.Artifacts.Token.Abi, d.Options))
	return crowdsale, nil
}

// DeployMessage deploys the message receiver.
func (d *Deployer) DeployMessage(from common.Address) (*Message, error) {
	if d.Artifacts.Message == nil {
		return nil, errors.New("no message contract was configured")
	}
	bound, err := Deploy(d.Chain, d.Artifacts.Names.Message, d.Artifacts.Message, from, d.Options)
	if err != nil {
		return nil, err
	}
	return NewMessage(bound), nil
}

// Crowdsale wraps the deployed crowdsale contract and the token it created.
type Crowdsale struct {
	*BoundContract

	// token is the token minted by the crowdsale.
	token *Token
}

// Token returns the token minted by the crowdsale.
func (c *Crowdsale) Token() *Token {
	return c.token
}

func (c *Crowdsale) InitialRate() (*big.Int, error) {
	return c.callBigInt("initialRate")
}

func (c *Crowdsale) PreferentialRate() (*big.Int, error) {
	return c.callBigInt("preferentialRate")
}

func (c *Crowdsale) Goal() (*big.Int, error) {
	return c.callBigInt("goal")
}

// TokensSold returns the amount of token base units sold, including private presale payments.
func (c *Crowdsale) TokensSold() (*big.Int, error) {
	return c.callBigInt("tokensSold")
}

func (c *Crowdsale) WeiRaised() (*big.Int, error) {
	return c.callBigInt("weiRaised")
}

func (c *Crowdsale) WeiPerUSDinTGE() (*big.Int, error) {
	return c.callBigInt("weiPerUSDinTGE")
}

// Deposited returns the wei the buyer paid through purchases, which can be claimed back if the goal is not reached.
func (c *Crowdsale) Deposited(buyer common.Address) (*big.Int, error) {
	return c.callBigInt("deposited", buyer)
}

// GetRate returns the rate the contract would apply to a purchase for the buyer.
func (c *Crowdsale) GetRate(buyer common.Address) (*big.Int, error) {
	return c.callBigInt("getRate", buyer)
}

func (c *Crowdsale) IsFinalized() (bool, error) {
	return c.callBool("isFinalized")
}

func (c *Crowdsale) Paused() (bool, error) {
	return c.callBool("paused")
}

func (c *Crowdsale) Wallet() (common.Address, error) {
	return c.callAddress("wallet")
}

func (c *Crowdsale) EndTime() (uint64, error) {
	endTime, err := c.callBigInt("endTime")
	if err != nil {
		return 0, err
	}
	return endTime.Uint64(), nil
}

// Snapshot reads the values the rate rules depend on, including the buyer rate and whitelist entries of the provided
// accounts.
func (c *Crowdsale) Snapshot(accounts []common.Address) (*oracle.CrowdsaleState, error) {
	var values [4]*big.Int
	for i, method := range []string{"initialRate", "preferentialRate", "goal", "tokensSold"} {
		value, err := c.callBigInt(method)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	state := oracle.NewCrowdsaleState(values[0], values[1], values[2], values[3])
	for _, account := range accounts {
		rate, err := c.callBigInt("buyerRate", account)
		if err != nil {
			return nil, err
		}
		if rate.Sign() != 0 {
			state.BuyerRates[account] = rate
		}

		whitelisted, err := c.callBool("whitelist", account)
		if err != nil {
			return nil, err
		}
		if whitelisted {
			state.Whitelist[account] = true
		}
	}
	return state, nil
}

// BuyTokens buys tokens for the beneficiary, paying wei from the sender.
func (c *Crowdsale) BuyTokens(from common.Address, beneficiary common.Address, wei *big.Int) (*chainTypes.MessageResults, error) {
	return c.Transact(from, wei, "buyTokens", beneficiary)
}

// SendEth sends wei to the crowdsale's receive function, which buys tokens for the sender.
func (c *Crowdsale) SendEth(from common.Address, wei *big.Int) (*chainTypes.MessageResults, error) {
	return c.SendValue(from, wei)
}

func (c *Crowdsale) SetWeiPerUSDinTGE(from common.Address, wei *big.Int) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "setWeiPerUSDinTGE", wei)
}

// AddPrivatePresalePayment registers a private presale payment of wei for the beneficiary at the private rate.
func (c *Crowdsale) AddPrivatePresalePayment(from common.Address, beneficiary common.Address, wei *big.Int) (*chainTypes.MessageResults, error) {
	return c.Transact(from, wei, "addPrivatePresalePayment", beneficiary)
}

func (c *Crowdsale) AddToWhitelist(from common.Address, buyer common.Address) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "addToWhitelist", buyer)
}

func (c *Crowdsale) SetBuyerRate(from common.Address, buyer common.Address, rate *big.Int) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "setBuyerRate", buyer, rate)
}

func (c *Crowdsale) Pause(from common.Address) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "pause")
}

func (c *Crowdsale) Unpause(from common.Address) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "unpause")
}

// Finalize ends the sale: it mints the foundation share to the wallet, unpauses the token and hands its ownership to
// the wallet.
func (c *Crowdsale) Finalize(from common.Address) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "finalize")
}

// ClaimEth refunds wei to the sender after a finalized sale that missed its goal.
func (c *Crowdsale) ClaimEth(from common.Address, wei *big.Int) (*chainTypes.MessageResults, error) {
	return c.Transact(from, nil, "claimEth", wei)
}

// CrowdsaleStatus is a read of the crowdsale's scalar state.
type CrowdsaleStatus struct {
	Owner  common.Address
	Wallet common.Address

	PresaleStartTime uint64
	StartTime        uint64
	EndTime          uint64
	WeiLockSeconds   uint64

	// WeiPerUSDSetAt is the timestamp the wei per USD value was last set at, or zero if it was never set.
	WeiPerUSDSetAt uint64

	WeiPerUSDinTGE     *big.Int
	TokensSold         *big.Int
	Goal               *big.Int
	PrivatePresaleRate *big.Int

	Paused    bool
	Finalized bool
}

// GoalReached indicates whether at least the goal was sold.
func (s *CrowdsaleStatus) GoalReached() bool {
	return s.TokensSold.Cmp(s.Goal) >= 0
}

// Status reads the crowdsale's scalar state.
func (c *Crowdsale) Status() (*CrowdsaleStatus, error) {
	var err error
	status := &CrowdsaleStatus{}
	if status.Owner, err = c.callAddress("owner"); err != nil {
		return nil, err
	}
	if status.Wallet, err = c.callAddress("wallet"); err != nil {
		return nil, err
	}

	timestamps := map[string]*uint64{
		"presaleStartTime": &status.PresaleStartTime,
		"startTime":        &status.StartTime,
		"endTime":          &status.EndTime,
		"weiLockSeconds":   &status.WeiLockSeconds,
		"weiPerUSDSetAt":   &status.WeiPerUSDSetAt,
	}
	for method, target := range timestamps {
		value, err := c.callBigInt(method)
		if err != nil {
			return nil, err
		}
		*target = value.Uint64()
	}

	amounts := map[string]**big.Int{
		"weiPerUSDinTGE":     &status.WeiPerUSDinTGE,
		"tokensSold":         &status.TokensSold,
		"goal":               &status.Goal,
		"privatePresaleRate": &status.PrivatePresaleRate,
	}
	for method, target := range amounts {
		if *target, err = c.callBigInt(method); err != nil {
			return nil, err
		}
	}

	if status.Paused, err = c.callBool("paused"); err != nil {
		return nil, err
	}
	if status.Finalized, err = c.callBool("isFinalized"); err != nil {
		return nil, err
	}
	return status, nil
}
