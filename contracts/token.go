package contracts

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	chainTypes "github.com/qiibee/crowdsim/chain/types"
)

// Token wraps the deployed token contract.
type Token struct {
	*BoundContract
}

// NewToken wraps a bound token contract.
func NewToken(contract *BoundContract) *Token {
	return &Token{BoundContract: contract}
}

// Name returns the token name.
func (t *Token) Name() (string, error) {
	values, err := t.Call("name")
	if err != nil {
		return "", err
	}
	return singleValue[string](t.BoundContract, "name", values)
}

// Symbol returns the token symbol.
func (t *Token) Symbol() (string, error) {
	values, err := t.Call("symbol")
	if err != nil {
		return "", err
	}
	return singleValue[string](t.BoundContract, "symbol", values)
}

// Decimals returns the number of decimals of the token.
func (t *Token) Decimals() (uint8, error) {
	values, err := t.Call("decimals")
	if err != nil {
		return 0, err
	}
	return singleValue[uint8](t.BoundContract, "decimals", values)
}

// TotalSupply returns the total supply in base units.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.callBigInt("totalSupply")
}

// BalanceOf returns the balance of the account in base units.
func (t *Token) BalanceOf(account common.Address) (*big.Int, error) {
	return t.callBigInt("balanceOf", account)
}

// Allowance returns the amount the spender may transfer on behalf of the owner.
func (t *Token) Allowance(owner common.Address, spender common.Address) (*big.Int, error) {
	return t.callBigInt("allowance", owner, spender)
}

// Paused indicates whether token transfers are paused.
func (t *Token) Paused() (bool, error) {
	return t.callBool("paused")
}

// Owner returns the token owner.
func (t *Token) Owner() (common.Address, error) {
	return t.callAddress("owner")
}

func (t *Token) Transfer(from common.Address, to common.Address, value *big.Int) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "transfer", to, value)
}

// TransferFrom moves tokens from one account to another using the sender's allowance.
func (t *Token) TransferFrom(sender common.Address, from common.Address, to common.Address, value *big.Int) (*chainTypes.MessageResults, error) {
	return t.Transact(sender, nil, "transferFrom", from, to, value)
}

func (t *Token) Approve(from common.Address, spender common.Address, value *big.Int) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "approve", spender, value)
}

func (t *Token) Burn(from common.Address, value *big.Int) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "burn", value)
}

func (t *Token) Pause(from common.Address) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "pause")
}

func (t *Token) Unpause(from common.Address) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "unpause")
}

// TransferData transfers tokens and then calls the receiver with data. The transfer stands even if the receiver's
// call fails; a TransferData event is only emitted when it succeeds.
func (t *Token) TransferData(from common.Address, to common.Address, value *big.Int, data []byte) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "transferData", to, value, data)
}

// TransferDataFrom is TransferFrom followed by a call to the receiver with data.
func (t *Token) TransferDataFrom(sender common.Address, from common.Address, to common.Address, value *big.Int, data []byte) (*chainTypes.MessageResults, error) {
	return t.Transact(sender, nil, "transferDataFrom", from, to, value, data)
}

// ApproveData approves the spender and then calls it with data.
func (t *Token) ApproveData(from common.Address, spender common.Address, value *big.Int, data []byte) (*chainTypes.MessageResults, error) {
	return t.Transact(from, nil, "approveData", spender, value, data)
}
