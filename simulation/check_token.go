package simulation

import (
	"fmt"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/units"
	"github.com/shopspring/decimal"
)

// AssertionError is returned when the token holds a value other than the expected one.
type AssertionError struct {
	// Subject names the checked value, e.g. "total supply".
	Subject string

	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("unexpected %s: expected %s, got %s", e.Subject, e.Expected.String(), e.Actual.String())
}

// CheckToken checks the token's total supply and the balances of accounts 1 through 5, in display units. The first
// mismatch is returned as an *AssertionError.
func CheckToken(token TokenReader, accounts []common.Address, totalSupply decimal.Decimal, balances Funding) error {
	if len(accounts) < BuyerCount+1 {
		return errors.Errorf("token check needs %d accounts, got %d", BuyerCount+1, len(accounts))
	}

	supply, err := token.TotalSupply()
	if err != nil {
		return err
	}
	if actual := units.ToDisplayUnits(supply); !actual.Equal(totalSupply) {
		return &AssertionError{Subject: "total supply", Expected: totalSupply, Actual: actual}
	}

	for i, expected := range balances {
		balance, err := token.BalanceOf(accounts[i+1])
		if err != nil {
			return err
		}
		if actual := units.ToDisplayUnits(balance); !actual.Equal(expected) {
			return &AssertionError{Subject: fmt.Sprintf("balance of account %d", i+1), Expected: expected, Actual: actual}
		}
	}
	return nil
}
