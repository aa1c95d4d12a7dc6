package units

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits used by both the token and ether. One display unit equals
// 10^Decimals base units.
const Decimals = 18

// ErrPrecisionLoss is returned when a display amount cannot be represented in base units without dropping digits.
var ErrPrecisionLoss = errors.New("amount has more fractional digits than base units can represent")

// ErrNegativeAmount is returned when a negative amount is provided for conversion.
var ErrNegativeAmount = errors.New("amount must not be negative")

// scale is 10^Decimals as a decimal, used to move the decimal point between display and base units.
var scale = decimal.New(1, Decimals)

// ToBaseUnits converts a display amount (e.g. 3.55 tokens) into base units (3550000000000000000). The conversion is
// exact; an amount with more than Decimals fractional digits returns ErrPrecisionLoss instead of being truncated.
func ToBaseUnits(display decimal.Decimal) (*big.Int, error) {
	if display.IsNegative() {
		return nil, errors.WithStack(ErrNegativeAmount)
	}

	base := display.Mul(scale)
	if !base.IsInteger() {
		return nil, errors.Wrapf(ErrPrecisionLoss, "cannot convert %v to base units", display)
	}
	return base.BigInt(), nil
}

// ToDisplayUnits converts base units into a display amount. The result is exact for any base amount.
func ToDisplayUnits(base *big.Int) decimal.Decimal {
	if base == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(base, -Decimals)
}

// ParseDisplay parses a display amount string (e.g. "3.55") and converts it into base units.
func ParseDisplay(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid display amount %q", s)
	}
	return ToBaseUnits(d)
}

// MustBaseUnits is ParseDisplay for literals that are known to be valid. It panics on error.
func MustBaseUnits(s string) *big.Int {
	base, err := ParseDisplay(s)
	if err != nil {
		panic(err)
	}
	return base
}

// EtherToWei converts an ether amount into wei. Ether and the token share the same 18 decimal scale.
func EtherToWei(ether decimal.Decimal) (*big.Int, error) {
	return ToBaseUnits(ether)
}

// WeiToEther converts a wei amount into ether.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return ToDisplayUnits(wei)
}

// FromUint64 converts a whole display amount into base units.
func FromUint64(display uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(display), scale.BigInt())
}
