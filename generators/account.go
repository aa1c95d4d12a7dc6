package generators

import (
	"fmt"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// ErrAccountOutOfRange is returned when an account index does not exist in the account pool.
var ErrAccountOutOfRange = errors.New("account index is outside the account pool")

// Account refers to either the zero address or one of the known accounts by index.
type Account struct {
	// Zero indicates the account is the zero address. Index is ignored when set.
	Zero bool `json:"zero,omitempty"`

	// Index is the position of the account in the account pool.
	Index int `json:"index"`
}

// KnownAccountAt returns the Account for an index in the pool.
func KnownAccountAt(index int) Account {
	return Account{Index: index}
}

// Resolve returns the address the account refers to.
func (a Account) Resolve(pool []common.Address) (common.Address, error) {
	if a.Zero {
		return common.Address{}, nil
	}
	if a.Index < 0 || a.Index >= len(pool) {
		return common.Address{}, errors.Wrapf(ErrAccountOutOfRange, "index %d, pool size %d", a.Index, len(pool))
	}
	return pool[a.Index], nil
}

func (a Account) String() string {
	if a.Zero {
		return "zero"
	}
	return fmt.Sprintf("account[%d]", a.Index)
}

// KnownAccount generates accounts from the pool, never the zero address.
func KnownAccount(poolSize int) Generator[Account] {
	if poolSize <= 0 {
		panic("generators: KnownAccount requires a non-empty pool")
	}
	return func(rnd *rand.Rand) Account {
		return Account{Index: rnd.Intn(poolSize)}
	}
}

// ZeroAccount always generates the zero address.
func ZeroAccount() Generator[Account] {
	return Constant(Account{Zero: true})
}

// AnyAccount generates either the zero address or a known account, each with equal probability.
func AnyAccount(poolSize int) Generator[Account] {
	return OneOf(ZeroAccount(), KnownAccount(poolSize))
}
