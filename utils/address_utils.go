package utils

import (
	"encoding/hex"
	"strings"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
)

// HexStringToAddress converts a hex string (with or without the "0x" prefix) to a common.Address. Short strings are
// left-padded, so "0x10000" resolves to the address ending in 010000.
func HexStringToAddress(s string) (*common.Address, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(trimmed)%2 != 0 {
		trimmed = "0" + trimmed
	}

	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", s)
	}
	if len(b) > common.AddressLength {
		return nil, errors.Errorf("invalid address %q: longer than %d bytes", s, common.AddressLength)
	}

	address := common.BytesToAddress(b)
	return &address, nil
}

// HexStringsToAddresses converts a list of hex strings to addresses, returning an error on the first invalid entry
// or on a duplicate.
func HexStringsToAddresses(addressStrings []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(addressStrings))
	seen := make(map[common.Address]struct{}, len(addressStrings))
	for _, s := range addressStrings {
		address, err := HexStringToAddress(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[*address]; ok {
			return nil, errors.Errorf("address %v is listed more than once", address.Hex())
		}
		seen[*address] = struct{}{}
		addresses = append(addresses, *address)
	}
	return addresses, nil
}
