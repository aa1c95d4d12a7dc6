package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// HexEncode encodes a string as UTF-16 code units, each written as exactly four lowercase hex digits. This is the
// payload format used when passing text through the token's data-carrying transfer calls.
func HexEncode(s string) string {
	var builder strings.Builder
	for _, unit := range utf16.Encode([]rune(s)) {
		builder.WriteString(fmt.Sprintf("%04x", unit))
	}
	return builder.String()
}

// HexDecode reverses HexEncode. An optional "0x" prefix is ignored.
func HexDecode(s string) (string, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%4 != 0 {
		return "", errors.Errorf("hex payload length %d is not a multiple of four", len(s))
	}

	units := make([]uint16, 0, len(s)/4)
	for i := 0; i < len(s); i += 4 {
		unit, err := strconv.ParseUint(s[i:i+4], 16, 16)
		if err != nil {
			return "", errors.Wrapf(err, "invalid code unit at offset %d", i)
		}
		units = append(units, uint16(unit))
	}
	return string(utf16.Decode(units)), nil
}
