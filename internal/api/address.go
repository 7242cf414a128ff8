package api

import (
	"errors"
	"strings"

	"github.com/Zilliqa/gozilliqa-sdk/bech32"
)

var errInvalidAddress = errors.New("invalid address")

// normalizeAddress accepts a bech32 or base16 address and returns the
// lowercase base16 form the ledger keys on.
func normalizeAddress(addr string) (string, error) {
	if strings.HasPrefix(addr, "zil1") {
		b16, err := bech32.FromBech32Addr(addr)
		if err != nil {
			return "", errInvalidAddress
		}
		return "0x" + strings.ToLower(b16), nil
	}

	if strings.HasPrefix(addr, "0x") && len(addr) == 42 {
		return strings.ToLower(addr), nil
	}

	return "", errInvalidAddress
}
