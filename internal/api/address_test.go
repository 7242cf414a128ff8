package api

import (
	"testing"

	"github.com/Zilliqa/gozilliqa-sdk/bech32"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress_Base16(t *testing.T) {
	addr, err := normalizeAddress("0x00000000000000000000000000000000000000AA")
	assert.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", addr)
}

func TestNormalizeAddress_Bech32(t *testing.T) {
	base16 := "0x00000000000000000000000000000000000000aa"

	encoded, err := bech32.ToBech32Address(base16)
	assert.NoError(t, err)

	addr, err := normalizeAddress(encoded)
	assert.NoError(t, err)
	assert.Equal(t, base16, addr)
}

func TestNormalizeAddress_Invalid(t *testing.T) {
	for _, addr := range []string{"", "0xabc", "zil1notanaddress", "bob"} {
		_, err := normalizeAddress(addr)
		assert.ErrorIs(t, err, errInvalidAddress)
	}
}
