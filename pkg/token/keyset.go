package token

import (
	"encoding/hex"
	"strconv"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
)

// ActiveKeyset picks the keyset a mint declares active for unit, or
// falling back to the first keyset listed for that unit if none is
// marked active.
func ActiveKeyset(keysets []mintapi.Keyset, unit string) (*mintapi.Keyset, error) {
	var fallback *mintapi.Keyset
	for i := range keysets {
		if keysets[i].Unit != unit {
			continue
		}
		if keysets[i].Active {
			return &keysets[i], nil
		}
		if fallback == nil {
			fallback = &keysets[i]
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoActiveKeyset
}

// KeyForAmount looks up and decodes the keyset's public key for a given
// power-of-two denomination.
func KeyForAmount(ks *mintapi.Keyset, amount uint64) (*crypto.Point, error) {
	hexKey, ok := ks.Keys[strconv.FormatUint(amount, 10)]
	if !ok {
		return nil, ErrNoKeyForDenomination
	}
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKeyEncoding
	}
	point, err := crypto.PointFromCompressedSlice(b)
	if err != nil {
		return nil, ErrInvalidKeyEncoding
	}
	return point, nil
}
