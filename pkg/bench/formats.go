package bench

import (
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/cborx"
	"github.com/wavesplatform/goserde/pkg/jsontext"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
)

// Fingerprint returns the 64-bit xxHash of an encoded buffer.
func Fingerprint(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// FormatSizes holds the encoded size of one value in every supported format.
type FormatSizes struct {
	Binary int
	JSON   int
	CBOR   int
}

// CompareFormats encodes v with each codec and reports the sizes.
func CompareFormats(v value.Value) (FormatSizes, error) {
	b, err := serialization.Encode(v)
	if err != nil {
		return FormatSizes{}, errors.Wrap(err, "binary")
	}
	j, err := jsontext.Encode(v)
	if err != nil {
		return FormatSizes{}, errors.Wrap(err, "json")
	}
	c, err := cborx.Encode(v)
	if err != nil {
		return FormatSizes{}, errors.Wrap(err, "cbor")
	}
	return FormatSizes{Binary: len(b), JSON: len(j), CBOR: len(c)}, nil
}
