// Package cborx maps values onto CBOR (RFC 8949) preserving the order of mapping pairs.
package cborx

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/wavesplatform/goserde/pkg/value"
)

const (
	majorArray = 4
	majorMap   = 5

	maxDepth = 1024
)

var (
	ErrUnsupported   = errors.New("unsupported CBOR item")
	ErrDuplicateKey  = errors.New("duplicate map key")
	ErrDepthExceeded = errors.New("too many nested containers")
	ErrInvalidUTF8   = errors.New("string is not valid UTF-8")
)

var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.NaNConvert = cbor.NaNConvertNone
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode returns the CBOR encoding of v. Floats use the shortest lossless width, NaNs are
// written as 8-byte floats so their payload and sign survive.
func Encode(v value.Value) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	b, err := appendValue(buf.B[:0], v, 0)
	if err != nil {
		return nil, err
	}
	buf.B = b
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func appendValue(b []byte, v value.Value, depth int) ([]byte, error) {
	switch tv := v.(type) {
	case nil, value.Null:
		return appendScalar(b, nil)
	case value.Bool:
		return appendScalar(b, bool(tv))
	case value.Int:
		return appendScalar(b, int64(tv))
	case value.Float:
		return appendScalar(b, float64(tv))
	case value.String:
		return appendText(b, string(tv))
	case value.Sequence:
		if depth >= maxDepth {
			return nil, ErrDepthExceeded
		}
		b = appendHead(b, majorArray, uint64(tv.Len()))
		var err error
		for _, item := range tv.All() {
			if b, err = appendValue(b, item, depth+1); err != nil {
				return nil, err
			}
		}
		return b, nil
	case value.Mapping:
		if depth >= maxDepth {
			return nil, ErrDepthExceeded
		}
		b = appendHead(b, majorMap, uint64(tv.Len()))
		var err error
		for k, item := range tv.All() {
			if b, err = appendText(b, k); err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			if b, err = appendValue(b, item, depth+1); err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
		}
		return b, nil
	default:
		return nil, errors.Errorf("unexpected value type '%T'", v)
	}
}

func appendText(b []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	return appendScalar(b, s)
}

func appendScalar(b []byte, v any) ([]byte, error) {
	s, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal CBOR scalar")
	}
	return append(b, s...), nil
}

func appendHead(b []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(b, m|byte(n))
	case n <= math.MaxUint8:
		return append(b, m|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(b, m|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(b, m|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(b, m|27), n)
	}
}

// Decode parses a single CBOR data item. Definite-length arrays and maps with text keys,
// integers that fit into int64, floats, text strings, booleans and null are supported.
func Decode(b []byte) (value.Value, error) {
	v, rest, err := decodeItem(b, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.Errorf("%d unexpected bytes after CBOR item", len(rest))
	}
	return v, nil
}

func decodeItem(b []byte, depth int) (value.Value, []byte, error) {
	if len(b) == 0 {
		return nil, nil, errors.New("unexpected end of CBOR data")
	}
	switch major := b[0] >> 5; major {
	case majorArray, majorMap:
		if depth >= maxDepth {
			return nil, nil, ErrDepthExceeded
		}
		n, rest, err := readHead(b)
		if err != nil {
			return nil, nil, err
		}
		if major == majorArray {
			return decodeArray(rest, n, depth)
		}
		return decodeMap(rest, n, depth)
	default:
		return decodeScalar(b)
	}
}

func decodeArray(b []byte, n uint64, depth int) (value.Value, []byte, error) {
	if n > uint64(len(b)) {
		return nil, nil, errors.Errorf("array of %d items exceeds remaining %d bytes", n, len(b))
	}
	items := make([]value.Value, n)
	for i := range items {
		var err error
		if items[i], b, err = decodeItem(b, depth+1); err != nil {
			return nil, nil, errors.Wrapf(err, "index %d", i)
		}
	}
	return value.NewSequence(items...), b, nil
}

func decodeMap(b []byte, n uint64, depth int) (value.Value, []byte, error) {
	if n > uint64(len(b)) {
		return nil, nil, errors.Errorf("map of %d pairs exceeds remaining %d bytes", n, len(b))
	}
	mb := value.NewMappingBuilder()
	for i := uint64(0); i < n; i++ {
		var key string
		rest, err := cbor.UnmarshalFirst(b, &key)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to decode map key")
		}
		item, rest, err := decodeItem(rest, depth+1)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "key %q", key)
		}
		if err := mb.Add(key, item); err != nil {
			return nil, nil, errors.Wrapf(ErrDuplicateKey, "key %q", key)
		}
		b = rest
	}
	return mb.Build(), b, nil
}

func decodeScalar(b []byte) (value.Value, []byte, error) {
	var x any
	rest, err := cbor.UnmarshalFirst(b, &x)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode CBOR item")
	}
	switch tx := x.(type) {
	case nil:
		return value.Null{}, rest, nil
	case bool:
		return value.Bool(tx), rest, nil
	case int64:
		return value.Int(tx), rest, nil
	case uint64:
		if tx > math.MaxInt64 {
			return nil, nil, errors.Wrapf(ErrUnsupported, "integer %d overflows int64", tx)
		}
		return value.Int(int64(tx)), rest, nil
	case float64:
		return value.Float(tx), rest, nil
	case string:
		return value.String(tx), rest, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnsupported, "type %T", x)
	}
}

func readHead(b []byte) (uint64, []byte, error) {
	info := b[0] & 0x1f
	b = b[1:]
	var size int
	switch {
	case info < 24:
		return uint64(info), b, nil
	case info == 24:
		size = 1
	case info == 25:
		size = 2
	case info == 26:
		size = 4
	case info == 27:
		size = 8
	default:
		return 0, nil, errors.Wrapf(ErrUnsupported, "additional information %d", info)
	}
	if len(b) < size {
		return 0, nil, errors.New("unexpected end of CBOR data")
	}
	var n uint64
	for _, c := range b[:size] {
		n = n<<8 | uint64(c)
	}
	return n, b[size:], nil
}
