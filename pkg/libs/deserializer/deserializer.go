package deserializer

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrNotEnoughBytes is the cause of every error returned when the source is exhausted.
var ErrNotEnoughBytes = errors.New("not enough bytes")

// Deserializer reads little-endian primitives from a byte slice, tracking the read offset.
type Deserializer struct {
	b      []byte
	offset int
}

func NewDeserializer(b []byte) *Deserializer {
	return &Deserializer{
		b: b,
	}
}

func notEnough(what string, expected, found int) error {
	return errors.Wrapf(ErrNotEnoughBytes, "failed to deserialize %s, expected at least %d, found %d",
		what, expected, found)
}

func (a *Deserializer) advance(n int) []byte {
	out := a.b[:n]
	a.b = a.b[n:]
	a.offset += n
	return out
}

func (a *Deserializer) Byte() (byte, error) {
	if len(a.b) > 0 {
		return a.advance(1)[0], nil
	}
	return 0, notEnough("byte", 1, 0)
}

func (a *Deserializer) Uint32() (uint32, error) {
	const l = 4
	if len(a.b) < l {
		return 0, notEnough("uint32", l, len(a.b))
	}
	return binary.LittleEndian.Uint32(a.advance(l)), nil
}

func (a *Deserializer) Uint64() (uint64, error) {
	const l = 8
	if len(a.b) < l {
		return 0, notEnough("uint64", l, len(a.b))
	}
	return binary.LittleEndian.Uint64(a.advance(l)), nil
}

func (a *Deserializer) Int64() (int64, error) {
	v, err := a.Uint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func (a *Deserializer) Float64() (float64, error) {
	v, err := a.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Len returns the length of the rest bytes.
func (a *Deserializer) Len() int {
	return len(a.b)
}

// Offset returns the number of bytes consumed so far.
func (a *Deserializer) Offset() int {
	return a.offset
}

// Bytes returns the next length bytes. The result aliases the source slice.
func (a *Deserializer) Bytes(length uint) ([]byte, error) {
	if length > uint(len(a.b)) {
		return nil, notEnough("bytes", int(min(length, math.MaxInt32)), len(a.b))
	}
	return a.advance(int(length)), nil
}

func (a *Deserializer) ByteStringWithUint32Len() ([]byte, error) {
	l, err := a.Uint32()
	if err != nil {
		return nil, err
	}
	return a.Bytes(uint(l))
}
