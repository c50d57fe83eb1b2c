package serializer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

// Serializer writes little-endian primitives to the underlying writer and counts written bytes.
type Serializer struct {
	w io.Writer
	n int
}

func New(w io.Writer) *Serializer {
	return &Serializer{
		w: w,
		n: 0,
	}
}

// ErrTooLong is returned when a length doesn't fit into the four bytes of its prefix.
var ErrTooLong = errors.New("length doesn't fit into uint32")

func uint32Len(n int) (uint32, error) {
	l, err := safecast.ToUint32(n)
	if err != nil {
		return 0, errors.Wrapf(ErrTooLong, "expected max %d, found %d", uint32(math.MaxUint32), n)
	}
	return l, nil
}

// Length writes n as a four-byte length or count prefix.
func (a *Serializer) Length(n int) error {
	l, err := uint32Len(n)
	if err != nil {
		return err
	}
	return a.Uint32(l)
}

// StringWithUInt32Len writes four bytes of the string's `s` length followed with the bytes of string itself.
func (a *Serializer) StringWithUInt32Len(s string) error {
	if err := a.Length(len(s)); err != nil {
		return err
	}
	return a.String(s)
}

func (a *Serializer) Uint32(v uint32) error {
	buf := [4]byte{}
	binary.LittleEndian.PutUint32(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Uint64(v uint64) error {
	buf := [8]byte{}
	binary.LittleEndian.PutUint64(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Int64(v int64) error {
	return a.Uint64(uint64(v))
}

func (a *Serializer) Float64(v float64) error {
	return a.Uint64(math.Float64bits(v))
}

func (a *Serializer) String(s string) error {
	n, err := io.WriteString(a.w, s)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}

func (a *Serializer) Byte(b byte) error {
	return a.Bytes([]byte{b})
}

func (a *Serializer) N() int64 {
	return int64(a.n)
}

func (a *Serializer) Bool(b bool) error {
	var v byte = 0
	if b {
		v = 1
	}
	return a.Byte(v)
}

func (a *Serializer) Bytes(b []byte) error {
	n, err := a.w.Write(b)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}
