package serializer

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializer_Byte(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Byte('b'))
	require.Equal(t, []byte{'b'}, buf.Bytes())
	require.EqualValues(t, 1, s.N())
}

func TestSerializer_Bool(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Bool(true))
	require.NoError(t, s.Bool(false))
	require.Equal(t, []byte{1, 0}, buf.Bytes())
	require.EqualValues(t, 2, s.N())
}

func TestSerializer_Uint32(t *testing.T) {
	var billion uint32 = 1000000000
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint32(billion))
	require.Equal(t, billion, binary.LittleEndian.Uint32(buf.Bytes()))
	require.Equal(t, []byte{0x00, 0xca, 0x9a, 0x3b}, buf.Bytes())
}

func TestSerializer_Uint64(t *testing.T) {
	var billion uint64 = 1000000000
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Uint64(billion))
	require.Equal(t, billion, binary.LittleEndian.Uint64(buf.Bytes()))
	require.EqualValues(t, 8, s.N())
}

func TestSerializer_Int64(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Int64(-1))
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, buf.Bytes())
}

func TestSerializer_Float64(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Float64(1.5))
	require.Equal(t, math.Float64bits(1.5), binary.LittleEndian.Uint64(buf.Bytes()))
}

func TestSerializer_Length(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.Length(258))
	require.Equal(t, []byte{2, 1, 0, 0}, buf.Bytes())
	require.EqualValues(t, 4, s.N())
}

func TestUint32LenOverflow(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("length overflow is not representable on 32-bit platforms")
	}
	_, err := uint32Len(math.MaxInt)
	require.ErrorIs(t, err, ErrTooLong)
	l, err := uint32Len(7)
	require.NoError(t, err)
	require.Equal(t, uint32(7), l)
	_, err = uint32Len(-1)
	require.ErrorIs(t, err, ErrTooLong)
}

func BenchmarkSerializer_Bytes(b *testing.B) {
	b.ReportAllocs()
	b.StopTimer()
	b.ResetTimer()

	buf := bytes.NewBuffer(make([]byte, 1024))
	s := New(buf)
	for i := 0; i < b.N; i++ {
		b.StartTimer()
		_ = s.Bytes([]byte{1, 2})
		b.StopTimer()
	}
}

func TestSerializer_StringWithUInt32Len(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf)
	require.NoError(t, s.StringWithUInt32Len("abc"))
	require.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c'}, buf.Bytes())
	require.EqualValues(t, 7, s.N())
}
