package jsontext

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavesplatform/goserde/pkg/value"
)

func TestEncodeShape(t *testing.T) {
	for _, test := range []struct {
		v   value.Value
		exp string
	}{
		{value.NewSequence(value.Int(1), value.Int(2)), `[1,2]`},
		{value.NewMappingBuilder().MustAdd("a", value.Bool(true)).Build(), `{"a":true}`},
		{value.Null{}, `null`},
		{value.Bool(false), `false`},
		{value.Int(-42), `-42`},
		{value.NewSequence(), `[]`},
		{value.NewMappingBuilder().Build(), `{}`},
		{
			value.NewMappingBuilder().
				MustAdd("z", value.NewSequence(value.Null{})).
				MustAdd("a", value.NewMappingBuilder().MustAdd("n", value.Float(0.5)).Build()).
				Build(),
			`{"z":[null],"a":{"n":0.5}}`,
		},
	} {
		s, err := EncodeString(test.v)
		require.NoError(t, err)
		assert.Equal(t, test.exp, s)
	}
}

func TestEncodeFloat(t *testing.T) {
	for _, test := range []struct {
		f   float64
		exp string
	}{
		{1, "1.0"},
		{-0.0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.1, "0.1"},
		{1e20, "100000000000000000000.0"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456.789e-12, "1.23456789e-7"},
		{0.000001, "0.000001"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
	} {
		s, err := EncodeString(value.Float(test.f))
		require.NoError(t, err)
		assert.Equal(t, test.exp, s)
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Encode(value.NewSequence(value.Float(f)))
		require.ErrorIs(t, err, ErrUnsupportedFloat)
		assert.Contains(t, err.Error(), "$[0]")
	}
}

func TestEncodeStringEscapes(t *testing.T) {
	s, err := EncodeString(value.String("q\"b\\n\nr\rt\tb\bf\f\x01<&> ü 世"))
	require.NoError(t, err)
	assert.Equal(t, `"q\"b\\n\nr\rt\tb\bf\f\u0001<&> ü 世"`, s)

	var back string
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	assert.Equal(t, "q\"b\\n\nr\rt\tb\bf\f\x01<&> ü 世", back)

	_, err = Encode(value.String("\xff"))
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestEncodeIndent(t *testing.T) {
	v := value.NewMappingBuilder().
		MustAdd("a", value.NewSequence(value.Int(1), value.Int(2))).
		MustAdd("b", value.NewSequence()).
		MustAdd("c", value.NewMappingBuilder().Build()).
		Build()
	b, err := EncodeIndent(v, "  ")
	require.NoError(t, err)
	exp := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": [],\n  \"c\": {}\n}"
	assert.Equal(t, exp, string(b))

	compact, err := EncodeIndent(v, "")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":[],"c":{}}`, string(compact))
}

func TestEncodeIsValidJSON(t *testing.T) {
	v := value.NewMappingBuilder().
		MustAdd("k ", value.NewSequence(value.Float(1e-300), value.String("\x00"), value.Int(math.MinInt64))).
		Build()
	b, err := Encode(v)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}

func TestDecode(t *testing.T) {
	v, err := DecodeString(` {"b": [1, -2.5, 3e2, 9223372036854775808, true, null, "xé\n"], "a": {}} `)
	require.NoError(t, err)
	exp := value.NewMappingBuilder().
		MustAdd("b", value.NewSequence(
			value.Int(1),
			value.Float(-2.5),
			value.Float(300),
			value.Float(9223372036854775808),
			value.Bool(true),
			value.Null{},
			value.String("xé\n"),
		)).
		MustAdd("a", value.NewMappingBuilder().Build()).
		Build()
	assert.True(t, value.Equal(exp, v), "got %s", v)
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		in  string
		err error
	}{
		{``, ErrInvalidJSON},
		{`{"a":1,}`, ErrInvalidJSON},
		{`[1 2]`, ErrInvalidJSON},
		{`{"a":1,"a":2}`, ErrDuplicateKey},
		{`[{"x":{"k":null,"k":null}}]`, ErrDuplicateKey},
	} {
		_, err := Decode([]byte(test.in))
		assert.ErrorIs(t, err, test.err, "input %q", test.in)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := value.NewMappingBuilder().
		MustAdd("ints", value.NewSequence(value.Int(0), value.Int(math.MaxInt64), value.Int(math.MinInt64))).
		MustAdd("floats", value.NewSequence(value.Float(1), value.Float(-0.001), value.Float(6.02214076e23))).
		MustAdd("nested", value.NewSequence(value.NewSequence(value.NewMappingBuilder().MustAdd("", value.Null{}).Build()))).
		MustAdd("text", value.String("line\nbreak \"quoted\" \x1f")).
		Build()
	b, err := Encode(v)
	require.NoError(t, err)
	d, err := Decode(b)
	require.NoError(t, err)
	assert.True(t, value.Equal(v, d), "expected %s, got %s", v, d)
}
