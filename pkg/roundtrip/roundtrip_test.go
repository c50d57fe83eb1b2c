package roundtrip

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavesplatform/goserde/pkg/dataset"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sample() value.Value {
	return value.NewMappingBuilder().
		MustAdd("statuses", value.NewSequence(
			value.NewMappingBuilder().MustAdd("id", value.Int(1)).Build(),
			value.NewMappingBuilder().MustAdd("id", value.Int(2)).MustAdd("nan", value.Float(math.NaN())).Build(),
		)).
		MustAdd("empty", value.NewSequence()).
		MustAdd("text", value.String("héllo")).
		Build()
}

func TestRoundtrip(t *testing.T) {
	for _, v := range []value.Value{
		value.Null{},
		value.Bool(true),
		value.Int(math.MinInt64),
		value.Float(math.Inf(-1)),
		value.String(""),
		sample(),
		dataset.Twitter(),
	} {
		r, err := Roundtrip(v)
		require.NoError(t, err)
		assert.True(t, value.Equal(v, r), "value %s", v)
		assert.NoError(t, Verify(v))
	}
}

func TestRoundtripNilRoot(t *testing.T) {
	r, err := Roundtrip(nil)
	require.NoError(t, err)
	assert.Equal(t, value.Null{}, r)
	assert.NoError(t, Verify(nil))
	assert.NoError(t, Compare(nil, r))
}

func TestRoundtripErrors(t *testing.T) {
	_, err := Roundtrip(value.String("\xff"))
	assert.Equal(t, serialization.InvalidUTF8, serialization.GetEncodeErrorKind(err))

	deep := value.Value(value.Null{})
	for i := 0; i < 10; i++ {
		deep = value.NewSequence(deep)
	}
	_, err = Roundtrip(deep, serialization.WithMaxDepth(5))
	assert.Equal(t, serialization.EncodeDepthExceeded, serialization.GetEncodeErrorKind(err))
	err = Verify(deep, serialization.WithMaxDepth(5))
	assert.Equal(t, serialization.EncodeDepthExceeded, serialization.GetEncodeErrorKind(err))
}

func TestDiff(t *testing.T) {
	seq := func(items ...value.Value) value.Value { return value.NewSequence(items...) }
	m := func(kv ...any) value.Value {
		b := value.NewMappingBuilder()
		for i := 0; i < len(kv); i += 2 {
			b.MustAdd(kv[i].(string), kv[i+1].(value.Value))
		}
		return b.Build()
	}
	for _, test := range []struct {
		a, b value.Value
		path string
	}{
		{value.Int(1), value.Int(1), ""},
		{nil, value.Null{}, ""},
		{value.NewSequence(value.Int(1)), nil, "$"},
		{value.Int(1), value.Float(1), "$"},
		{sample(), sample(), ""},
		{seq(value.Int(1), value.Int(2)), seq(value.Int(1), value.Int(3)), "$[1]"},
		{seq(value.Int(1)), seq(value.Int(1), value.Int(2)), "$[1]"},
		{m("a", seq(m("b", value.Null{}))), m("a", seq(m("b", value.Bool(false)))), "$.a[0].b"},
		{m("a", value.Int(1), "b", value.Int(2)), m("b", value.Int(2), "a", value.Int(1)), "$.a"},
		{m("a", value.Int(1)), m("a", value.Int(1), "7", value.Int(2)), `$["7"]`},
		{value.Float(math.Copysign(0, -1)), value.Float(0), "$"},
	} {
		p, ok := Diff(test.a, test.b)
		if test.path == "" {
			assert.True(t, ok)
			assert.Nil(t, p)
			continue
		}
		require.False(t, ok)
		assert.Equal(t, test.path, p.String())
	}
}

func TestMismatchError(t *testing.T) {
	a := value.NewMappingBuilder().MustAdd("id", value.Int(1)).Build()
	b := value.NewMappingBuilder().MustAdd("id", value.Int(2)).Build()
	p, ok := Diff(a, b)
	require.False(t, ok)
	err := &MismatchError{Path: p.String(), Expected: nodeAt(a, p), Actual: nodeAt(b, p)}
	assert.EqualError(t, err, "round-trip mismatch at $.id: expected 1, got 2")

	err = &MismatchError{Path: "$[3]", Expected: value.NewSequence(), Actual: nil}
	assert.EqualError(t, err, "round-trip mismatch at $[3]: expected Sequence, got nothing")
}

func TestVerifyAll(t *testing.T) {
	values := make([]value.Value, 50)
	for i := range values {
		values[i] = value.NewSequence(value.Int(int64(i)), sample())
	}
	st, err := VerifyAll(context.Background(), values, 4)
	require.NoError(t, err)
	assert.EqualValues(t, len(values), st.Verified)
	var total int64
	for _, v := range values {
		b, err := serialization.Encode(v)
		require.NoError(t, err)
		total += int64(len(b))
	}
	assert.Equal(t, total, st.Bytes)
}

func TestVerifyAllFailure(t *testing.T) {
	values := []value.Value{value.Int(1), value.Int(2), value.String("\xfe"), value.Int(3)}
	st, err := VerifyAll(context.Background(), values, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value 2")
	assert.Equal(t, serialization.InvalidUTF8, serialization.GetEncodeErrorKind(err))
	assert.Less(t, st.Verified, int64(len(values)))
}

func TestVerifyAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := VerifyAll(ctx, []value.Value{value.Int(1)}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Verified)
}

func TestVerifyAllInvalidWorkers(t *testing.T) {
	_, err := VerifyAll(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.NoError(t, Compare(sample(), sample()))
	a := value.NewSequence(value.Int(1), value.String("x"))
	b := value.NewSequence(value.Int(1))
	err := Compare(a, b)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "$[1]", me.Path)
	assert.Equal(t, value.String("x"), me.Expected)
	assert.Nil(t, me.Actual)
}
