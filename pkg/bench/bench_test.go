package bench

import (
	"math"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavesplatform/goserde/pkg/dataset"
	"github.com/wavesplatform/goserde/pkg/jsontext"
	"github.com/wavesplatform/goserde/pkg/roundtrip"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
)

func newTestSurface(t *testing.T) (*Surface, *Recorder) {
	rec, err := NewRecorder(prometheus.NewPedanticRegistry())
	require.NoError(t, err)
	return NewSurface(rec, slogt.New(t)), rec
}

func TestSyntheticRecord(t *testing.T) {
	text, err := jsontext.EncodeString(syntheticRecord())
	require.NoError(t, err)
	assert.Equal(t, `{"value":[1,2,3],"another_field":null,"a_string":"test","enumerate":[{"One":1},`+
		`{"Two":"three"},{"Three":{"7":"test"}},{"Four":{"a":1,"b":true,"s":"ok?"}}]}`, text)

	v, err := Synthetic(3)
	require.NoError(t, err)
	seq := v.(value.Sequence)
	require.Equal(t, 3, seq.Len())
	for _, item := range seq.All() {
		assert.True(t, value.Equal(syntheticRecord(), item))
	}
	_, err = Synthetic(-1)
	assert.Error(t, err)
}

func TestSerScale(t *testing.T) {
	s, _ := newTestSurface(t)
	prev := -1
	for _, n := range []int{0, 1, 2, 10, 100, 1000} {
		b, err := s.Ser(n)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(b), prev, "n=%d", n)
		prev = len(b)
		require.NoError(t, s.De(b))
		v, err := serialization.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, n, v.(value.Sequence).Len())
	}
	_, err := s.Ser(-5)
	assert.Error(t, err)
}

func TestDatasets(t *testing.T) {
	s, rec := newTestSurface(t)

	cb, err := s.CanadaSer()
	require.NoError(t, err)
	require.NoError(t, s.CanadaDe(cb))

	tb, err := s.TwitterSer()
	require.NoError(t, err)
	require.NoError(t, s.TwitterDe(tb))

	err = s.TwitterDe(cb)
	var me *roundtrip.MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "$.statuses", me.Path)

	err = s.CanadaDe(cb[:len(cb)-1])
	assert.Equal(t, serialization.Truncated, serialization.GetDecodeErrorKind(err))

	text, err := s.CanadaSerJSON()
	require.NoError(t, err)
	v, err := jsontext.DecodeString(text)
	require.NoError(t, err)
	assert.True(t, value.Equal(dataset.Canada(), v))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opSer, dataset.CanadaName, resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opDe, dataset.CanadaName, resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opDe, dataset.CanadaName, resultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opDe, dataset.TwitterName, resultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opSerJSON, dataset.CanadaName, resultOK)))
	// Only encoding operations observe sizes: ser of both datasets and JSON of canada.
	assert.Equal(t, 3, testutil.CollectAndCount(rec.encoded))
}

func TestDeterministicBuffers(t *testing.T) {
	a, err := TwitterSer()
	require.NoError(t, err)
	b, err := TwitterSer()
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	c, err := CanadaSer()
	require.NoError(t, err)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	require.NoError(t, CanadaDe(c))
	require.NoError(t, TwitterDe(a))
}

func TestRoundtrip(t *testing.T) {
	s, rec := newTestSurface(t)
	v, err := Synthetic(5)
	require.NoError(t, err)
	r, err := s.Roundtrip(v)
	require.NoError(t, err)
	assert.True(t, value.Equal(v, r))

	_, err = Roundtrip(value.String("\xc3\x28"))
	assert.Equal(t, serialization.InvalidUTF8, serialization.GetEncodeErrorKind(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(opRoundtrip, anyName, resultOK)))
}

func TestDe(t *testing.T) {
	assert.NoError(t, De([]byte{0}))
	assert.Equal(t, serialization.Truncated, serialization.GetDecodeErrorKind(De(nil)))
	assert.Equal(t, serialization.UnknownTag, serialization.GetDecodeErrorKind(De([]byte{0x2a})))
}

func TestZeroSurface(t *testing.T) {
	var s Surface
	b, err := s.Ser(2)
	require.NoError(t, err)
	assert.NoError(t, s.De(b))
}

func TestCompareFormats(t *testing.T) {
	sizes, err := CompareFormats(dataset.Twitter())
	require.NoError(t, err)
	assert.Positive(t, sizes.Binary)
	assert.Positive(t, sizes.JSON)
	assert.Positive(t, sizes.CBOR)

	_, err = CompareFormats(value.NewSequence(value.Float(math.NaN())))
	assert.ErrorIs(t, err, jsontext.ErrUnsupportedFloat)
	assert.Contains(t, err.Error(), "json")
}
