// Package bench is the entry point used by benchmark drivers: it encodes, decodes and
// round-trips the synthetic document and the fixed datasets, recording metrics for each call.
package bench

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wavesplatform/goserde/pkg/dataset"
	"github.com/wavesplatform/goserde/pkg/jsontext"
	"github.com/wavesplatform/goserde/pkg/logging"
	"github.com/wavesplatform/goserde/pkg/roundtrip"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
)

const (
	opSer       = "ser"
	opDe        = "de"
	opRoundtrip = "roundtrip"
	opSerJSON   = "ser_json"

	syntheticName = "synthetic"
	anyName       = "any"
)

// Surface runs codec operations and reports them to a Recorder and a logger.
// The zero value is usable: it records nothing and logs to slog.Default.
type Surface struct {
	rec    *Recorder
	logger *slog.Logger
}

func NewSurface(rec *Recorder, logger *slog.Logger) *Surface {
	return &Surface{rec: rec, logger: logger}
}

// Recorder returns the metrics recorder of s, nil if it records nothing.
func (s *Surface) Recorder() *Recorder { return s.rec }

func (s *Surface) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default().With(logging.NamespaceKey, "bench")
	}
	return s.logger
}

func (s *Surface) done(op, name string, started time.Time, size int, err error) {
	s.rec.observe(op, name, started, size, err)
	if err != nil {
		s.log().Warn("Operation failed", "op", op, "dataset", name, logging.Error(err))
		return
	}
	s.log().Debug("Operation completed", "op", op, "dataset", name, "size", size,
		"elapsed", time.Since(started))
}

func (s *Surface) encode(op, name string, v value.Value) ([]byte, error) {
	started := time.Now()
	b, err := serialization.Encode(v)
	s.done(op, name, started, len(b), err)
	return b, err
}

// decode decodes b and, when want is not nil, checks the result against it.
func (s *Surface) decode(name string, b []byte, want value.Value) error {
	started := time.Now()
	v, err := serialization.Decode(b)
	if err == nil && want != nil {
		err = roundtrip.Compare(want, v)
	}
	s.done(opDe, name, started, -1, err)
	return err
}

// Ser encodes the synthetic document of n records.
func (s *Surface) Ser(n int) ([]byte, error) {
	v, err := Synthetic(n)
	if err != nil {
		return nil, err
	}
	return s.encode(opSer, syntheticName, v)
}

// De decodes b and discards the result.
func (s *Surface) De(b []byte) error {
	return s.decode(anyName, b, nil)
}

// Roundtrip encodes and decodes v.
func (s *Surface) Roundtrip(v value.Value) (value.Value, error) {
	started := time.Now()
	r, err := roundtrip.Roundtrip(v)
	s.done(opRoundtrip, anyName, started, -1, err)
	return r, err
}

func (s *Surface) CanadaSer() ([]byte, error) {
	return s.encode(opSer, dataset.CanadaName, dataset.Canada())
}

// CanadaDe decodes b and checks that it holds the canada dataset.
func (s *Surface) CanadaDe(b []byte) error {
	return s.decode(dataset.CanadaName, b, dataset.Canada())
}

func (s *Surface) CanadaSerJSON() (string, error) {
	started := time.Now()
	text, err := jsontext.EncodeString(dataset.Canada())
	s.done(opSerJSON, dataset.CanadaName, started, len(text), err)
	return text, err
}

func (s *Surface) TwitterSer() ([]byte, error) {
	return s.encode(opSer, dataset.TwitterName, dataset.Twitter())
}

// TwitterDe decodes b and checks that it holds the twitter dataset.
func (s *Surface) TwitterDe(b []byte) error {
	return s.decode(dataset.TwitterName, b, dataset.Twitter())
}

var std = func() *Surface {
	rec, err := NewRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		panic(errors.Wrap(err, "bench"))
	}
	return NewSurface(rec, nil)
}()

// Default returns the Surface used by the package-level functions.
func Default() *Surface { return std }

func Ser(n int) ([]byte, error) { return std.Ser(n) }

func De(b []byte) error { return std.De(b) }

func Roundtrip(v value.Value) (value.Value, error) { return std.Roundtrip(v) }

func CanadaSer() ([]byte, error) { return std.CanadaSer() }

func CanadaDe(b []byte) error { return std.CanadaDe(b) }

func CanadaSerJSON() (string, error) { return std.CanadaSerJSON() }

func TwitterSer() ([]byte, error) { return std.TwitterSer() }

func TwitterDe(b []byte) error { return std.TwitterDe(b) }
