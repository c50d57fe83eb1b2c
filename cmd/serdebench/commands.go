package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/wavesplatform/goserde/pkg/bench"
	"github.com/wavesplatform/goserde/pkg/cborx"
	"github.com/wavesplatform/goserde/pkg/dataset"
	"github.com/wavesplatform/goserde/pkg/jsontext"
	"github.com/wavesplatform/goserde/pkg/roundtrip"
	"github.com/wavesplatform/goserde/pkg/serialization"
	"github.com/wavesplatform/goserde/pkg/value"
)

type runner struct {
	cfg     *config
	fs      afero.Fs
	stdout  io.Writer
	surface *bench.Surface
	log     *slog.Logger
}

func (r *runner) run(ctx context.Context) error {
	switch r.cfg.command {
	case cmdSer:
		return r.ser()
	case cmdDe:
		return r.de()
	case cmdRoundtrip:
		return r.roundtrip(ctx)
	case cmdEncode:
		return r.encode()
	case cmdCompare:
		return r.compare()
	default:
		return errors.Errorf("unknown command %q", r.cfg.command)
	}
}

func (r *runner) document(name string) (value.Value, error) {
	if name == syntheticDataset {
		return bench.Synthetic(r.cfg.records)
	}
	return dataset.Build(name)
}

func (r *runner) repeat(op string, f func() error) error {
	started := time.Now()
	for i := 0; i < r.cfg.iterations; i++ {
		if err := f(); err != nil {
			return errors.Wrapf(err, "%s failed on iteration %d", op, i+1)
		}
	}
	elapsed := time.Since(started)
	r.log.Info("Completed", "op", op, "dataset", r.cfg.dataset, "iterations", r.cfg.iterations,
		"elapsed", elapsed, "average", elapsed/time.Duration(r.cfg.iterations))
	return nil
}

func (r *runner) ser() error {
	var (
		b   []byte
		err error
	)
	ser := func() error {
		switch r.cfg.dataset {
		case dataset.CanadaName:
			b, err = r.surface.CanadaSer()
		case dataset.TwitterName:
			b, err = r.surface.TwitterSer()
		default:
			b, err = r.surface.Ser(r.cfg.records)
		}
		return err
	}
	if err := r.repeat(cmdSer, ser); err != nil {
		return err
	}
	r.log.Info("Encoded", "size", len(b), "fingerprint", fmt.Sprintf("%016x", bench.Fingerprint(b)))
	return r.write(b)
}

func (r *runner) de() error {
	b, err := afero.ReadFile(r.fs, r.cfg.input)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	r.log.Debug("Loaded input", "file", r.cfg.input, "size", len(b),
		"fingerprint", fmt.Sprintf("%016x", bench.Fingerprint(b)))
	return r.repeat(cmdDe, func() error {
		switch r.cfg.dataset {
		case dataset.CanadaName:
			return r.surface.CanadaDe(b)
		case dataset.TwitterName:
			return r.surface.TwitterDe(b)
		default:
			return r.surface.De(b)
		}
	})
}

func (r *runner) roundtrip(ctx context.Context) error {
	v, err := r.document(r.cfg.dataset)
	if err != nil {
		return err
	}
	values := make([]value.Value, r.cfg.iterations)
	for i := range values {
		values[i] = v
	}
	started := time.Now()
	st, err := roundtrip.VerifyAll(ctx, values, r.cfg.workers)
	if err != nil {
		return errors.Wrap(err, "verification failed")
	}
	r.log.Info("Verified", "dataset", r.cfg.dataset, "values", st.Verified, "bytes", st.Bytes,
		"workers", r.cfg.workers, "elapsed", time.Since(started))
	return nil
}

func (r *runner) encode() error {
	v, err := r.document(r.cfg.dataset)
	if err != nil {
		return err
	}
	var b []byte
	switch r.cfg.format {
	case formatJSON:
		if r.cfg.dataset == dataset.CanadaName && r.cfg.indent == "" {
			var text string
			text, err = r.surface.CanadaSerJSON()
			b = []byte(text)
		} else {
			b, err = jsontext.EncodeIndent(v, r.cfg.indent)
		}
	case formatCBOR:
		b, err = cborx.Encode(v)
	default:
		b, err = serialization.Encode(v)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s as %s", r.cfg.dataset, r.cfg.format)
	}
	r.log.Info("Encoded", "dataset", r.cfg.dataset, "format", r.cfg.format, "size", len(b))
	return r.write(b)
}

func (r *runner) compare() error {
	tw := tabwriter.NewWriter(r.stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "dataset\tbinary\tjson\tcbor\t")
	for _, name := range datasets() {
		v, err := r.document(name)
		if err != nil {
			return err
		}
		sizes, err := bench.CompareFormats(v)
		if err != nil {
			return errors.Wrapf(err, "dataset %s", name)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n", name, sizes.Binary, sizes.JSON, sizes.CBOR)
	}
	return tw.Flush()
}

func (r *runner) write(b []byte) error {
	if r.cfg.output == "" {
		_, err := r.stdout.Write(b)
		return err
	}
	if err := afero.WriteFile(r.fs, r.cfg.output, b, 0o644); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	r.log.Debug("Written", "file", r.cfg.output, "size", len(b))
	return nil
}
