package roundtrip

import (
	"context"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/value"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a VerifyAll run.
type Stats struct {
	Verified int64
	Bytes    int64
}

type counters struct {
	verified atomic.Int64
	bytes    atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{Verified: c.verified.Load(), Bytes: c.bytes.Load()}
}

// VerifyAll verifies values concurrently with at most workers goroutines. It stops at the first
// failure or when ctx is done and returns the counters gathered so far together with the error.
// The error of a failed value is annotated with its index.
func VerifyAll(ctx context.Context, values []value.Value, workers int) (Stats, error) {
	if workers <= 0 {
		return Stats{}, errors.Errorf("invalid number of workers %d", workers)
	}
	var c counters
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range values {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := verify(v)
			c.bytes.Add(int64(n))
			if err != nil {
				return errors.Wrapf(err, "value %d", i)
			}
			c.verified.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return c.stats(), err
	}
	if err := ctx.Err(); err != nil {
		return c.stats(), err
	}
	return c.stats(), nil
}
