package npiregress

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// RunAll runs independent scenarios concurrently with at most parallelism in flight, or one per
// scenario when parallelism is not positive. Results are returned in input order. Options are
// all validated before any scenario starts.
func RunAll(ctx context.Context, opts []*Options, parallelism int) ([]*Results, error) {
	scenarios := make([]*Scenario, len(opts))
	for i, opt := range opts {
		s, err := New(opt)
		if err != nil {
			return nil, fmt.Errorf("scenario %d, %w", i, err)
		}
		scenarios[i] = s
	}

	results := make([]*Results, len(scenarios))
	eg, egCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}
	for i, s := range scenarios {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := s.Run()
			if err != nil {
				return fmt.Errorf("scenario %q, %w", s.opt.Name, err)
			}
			results[i] = res
			slog.Debug("scenario complete", "scenario", s.opt.Name, "horizon", res.Horizon)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
