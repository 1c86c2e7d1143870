package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/flowlens/flowlens/pkg/cfg"
)

// ExecuteAll runs the pipeline over independent graphs concurrently.
// Builds are pure functions of their input, so fan-out needs no extra
// coordination beyond bounding parallelism. Results are returned in input
// order; the first error cancels the remaining builds.
func (r *Runner) ExecuteAll(ctx context.Context, graphs []*cfg.Graph[string], opts Options, parallelism int) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]*Result, len(graphs))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(parallelism)

	for i, g := range graphs {
		grp.Go(func() error {
			res, err := r.Execute(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("graph %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
