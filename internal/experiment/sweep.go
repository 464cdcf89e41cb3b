package experiment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/halosim/internal/config"
	"github.com/san-kum/halosim/internal/halo"
)

// SweepPoint is the outcome of one run in a sweep.
type SweepPoint struct {
	Value  float64
	Result *Result
}

// Sweep runs one independent simulation per value of param, at most workers
// at a time. param is "dt" or any physics parameter accepted by
// halo.Params.SetParam. Points come back in the order of values.
func Sweep(ctx context.Context, base *config.Config, param string, values []float64, workers int) ([]SweepPoint, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := base.Clone()
		// History is not part of a sweep's result.
		cfg.HistoryLimit = -1
		if err := apply(cfg, param, v); err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	points := make([]SweepPoint, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			res, err := New(cfg).Run(ctx)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", param, values[i], err)
			}
			points[i] = SweepPoint{Value: values[i], Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func apply(cfg *config.Config, param string, v float64) error {
	if param == "dt" {
		if !(v > 0) {
			return fmt.Errorf("%w: dt must be positive, got %g", halo.ErrInvalidConfiguration, v)
		}
		cfg.Dt = v
		return nil
	}
	return cfg.Physics.SetParam(param, v)
}

// Best returns the point with the largest value of the named metric.
func Best(points []SweepPoint, metric string) (SweepPoint, bool) {
	var best SweepPoint
	found := false
	for _, p := range points {
		if p.Result == nil {
			continue
		}
		v, ok := p.Result.Metrics[metric]
		if !ok {
			continue
		}
		if !found || v > best.Result.Metrics[metric] {
			best, found = p, true
		}
	}
	return best, found
}
