// Package parallel runs independent FRAIG reductions concurrently. The
// engine package's entry points each reduce one AIG; this package is the
// concurrent batch runner above them, for a caller holding several
// independent design partitions to reduce at once.
package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/gofraig/aig"
	"github.com/gitrdm/gofraig/engine"
)

// Mode selects which engine entry point a Job runs through.
type Mode int

const (
	Combinational Mode = iota
	Sequential
	LatchCorrespondence
)

// Job is one independent reduction request.
type Job struct {
	Name string
	AIG  *aig.Manager
	Cfg  engine.Config
	Mode Mode
}

// RunAll runs every job concurrently, bounded by maxConcurrency (0 or
// negative means unbounded — every job starts at once), and returns one
// *engine.Result per job in the same order jobs were given. The first
// job to fail cancels every other still-running job's context (the
// errgroup.WithContext propagation), and RunAll returns that job's error
// wrapped with its name; results for jobs that had not yet completed are
// left nil.
func RunAll(ctx context.Context, jobs []Job, maxConcurrency int) ([]*engine.Result, error) {
	results := make([]*engine.Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r, err := runOne(gctx, job)
			if err != nil {
				return fmt.Errorf("parallel: job %q: %w", job.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func runOne(ctx context.Context, job Job) (*engine.Result, error) {
	switch job.Mode {
	case Sequential:
		return engine.RunSequential(ctx, job.AIG, job.Cfg)
	case LatchCorrespondence:
		return engine.RunLatchCorrespondence(ctx, job.AIG, job.Cfg)
	default:
		return engine.Run(ctx, job.AIG, job.Cfg)
	}
}
