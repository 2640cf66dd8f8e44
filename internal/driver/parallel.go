package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"minicc/internal/trace"
)

// Unit is one input of a batch compile.
type Unit struct {
	Name   string
	Source []byte
}

// CompileAll compiles units in parallel, each with its own engine. Results
// keep input order. The first failure cancels the units not yet started and
// is returned together with the results gathered so far; slots of units that
// never ran are nil.
func CompileAll(ctx context.Context, units []Unit, opts Options) ([]*Result, error) {
	results := make([]*Result, len(units))
	if len(units) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "batch", trace.ParentSpan(ctx))
	defer span.WithExtra("units", fmt.Sprint(len(units))).End("")
	ctx = trace.WithParent(ctx, span)

	hb := trace.StartHeartbeat(tracer, opts.Heartbeat)
	defer hb.Stop()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Compile(gctx, u.Name, u.Source, opts)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", u.Name, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}
