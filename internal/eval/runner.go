package eval

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/gptme-harness/internal/agent"
	"github.com/CodexForgeBR/gptme-harness/internal/files"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

// Factory builds the agent that runs cases for one model.
type Factory func(model string) agent.Agent

// Result is the outcome of one (model, case) run.
type Result struct {
	Model    string
	Case     string
	Files    files.Files
	Changes  []files.Change
	Duration time.Duration
	Err      error
}

// Options tunes Run.
type Options struct {
	// Parallel bounds concurrent runs; zero or less means unbounded.
	Parallel int
}

// Run executes every case of suite against every model. Results are ordered
// model-major in the order given. A failing run is recorded in its Result and
// does not stop the others.
func Run(ctx context.Context, factory Factory, models []string, suite *Suite, opts Options) []Result {
	results := make([]Result, 0, len(models)*len(suite.Cases))
	for _, m := range models {
		for _, c := range suite.Cases {
			results = append(results, Result{Model: m, Case: c.Name})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}

	var mu sync.Mutex
	done := 0
	for i := range results {
		r := &results[i]
		c := suite.Cases[i%len(suite.Cases)]
		a := factory(r.Model)

		g.Go(func() error {
			runCase(ctx, a, c, r)

			mu.Lock()
			done++
			logging.Infof("[%d/%d] %s %s finished in %s", done, len(results), r.Model, r.Case, logging.FormatDuration(r.Duration))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runCase(ctx context.Context, a agent.Agent, c Case, r *Result) {
	input := c.Input()
	start := time.Now()
	out, err := a.Act(ctx, input, c.Prompt)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		logging.Errorf("%s %s: %v", r.Model, r.Case, err)
		return
	}
	r.Files = out
	r.Changes = files.Diff(input, out)
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
