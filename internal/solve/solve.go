// Package solve wires the dictionary, grid model, orchestrator and
// search packages together into the single entry point both the CLI and
// the HTTP API call: build the right model for a request, run the
// restart-based search, and translate the winning space back into a
// domain.SolveResult.
package solve

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"motscroises/internal/constraint"
	"motscroises/internal/dictionary"
	"motscroises/internal/domain"
	"motscroises/internal/gridio"
	"motscroises/internal/gridmodel"
	"motscroises/internal/orchestrator"
	"motscroises/internal/search"
)

// Options tunes the underlying search without changing the request's
// own semantics (grid size, words, black-tile budget).
type Options struct {
	Cutoff  int
	Threads int
	Seed    int64
	// Timeout is not read by Run, which is bounded only by the context
	// it is given. EffectiveTimeout turns it into a deadline for callers
	// that build that context themselves (the API's job queue); the CLI
	// uses its own -timeout flag and leaves this zero.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (o Options) searchConfig() search.Config {
	return search.Config{Cutoff: o.Cutoff, Threads: o.Threads, Seed: o.Seed, Logger: o.Logger}
}

// EffectiveTimeout returns o.Timeout, or a conservative default if the
// caller left it unset.
func (o Options) EffectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 5 * time.Minute
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Run solves a single request. The candidate dictionary is built fresh
// from req.Words (plus req.Mandatory) on every call, so each request is
// self-contained and callers never need a server-wide preloaded index
// just to fill a grid. With no mandatory words Run builds a
// WordVariableModel and searches it directly. With mandatory words it
// enumerates legal placement combinations via internal/orchestrator and
// tries each one (in shuffled order) against a LetterOnlyModel until one
// search succeeds or every combination is exhausted.
func Run(ctx context.Context, req domain.SolveRequest, opts Options) (*domain.SolveResult, error) {
	start := time.Now()
	log := opts.logger()

	maxLen := req.Width
	if req.Height > maxLen {
		maxLen = req.Height
	}
	dict := dictionary.Build(req.Words, maxLen)
	if len(req.Mandatory) > 0 {
		dict = dict.AddMandatory(req.Mandatory)
	}

	pinned, err := convertPinned(req.Pinned, req.Width)
	if err != nil {
		return nil, err
	}

	if len(req.Mandatory) == 0 {
		model, err := gridmodel.NewWordVariableModel(dict, req.Width, req.Height, req.BlackTileCap, pinned)
		if err != nil {
			return nil, fmt.Errorf("solve: build model: %w", err)
		}
		return runModel(ctx, model.Space, model.BranchGroups(), model.CellName, req, opts, start)
	}

	nthreads := opts.Threads
	if nthreads < 1 {
		nthreads = 1
	}
	total := orchestrator.LogPlan(log, req.Width, req.Height, len(req.Mandatory), nthreads)

	rng := rand.New(rand.NewSource(opts.Seed))
	order := orchestrator.Shuffle(total, rng)

	attempts := 0
	for _, combination := range order {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		placements, ok := orchestrator.ValidateCombination(req.Width, req.Height, combination, req.Mandatory)
		if !ok {
			continue
		}
		attempts++

		model, err := gridmodel.NewLetterOnlyModel(dict, req.Width, req.Height, req.BlackTileCap, placements)
		if err != nil {
			continue
		}

		result, err := runModel(ctx, model.Space, model.BranchGroups(), model.CellName, req, opts, start)
		if err == nil && !result.Solved {
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Attempts = attempts
		return result, nil
	}

	return &domain.SolveResult{
		Solved:        false,
		Attempts:      attempts,
		ElapsedMillis: time.Since(start).Milliseconds(),
	}, nil
}

func runModel(ctx context.Context, sp *constraint.Space, groups []gridmodel.BranchGroup, cellName gridio.CellNamer, req domain.SolveRequest, opts Options, start time.Time) (*domain.SolveResult, error) {
	solved, err := search.Solve(ctx, sp, groups, opts.searchConfig())
	if err == search.ErrNoSolution {
		return &domain.SolveResult{Solved: false, ElapsedMillis: time.Since(start).Milliseconds()}, nil
	}
	if err != nil {
		return nil, err
	}

	grid, err := renderGrid(solved, req.Width, req.Height, cellName)
	if err != nil {
		return nil, err
	}

	return &domain.SolveResult{
		Solved:        true,
		Grid:          grid,
		Words:         gridio.ExtractWords(solved, req.Width, req.Height, cellName),
		ElapsedMillis: time.Since(start).Milliseconds(),
	}, nil
}

func renderGrid(sp *constraint.Space, width, height int, cellName gridio.CellNamer) ([]string, error) {
	var buf strings.Builder
	if err := gridio.RenderGrid(&buf, sp, width, height, cellName); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

func convertPinned(pinned map[string]int, width int) (map[int]int, error) {
	if len(pinned) == 0 {
		return nil, nil
	}
	out := make(map[int]int, len(pinned))
	for key, code := range pinned {
		row, col, ok := parseCellKey(key)
		if !ok {
			return nil, fmt.Errorf("solve: malformed pinned cell key %q", key)
		}
		out[col+row*width] = code
	}
	return out, nil
}

func parseCellKey(key string) (row, col int, ok bool) {
	var r, c int
	n, err := fmt.Sscanf(key, "%d,%d", &r, &c)
	if err != nil || n != 2 {
		return 0, 0, false
	}
	return r, c, true
}
