// Package search runs a restart-based, parallel depth-first search
// over a constraint.Space: propagate to a fixpoint, branch on the
// first unassigned variable the current phase's heuristic picks, and
// recurse into a cloned space per candidate value. Grounded on
// original_source/crosswords.hpp's static solve() method
// (Search::Cutoff::constant, RBS<Crosswords, DFS>, four search
// threads) and restructured from the teacher's
// internal/generator/fill/solver.go backtracking loop, which plays the
// same "try a candidate, recurse, undo, count backtracks" role for
// lexicon lookups instead of finite-domain propagation.
package search

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"motscroises/internal/constraint"
	"motscroises/internal/gridmodel"
)

// ErrNoSolution is returned when no worker found a solution: a worker
// proved that none exists, every worker gave up, or ctx ran out first.
var ErrNoSolution = errors.New("search: no solution found")

// Config controls the restart-based parallel search.
type Config struct {
	// Cutoff is the number of failed branch nodes a single attempt may
	// accumulate before it is abandoned and restarted from the root
	// with fresh random value choices. Mirrors
	// Search::Cutoff::constant in the reference source.
	Cutoff int
	// Threads is the number of concurrent search workers. Mirrors
	// Search::Options::threads.
	Threads int
	// Seed seeds the first worker's random value selector; each
	// subsequent worker gets Seed+workerIndex. Zero means seed from
	// the current time, one draw per worker.
	Seed int64
	// MaxRestarts bounds how many times a single worker restarts from
	// the root after its attempt is cut off, before giving up. A
	// restart never revisits a branch order it has already tried in
	// full, so this is a backstop against spending forever on a model
	// whose search space is simply too large to ever finish, not the
	// primary way exhaustion is detected (see attempt's truncated
	// return value for that).
	MaxRestarts int
	// Logger receives per-attempt progress at debug level.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Cutoff <= 0 {
		c.Cutoff = 70000
	}
	if c.Threads <= 0 {
		c.Threads = 4
	}
	if c.MaxRestarts <= 0 {
		c.MaxRestarts = 200
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Solve runs cfg.Threads parallel restart-based DFS workers over sp,
// branching according to groups in the order given, until one worker
// finds a solution, a worker proves by full exhaustion that none
// exists, or ctx is canceled. The first solution found wins; other
// workers are canceled. sp itself is never mutated — every attempt
// starts from a fresh Clone.
func Solve(ctx context.Context, sp *constraint.Space, groups []gridmodel.BranchGroup, cfg Config) (*constraint.Space, error) {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *constraint.Space, 1)
	proven := make(chan struct{})
	var provenOnce sync.Once
	var wg sync.WaitGroup

	for i := 0; i < cfg.Threads; i++ {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		seed += int64(i)

		wg.Add(1)
		go func(workerID int, seed int64) {
			defer wg.Done()
			w := worker{
				groups:      groups,
				cutoff:      cfg.Cutoff,
				maxRestarts: cfg.MaxRestarts,
				rng:         rand.New(rand.NewSource(seed)),
				log:         cfg.Logger.With("worker", workerID),
			}
			if w.run(ctx, sp, results) {
				provenOnce.Do(func() { close(proven) })
			}
		}(i, seed)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	select {
	case solved, ok := <-results:
		if !ok || solved == nil {
			return nil, ErrNoSolution
		}
		return solved, nil
	case <-proven:
		cancel()
		return nil, ErrNoSolution
	}
}

type worker struct {
	groups      []gridmodel.BranchGroup
	cutoff      int
	maxRestarts int
	rng         *rand.Rand
	log         *slog.Logger
}

// run repeatedly attempts a full search from root, restarting with a
// fresh random value order whenever an attempt is cut off before
// finishing, until one of three things happens: a solution is found
// and sent on results, an attempt explores its entire subtree without
// hitting the cutoff (a complete proof no solution exists, reported
// by returning true), or the restart budget or ctx runs out first
// (reported by returning false, an inconclusive give-up).
func (w worker) run(ctx context.Context, root *constraint.Space, results chan<- *constraint.Space) bool {
	for attempt := 1; attempt <= w.maxRestarts; attempt++ {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		failures := 0
		solved, ok, truncated := w.attempt(ctx, root.Clone(), &failures)
		if ok {
			select {
			case results <- solved:
			case <-ctx.Done():
			}
			return false
		}
		if !truncated {
			w.log.Debug("search space exhausted, no solution exists", "attempt", attempt, "failures", failures)
			return true
		}
		w.log.Debug("search attempt cut off, restarting", "attempt", attempt, "failures", failures)
	}
	w.log.Debug("restart budget exhausted without a definitive result", "restarts", w.maxRestarts)
	return false
}

// attempt runs one bounded DFS pass: propagate, check for a solution
// or a dead end, else branch on the next variable the active phase
// names and recurse. ok reports whether sp was extended to a full
// solution. truncated reports whether the cutoff (or ctx) cut this
// pass short before it could rule out every remaining candidate —
// when false, the subtree rooted at sp was fully explored and proven
// to contain no solution.
func (w worker) attempt(ctx context.Context, sp *constraint.Space, failures *int) (solved *constraint.Space, ok bool, truncated bool) {
	select {
	case <-ctx.Done():
		return nil, false, true
	default:
	}

	if !sp.Propagate() {
		*failures++
		return nil, false, false
	}
	if sp.Solved() {
		return sp, true, false
	}
	if *failures >= w.cutoff {
		return nil, false, true
	}

	group, name, found := w.selectBranchVar(sp)
	if !found {
		return sp, true, false
	}

	exhausted := true
	for _, v := range w.orderedValues(sp.Var(name), group.ValueKind) {
		child := sp.Clone()
		if !child.Var(name).Assign(v) {
			continue
		}
		childSolved, childOK, childTruncated := w.attempt(ctx, child, failures)
		if childOK {
			return childSolved, true, false
		}
		if childTruncated {
			exhausted = false
		}
		*failures++
		if *failures >= w.cutoff {
			return nil, false, true
		}
	}
	return nil, false, !exhausted
}

// selectBranchVar walks the branch groups in order, skipping any group
// that is already fully assigned, and returns the next variable to
// branch on per that group's heuristic: smallest remaining domain
// first, or the first unassigned name in declared order.
func (w worker) selectBranchVar(sp *constraint.Space) (gridmodel.BranchGroup, string, bool) {
	for _, g := range w.groups {
		best := ""
		bestSize := -1
		for _, name := range g.Names {
			v := sp.Var(name)
			if v == nil || v.Assigned() {
				continue
			}
			if g.VarOrder == gridmodel.HeuristicNatural {
				return g, name, true
			}
			if bestSize == -1 || v.Size() < bestSize {
				bestSize = v.Size()
				best = name
			}
		}
		if best != "" {
			return g, best, true
		}
	}
	return gridmodel.BranchGroup{}, "", false
}

// orderedValues returns v's remaining domain in the order the given
// value strategy dictates: ascending for ValueMin, Fisher-Yates
// shuffled (via math/rand.Shuffle) for ValueRandom.
func (w worker) orderedValues(v *constraint.Var, kind gridmodel.ValueStrategy) []int {
	vals := v.Values()
	if kind == gridmodel.ValueMin {
		return vals
	}
	shuffled := append([]int(nil), vals...)
	w.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
