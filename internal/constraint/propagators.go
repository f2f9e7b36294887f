package constraint

import "motscroises/internal/automaton"

// DistinctExcept requires that no two of the named variables are
// assigned the same value, unless that value equals Except. It
// mirrors Gecode's distinct(..., except) used in
// original_source/crosswords.hpp to let the "no word here" id repeat
// across second-word slots while still forbidding the same real word from
// filling two different slots.
type DistinctExcept struct {
	Names  []string
	Except int
}

// Propagate checks already-assigned variables for conflicts, then
// removes any value claimed by an assigned variable from every other
// variable's domain.
func (c *DistinctExcept) Propagate(sp *Space) (changed bool, ok bool) {
	owner := make(map[int]string)
	for _, n := range c.Names {
		v := sp.Var(n)
		val, assigned := v.Value()
		if !assigned || val == c.Except {
			continue
		}
		if other, taken := owner[val]; taken && other != n {
			return false, false
		}
		owner[val] = n
	}

	for _, n := range c.Names {
		v := sp.Var(n)
		if v.Assigned() {
			continue
		}
		for val, o := range owner {
			if o == n {
				continue
			}
			if v.Remove(val) {
				changed = true
			}
		}
		if v.Size() == 0 {
			return changed, false
		}
	}
	return changed, true
}

// CountAtMost bounds how many of the named variables may take Value,
// modeling the black-tile budget: at most Cap cells across the grid
// may be black.
type CountAtMost struct {
	Names []string
	Value int
	Cap   int
}

// Propagate fails once more than Cap variables are assigned Value, and
// once exactly Cap are assigned, removes Value from every remaining
// variable's domain.
func (c *CountAtMost) Propagate(sp *Space) (changed bool, ok bool) {
	assigned := 0
	for _, n := range c.Names {
		v := sp.Var(n)
		if val, isAssigned := v.Value(); isAssigned && val == c.Value {
			assigned++
		}
	}
	if assigned > c.Cap {
		return false, false
	}
	if assigned < c.Cap {
		return false, true
	}
	for _, n := range c.Names {
		v := sp.Var(n)
		if v.Assigned() {
			continue
		}
		if v.Remove(c.Value) {
			changed = true
		}
		if v.Size() == 0 {
			return changed, false
		}
	}
	return changed, true
}

// LinearEq enforces Result = A + B + Offset, the relation
// original_source/crosswords.hpp posts between a second word's start
// position, the first word's start position, and the first word's
// length (pos2 = pos1 + len1 + 1, i.e. Offset = 1).
type LinearEq struct {
	Result, A, B string
	Offset       int
}

// Propagate is a three-way bounds-and-value consistency pass: each
// variable keeps only the values for which some assignment of the
// other two satisfies the equation.
func (c *LinearEq) Propagate(sp *Space) (changed bool, ok bool) {
	result := sp.Var(c.Result)
	a := sp.Var(c.A)
	b := sp.Var(c.B)

	aVals := a.Values()
	bVals := b.Values()

	possible := make(map[int]bool)
	for _, av := range aVals {
		for _, bv := range bVals {
			possible[av+bv+c.Offset] = true
		}
	}
	for _, rv := range result.Values() {
		if !possible[rv] {
			result.Remove(rv)
			changed = true
		}
	}
	if result.Size() == 0 {
		return changed, false
	}
	resultVals := make(map[int]bool, result.Size())
	for _, rv := range result.Values() {
		resultVals[rv] = true
	}

	for _, av := range aVals {
		supported := false
		for _, bv := range bVals {
			if resultVals[av+bv+c.Offset] {
				supported = true
				break
			}
		}
		if !supported {
			a.Remove(av)
			changed = true
		}
	}
	if a.Size() == 0 {
		return changed, false
	}
	aVals = a.Values()

	for _, bv := range bVals {
		supported := false
		for _, av := range aVals {
			if resultVals[av+bv+c.Offset] {
				supported = true
				break
			}
		}
		if !supported {
			b.Remove(bv)
			changed = true
		}
	}
	if b.Size() == 0 {
		return changed, false
	}

	return changed, true
}

// Extensional constrains a sequence of variables to spell out a word
// accepted by a DFA: the generic regular-language propagator every
// line constraint in internal/gridmodel is built from (border,
// first-word, second-word and no-index all compile to a *automaton.DFA
// and are posted through this one constraint type; the
// mandatory-anywhere DFA is built by internal/automaton but not posted
// by any model).
type Extensional struct {
	Names []string
	DFA   *automaton.DFA
}

// Propagate runs the standard regular-constraint GAC algorithm: a
// forward pass computes, for each position, the set of DFA states
// reachable from the initial state using the current domains; a
// backward pass computes, for each position, the set of states from
// which a final state is still reachable using the current domains.
// A value survives at a position only if some forward-reachable state
// has a transition on that value landing in a state that is backward-
// reachable from the next position.
func (c *Extensional) Propagate(sp *Space) (changed bool, ok bool) {
	n := len(c.Names)
	vars := make([]*Var, n)
	values := make([][]int, n)
	for i, name := range c.Names {
		vars[i] = sp.Var(name)
		values[i] = vars[i].Values()
	}

	reachable := make([]map[int]bool, n+1)
	reachable[0] = map[int]bool{c.DFA.Initial: true}
	for i := 0; i < n; i++ {
		next := make(map[int]bool)
		for state := range reachable[i] {
			for _, val := range values[i] {
				if to, okStep := c.DFA.Step(state, val); okStep {
					next[to] = true
				}
			}
		}
		if len(next) == 0 {
			return false, false
		}
		reachable[i+1] = next
	}

	coReachable := make([]map[int]bool, n+1)
	final := make(map[int]bool)
	for state := range reachable[n] {
		if c.DFA.IsFinal(state) {
			final[state] = true
		}
	}
	if len(final) == 0 {
		return false, false
	}
	coReachable[n] = final

	for i := n - 1; i >= 0; i-- {
		prev := make(map[int]bool)
		for state := range reachable[i] {
			for _, val := range values[i] {
				to, okStep := c.DFA.Step(state, val)
				if okStep && coReachable[i+1][to] {
					prev[state] = true
					break
				}
			}
		}
		coReachable[i] = prev
	}

	for i := 0; i < n; i++ {
		v := vars[i]
		for _, val := range values[i] {
			supported := false
			for state := range reachable[i] {
				to, okStep := c.DFA.Step(state, val)
				if okStep && coReachable[i+1][to] {
					supported = true
					break
				}
			}
			if !supported {
				v.Remove(val)
				changed = true
			}
		}
		if v.Size() == 0 {
			return changed, false
		}
	}

	return changed, true
}
