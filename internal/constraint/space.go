package constraint

// Constraint prunes the domains of the variables it cares about,
// looking them up by name through the Space it is given. It returns
// (changed, ok): changed reports whether any domain shrank, and ok is
// false if propagation proved the constraint unsatisfiable (some
// variable's domain went empty, or an assignment conflict was
// detected directly).
type Constraint interface {
	Propagate(sp *Space) (changed bool, ok bool)
}

// Space is a full constraint-satisfaction state: a set of named
// variables plus the constraints posted over them. The search driver
// clones a Space at each branch point rather than mutating one shared
// instance, mirroring the copy-on-write space Gecode's Space class
// gives each node of a search tree.
type Space struct {
	vars        []*Var
	byName      map[string]*Var
	constraints []Constraint
}

// NewSpace returns an empty Space.
func NewSpace() *Space {
	return &Space{byName: make(map[string]*Var)}
}

// AddVar registers v and returns it, for chaining at call sites like
// sp.AddVar(constraint.NewVarRange("len1", 2, 9)).
func (sp *Space) AddVar(v *Var) *Var {
	sp.vars = append(sp.vars, v)
	sp.byName[v.name] = v
	return v
}

// Var looks up a previously-added variable by name. Returns nil if no
// such variable exists.
func (sp *Space) Var(name string) *Var {
	return sp.byName[name]
}

// Vars returns every variable in the space, in the order they were
// added.
func (sp *Space) Vars() []*Var {
	return sp.vars
}

// Post attaches a constraint to the space. Constraints are not
// propagated until Propagate is called.
func (sp *Space) Post(c Constraint) {
	sp.constraints = append(sp.constraints, c)
}

// Propagate runs every posted constraint to a joint fixpoint: as long
// as any constraint shrinks a domain, every constraint gets another
// pass, since a pruning made by one constraint can unlock further
// pruning in another. Returns false the moment any constraint reports
// failure.
func (sp *Space) Propagate() bool {
	for {
		progress := false
		for _, c := range sp.constraints {
			changed, ok := c.Propagate(sp)
			if !ok {
				return false
			}
			if changed {
				progress = true
			}
		}
		if !progress {
			return true
		}
	}
}

// Failed reports whether any variable's domain has already gone empty,
// without running propagation.
func (sp *Space) Failed() bool {
	for _, v := range sp.vars {
		if v.Size() == 0 {
			return true
		}
	}
	return false
}

// Solved reports whether every variable is assigned.
func (sp *Space) Solved() bool {
	for _, v := range sp.vars {
		if !v.Assigned() {
			return false
		}
	}
	return true
}

// Unassigned returns the variables that have not yet collapsed to a
// single value, in insertion order.
func (sp *Space) Unassigned() []*Var {
	out := make([]*Var, 0)
	for _, v := range sp.vars {
		if !v.Assigned() {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns an independent copy of the space: every variable is
// deep-copied, so pruning one clone's domains never affects another.
// Constraints are stateless with respect to which space they act on
// (they resolve variable names afresh via sp.Var on every call), so
// the constraint slice itself is shared rather than copied.
func (sp *Space) Clone() *Space {
	clone := &Space{
		byName:      make(map[string]*Var, len(sp.byName)),
		constraints: sp.constraints,
		vars:        make([]*Var, len(sp.vars)),
	}
	for i, v := range sp.vars {
		cv := v.Clone()
		clone.vars[i] = cv
		clone.byName[cv.name] = cv
	}
	return clone
}
