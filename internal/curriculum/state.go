package curriculum

// Evaluate computes the state of a unit against the passed set.
func (g *Graph) Evaluate(id string, passed PassedSet) Status {
	if passed.Has(id) {
		return Status{ID: id, State: StatePassed}
	}

	var deficit []string
	for _, req := range g.predecessors[id] {
		if !passed.Has(req) {
			deficit = append(deficit, req)
		}
	}
	if len(deficit) > 0 {
		return Status{ID: id, State: StateLocked, Deficit: deficit}
	}
	return Status{ID: id, State: StateUnlocked}
}

// EvaluateAll computes the state of every unit in declaration order.
func (g *Graph) EvaluateAll(passed PassedSet) []Status {
	result := make([]Status, len(g.units))
	for i, u := range g.units {
		result[i] = g.Evaluate(u.ID, passed)
	}
	return result
}

// IsUnlocked returns true if every prerequisite of id is in the passed set.
func (g *Graph) IsUnlocked(id string, passed PassedSet) bool {
	for _, req := range g.predecessors[id] {
		if !passed.Has(req) {
			return false
		}
	}
	return true
}

// Available returns the units that are eligible but not yet passed.
func (g *Graph) Available(passed PassedSet) []Unit {
	var result []Unit
	for _, u := range g.units {
		if !passed.Has(u.ID) && g.IsUnlocked(u.ID, passed) {
			result = append(result, u)
		}
	}
	return result
}

// Blocked returns the units with at least one prerequisite not yet passed.
func (g *Graph) Blocked(passed PassedSet) []Unit {
	var result []Unit
	for _, u := range g.units {
		if !passed.Has(u.ID) && !g.IsUnlocked(u.ID, passed) {
			result = append(result, u)
		}
	}
	return result
}
