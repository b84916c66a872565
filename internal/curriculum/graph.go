package curriculum

import (
	"fmt"
	"slices"
)

// Graph holds the curriculum units with precomputed edge indices.
// It is built once and never mutated.
type Graph struct {
	units        []Unit
	byID         map[string]int
	groups       []string
	predecessors map[string][]string
}

// Build constructs a graph from declarations in the given order.
//
// Every declared edge A unlocks B adds A to the prerequisites of B, whether
// or not B is itself declared. A repeated ID merges into the first
// declaration: its label and group win, unlock lists are combined.
// Cycles are accepted and simply never unlock.
func Build(decls []Declaration) *Graph {
	g := &Graph{
		byID:         make(map[string]int, len(decls)),
		predecessors: make(map[string][]string),
	}

	seenGroup := make(map[string]bool)
	for _, d := range decls {
		idx, ok := g.byID[d.ID]
		if !ok {
			label := d.Label
			if label == "" {
				label = d.ID
			}
			g.units = append(g.units, Unit{ID: d.ID, Label: label, Group: d.Group})
			idx = len(g.units) - 1
			g.byID[d.ID] = idx
			if !seenGroup[d.Group] {
				seenGroup[d.Group] = true
				g.groups = append(g.groups, d.Group)
			}
		}

		u := &g.units[idx]
		for _, dst := range SplitUnlocks(d.Unlocks) {
			if slices.Contains(u.Unlocks, dst) {
				continue
			}
			u.Unlocks = append(u.Unlocks, dst)
			g.predecessors[dst] = append(g.predecessors[dst], d.ID)
		}
	}

	// Reverse edges are only known once every declaration has been read.
	for i := range g.units {
		g.units[i].Prerequisites = slices.Clone(g.predecessors[g.units[i].ID])
	}

	return g
}

// Unit returns a unit by ID, or an error if it is not declared.
func (g *Graph) Unit(id string) (Unit, error) {
	idx, ok := g.byID[id]
	if !ok {
		return Unit{}, fmt.Errorf("unit not found: %q", id)
	}
	return g.units[idx], nil
}

// Has reports whether id is a declared unit.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Units returns all units in declaration order.
func (g *Graph) Units() []Unit {
	return slices.Clone(g.units)
}

// Len returns the number of declared units.
func (g *Graph) Len() int {
	return len(g.units)
}

// Groups returns the distinct group names in order of first appearance.
func (g *Graph) Groups() []string {
	return slices.Clone(g.groups)
}

// ByGroup returns the units of one group in declaration order.
func (g *Graph) ByGroup(group string) []Unit {
	var result []Unit
	for _, u := range g.units {
		if u.Group == group {
			result = append(result, u)
		}
	}
	return result
}

// Successors returns the IDs a unit unlocks, including undeclared targets.
func (g *Graph) Successors(id string) []string {
	idx, ok := g.byID[id]
	if !ok {
		return nil
	}
	return slices.Clone(g.units[idx].Unlocks)
}

// Prerequisites returns the IDs that must be passed before id becomes eligible.
// It also answers for undeclared IDs that appear as unlock targets.
func (g *Graph) Prerequisites(id string) []string {
	return slices.Clone(g.predecessors[id])
}

// Label returns the display label for id, or id itself when undeclared.
func (g *Graph) Label(id string) string {
	if idx, ok := g.byID[id]; ok {
		return g.units[idx].Label
	}
	return id
}

// Labels maps IDs to display labels.
func (g *Graph) Labels(ids []string) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = g.Label(id)
	}
	return labels
}

// Dangling returns unlock targets that do not correspond to any declared unit,
// in order of first appearance.
func (g *Graph) Dangling() []string {
	var result []string
	for _, u := range g.units {
		for _, dst := range u.Unlocks {
			if !g.Has(dst) && !slices.Contains(result, dst) {
				result = append(result, dst)
			}
		}
	}
	return result
}
