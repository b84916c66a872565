package curriculum

import "strings"

// Declaration is a single unit as written in the curriculum source.
// Unlocks is the raw comma-separated list of successor IDs.
type Declaration struct {
	ID      string
	Label   string
	Group   string
	Unlocks string
}

// SplitUnlocks splits a raw unlock list into trimmed, non-empty IDs.
func SplitUnlocks(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Unit is a node in the curriculum graph.
type Unit struct {
	ID            string
	Label         string
	Group         string
	Unlocks       []string
	Prerequisites []string
}

// State is a unit's state relative to the passed set.
type State int

const (
	StateLocked   State = iota // At least one prerequisite not yet passed
	StateUnlocked              // Eligible; not passed
	StatePassed                // Marked as passed
)

// Icon returns the display icon for a state.
func (s State) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateUnlocked:
		return "🔓"
	case StatePassed:
		return "✅"
	default:
		return "?"
	}
}

// Label returns the display label for a state.
func (s State) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateUnlocked:
		return "Unlocked"
	case StatePassed:
		return "Passed"
	default:
		return "Unknown"
	}
}

func (s State) String() string {
	return strings.ToLower(s.Label())
}

// Status is the evaluated state of one unit.
type Status struct {
	ID    string
	State State
	// Deficit lists the prerequisites still missing. Only set when Locked.
	Deficit []string
}

// PassedSet reports whether a unit ID has been passed.
type PassedSet interface {
	Has(id string) bool
}
