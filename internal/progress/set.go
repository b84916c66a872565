package progress

import "slices"

// Set is an insertion-ordered set of passed unit IDs.
// The zero value is an empty set ready to use.
type Set struct {
	ids []string
}

// NewSet returns a set holding ids in order, without duplicates.
func NewSet(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// Add inserts id. It returns false if id was already present.
func (s *Set) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id. It returns false if id was not present.
func (s *Set) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = nil
}

// Len returns the number of IDs in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the IDs in insertion order.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

// Equal reports whether both sets hold the same IDs in the same order.
func (s *Set) Equal(other *Set) bool {
	return slices.Equal(s.ids, other.ids)
}
