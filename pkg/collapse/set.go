package collapse

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Set holds the ids of collapsed nodes. The zero value is an empty set.
type Set struct {
	ids map[string]struct{}
}

// New returns a set containing ids. Empty ids are ignored.
func New(ids ...string) Set {
	s := Set{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Parse reads a comma-separated id list such as "a, b,c".
func Parse(csv string) Set {
	return New(strings.Split(csv, ",")...)
}

func (s *Set) add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id is collapsed.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Toggle flips id's membership and reports whether it is now collapsed.
// Toggling the same id twice restores the original set.
func (s *Set) Toggle(id string) bool {
	id = strings.TrimSpace(id)
	if s.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.add(id)
	return s.Has(id)
}

// Len returns the number of collapsed ids.
func (s Set) Len() int { return len(s.ids) }

// IDs returns the collapsed ids in sorted order.
func (s Set) IDs() []string { return slices.Sorted(maps.Keys(s.ids)) }

// Clone returns an independent copy.
func (s Set) Clone() Set { return Set{ids: maps.Clone(s.ids)} }

// String returns the ids joined by commas, the same form Parse reads.
func (s Set) String() string { return strings.Join(s.IDs(), ",") }

// MarshalJSON encodes the set as a sorted array of ids.
func (s Set) MarshalJSON() ([]byte, error) {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = New(ids...)
	return nil
}
