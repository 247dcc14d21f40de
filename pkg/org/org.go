package org

import (
	"strings"
	"unicode"
)

// Person is the occupant of a billet.
type Person struct {
	ID               string `json:"id" bson:"id" toml:"id"`
	Name             string `json:"name" bson:"name" toml:"name"`
	ServiceNumber    string `json:"service_number,omitempty" bson:"service_number,omitempty" toml:"service_number"`
	RankAbbreviation string `json:"rank,omitempty" bson:"rank,omitempty" toml:"rank"`
}

// DisplayName returns the name prefixed with the rank abbreviation, if any.
func (p Person) DisplayName() string {
	if p.RankAbbreviation == "" {
		return p.Name
	}
	return p.RankAbbreviation + " " + p.Name
}

// Record is a billet exactly as a source returns it.
type Record struct {
	ID          string  `json:"id" bson:"_id" toml:"id"`
	Role        string  `json:"role" bson:"role" toml:"role"`
	ElementID   string  `json:"element_id,omitempty" bson:"element_id,omitempty" toml:"element_id"`
	ElementName string  `json:"element_name,omitempty" bson:"element_name,omitempty" toml:"element_name"`
	ElementIcon string  `json:"element_icon,omitempty" bson:"element_icon,omitempty" toml:"element_icon"`
	SuperiorID  string  `json:"superior_id,omitempty" bson:"superior_id,omitempty" toml:"superior_id"`
	Priority    *int    `json:"priority,omitempty" bson:"priority,omitempty" toml:"priority"`
	Occupant    *Person `json:"occupant,omitempty" bson:"occupant,omitempty" toml:"occupant"`

	// Reservist overrides the role-text heuristic when set.
	Reservist *bool `json:"reservist,omitempty" bson:"reservist,omitempty" toml:"reservist"`
}

// Element is an organizational element (unit, section) that owns billets.
type Element struct {
	ID       string `json:"id" bson:"_id" toml:"id"`
	Name     string `json:"name" bson:"name" toml:"name"`
	Icon     string `json:"icon,omitempty" bson:"icon,omitempty" toml:"icon"`
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty" toml:"parent_id"`
	Priority *int   `json:"priority,omitempty" bson:"priority,omitempty" toml:"priority"`
}

// Dataset is one fetched snapshot of the hierarchy.
type Dataset struct {
	Billets  []Record  `json:"billets" toml:"billets"`
	Elements []Element `json:"elements,omitempty" toml:"elements"`
}

// Empty reports whether the snapshot holds no billets and no elements.
func (d Dataset) Empty() bool { return len(d.Billets) == 0 && len(d.Elements) == 0 }

// ResolvedBillets returns the billets with a blank element name or icon
// filled in from the element with the billet's ElementID.
func (d Dataset) ResolvedBillets() []Record {
	byID := make(map[string]Element, len(d.Elements))
	for _, e := range d.Elements {
		byID[e.ID] = e
	}
	out := make([]Record, len(d.Billets))
	for i, r := range d.Billets {
		if e, ok := byID[r.ElementID]; ok {
			if r.ElementName == "" {
				r.ElementName = e.Name
			}
			if r.ElementIcon == "" {
				r.ElementIcon = e.Icon
			}
		}
		out[i] = r
	}
	return out
}

// Node is a normalized billet.
type Node struct {
	ID          string  `json:"id"`
	Role        string  `json:"role"`
	ElementID   string  `json:"element_id,omitempty"`
	ElementName string  `json:"element_name,omitempty"`
	ElementIcon string  `json:"element_icon,omitempty"`
	SuperiorID  string  `json:"superior_id,omitempty"`
	Occupant    *Person `json:"occupant,omitempty"`
	Reservist   bool    `json:"reservist,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
}

// Vacant reports whether the billet has no occupant.
func (n Node) Vacant() bool { return n.Occupant == nil }

// Int returns a pointer to v. Handy for priorities in literals.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

var reservistTokens = map[string]bool{
	"reservist":  true,
	"reservists": true,
	"reserve":    true,
	"reserves":   true,
	"rsv":        true,
}

// IsReservistRole reports whether a free-text role names a reserve billet.
// Matching is by whole word, case-insensitive, so "Reservist Rifleman" and
// "Rifleman (Reserve)" match while "Preserver" does not.
func IsReservistRole(role string) bool {
	words := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if reservistTokens[w] {
			return true
		}
	}
	return false
}
