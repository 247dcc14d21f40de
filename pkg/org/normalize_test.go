package org

import (
	"slices"
	"testing"

	"github.com/matzehuels/orgchart/pkg/errors"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestNormalizeClean(t *testing.T) {
	records := []Record{
		{ID: " A ", Role: " Commander ", ElementName: "HQ"},
		{ID: "B", Role: "Executive Officer", SuperiorID: "A", Occupant: &Person{ID: "p1", Name: "Doe", RankAbbreviation: "Maj"}},
		{ID: "C", Role: "Reservist Rifleman", SuperiorID: "A"},
	}

	set, err := Normalize(records)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}

	a, ok := set.Node("A")
	if !ok {
		t.Fatal("A not found after trimming")
	}
	if a.Role != "Commander" || !a.Vacant() {
		t.Errorf("A = %+v", a)
	}

	b, _ := set.Node("B")
	if b.Occupant.DisplayName() != "Maj Doe" {
		t.Errorf("DisplayName() = %q, want Maj Doe", b.Occupant.DisplayName())
	}

	c, _ := set.Node("C")
	if !c.Reservist {
		t.Error("C should be a reservist")
	}
	if got := ids(set.Roots()); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Roots() = %v, want [A]", got)
	}
}

func TestNormalizeSelfReference(t *testing.T) {
	records := []Record{
		{ID: "A"},
		{ID: "X", SuperiorID: "X"},
		{ID: "B", SuperiorID: "A"},
	}

	set, err := Normalize(records)
	ie, ok := errors.AsIntegrity(err)
	if !ok {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if !ie.Has(errors.IssueSelfReference, "X") {
		t.Errorf("issues = %v, want self_reference X", ie.Issues)
	}
	if len(ie.Issues) != 1 {
		t.Errorf("issues = %v, want exactly one", ie.Issues)
	}

	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
	if got := ids(set.Roots()); !slices.Equal(got, []string{"A", "X"}) {
		t.Errorf("Roots() = %v, want [A X]", got)
	}
	if b, _ := set.Node("B"); set.Superior(b) != "A" {
		t.Error("B should still report to A")
	}
}

func TestNormalizeDuplicatesAndEmpty(t *testing.T) {
	records := []Record{
		{ID: "A", Role: "first"},
		{ID: "", Role: "nameless"},
		{ID: "A", Role: "second"},
	}

	set, err := Normalize(records)
	ie, ok := errors.AsIntegrity(err)
	if !ok {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if !ie.Has(errors.IssueDuplicateID, "A") || !ie.Has(errors.IssueEmptyID, "") {
		t.Errorf("issues = %v", ie.Issues)
	}

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if a, _ := set.Node("A"); a.Role != "first" {
		t.Errorf("duplicate should keep first occurrence, got role %q", a.Role)
	}
}

func TestNormalizeReservedID(t *testing.T) {
	set, err := Normalize([]Record{
		{ID: "A"},
		{ID: ReservedPrefix + "A", SuperiorID: "A"},
		{ID: "B", SuperiorID: ReservedPrefix + "A"},
	})
	ie, ok := errors.AsIntegrity(err)
	if !ok || !ie.Has(errors.IssueReservedID, ReservedPrefix+"A") {
		t.Fatalf("err = %v, want reserved_id issue", err)
	}
	if got := ids(set.Nodes()); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Nodes() = %v, want [A B]", got)
	}
	if got := ids(set.Roots()); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Roots() = %v, want [A B]", got)
	}
}

func TestNormalizeBreaksCycles(t *testing.T) {
	records := []Record{
		{ID: "R"},
		{ID: "B", SuperiorID: "C"},
		{ID: "C", SuperiorID: "D"},
		{ID: "D", SuperiorID: "B"},
		{ID: "E", SuperiorID: "R"},
	}

	set, err := Normalize(records)
	ie, ok := errors.AsIntegrity(err)
	if !ok {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if !ie.Has(errors.IssueCycle, "B") {
		t.Errorf("issues = %v, want cycle at B", ie.Issues)
	}

	if got := ids(set.Roots()); !slices.Equal(got, []string{"R", "B"}) {
		t.Errorf("Roots() = %v, want [R B]", got)
	}
	if d, _ := set.Node("D"); set.Superior(d) != "C" {
		t.Error("D should keep its superior C")
	}
}

func TestNormalizeMissingReference(t *testing.T) {
	set, err := Normalize([]Record{
		{ID: "A", SuperiorID: "ghost"},
		{ID: "B", SuperiorID: "A"},
	})
	if err != nil {
		t.Fatalf("missing superior must not be an integrity error: %v", err)
	}

	missing := set.MissingReferences()
	if len(missing) != 1 || missing[0] != (MissingReference{NodeID: "A", SuperiorID: "ghost"}) {
		t.Errorf("MissingReferences() = %v", missing)
	}
	if got := ids(set.Roots()); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Roots() = %v, want [A]", got)
	}
}

func TestNormalizeReservistSuperior(t *testing.T) {
	set, err := Normalize([]Record{
		{ID: "A", Role: "Commander"},
		{ID: "R", Role: "Reserve Sergeant", SuperiorID: "A"},
		{ID: "X", Role: "Driver", SuperiorID: "R"},
		{ID: "Y", Role: "Reserve Driver", SuperiorID: "R"},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []MissingReference{{NodeID: "X", SuperiorID: "R", ReservistSuperior: true}}
	if got := set.MissingReferences(); !slices.Equal(got, want) {
		t.Errorf("MissingReferences() = %v, want %v", got, want)
	}
}

func TestNormalizeExplicitReservistFlag(t *testing.T) {
	set, _ := Normalize([]Record{
		{ID: "a", Role: "Reservist Clerk", Reservist: Bool(false)},
		{ID: "b", Role: "Clerk", Reservist: Bool(true)},
	})
	a, _ := set.Node("a")
	b, _ := set.Node("b")
	if a.Reservist || !b.Reservist {
		t.Errorf("explicit flag should win: a=%v b=%v", a.Reservist, b.Reservist)
	}
}

func TestNormalizeEmptyOccupant(t *testing.T) {
	set, _ := Normalize([]Record{{ID: "a", Occupant: &Person{}}})
	if a, _ := set.Node("a"); !a.Vacant() {
		t.Error("blank occupant should normalize to vacant")
	}
}

func TestFilter(t *testing.T) {
	set, _ := Normalize([]Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "C", SuperiorID: "B"},
	})

	sub := set.Filter(func(n Node) bool { return n.ID != "B" })
	if sub.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sub.Len())
	}
	if got := ids(sub.Roots()); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("Roots() = %v, want [A C]", got)
	}
	if len(sub.MissingReferences()) != 1 {
		t.Errorf("MissingReferences() = %v, want C->B", sub.MissingReferences())
	}
}

func TestIsReservistRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"Reservist Rifleman", true},
		{"Rifleman (Reserve)", true},
		{"RESERVISTS COORDINATOR", true},
		{"RSV Driver", true},
		{"Rifleman", false},
		{"Preserver of Records", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsReservistRole(tt.role); got != tt.want {
			t.Errorf("IsReservistRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestResolvedBillets(t *testing.T) {
	ds := Dataset{
		Billets: []Record{
			{ID: "co", ElementID: "hq"},
			{ID: "xo", ElementID: "hq", ElementName: "Staff"},
			{ID: "s1", ElementID: "gone"},
		},
		Elements: []Element{{ID: "hq", Name: "Headquarters", Icon: "star"}},
	}
	got := ds.ResolvedBillets()

	tests := []struct {
		i          int
		name, icon string
	}{
		{0, "Headquarters", "star"},
		{1, "Staff", "star"},
		{2, "", ""},
	}
	for _, tt := range tests {
		if got[tt.i].ElementName != tt.name || got[tt.i].ElementIcon != tt.icon {
			t.Errorf("%s: element = %q/%q, want %q/%q", got[tt.i].ID, got[tt.i].ElementName, got[tt.i].ElementIcon, tt.name, tt.icon)
		}
	}
	if ds.Billets[0].ElementName != "" {
		t.Error("ResolvedBillets modified the dataset")
	}
}
