package reservist

import (
	"slices"
	"testing"

	"github.com/matzehuels/orgchart/pkg/org"
)

func normalize(t *testing.T, records []org.Record) *org.Set {
	t.Helper()
	set, err := org.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return set
}

func nodeIDs(nodes []org.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestSeparateScenario(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A", Role: "Commander"},
		{ID: "B", Role: "Rifleman", SuperiorID: "A"},
		{ID: "C", Role: "Reservist Rifleman", SuperiorID: "A"},
	})

	l := Separate(set)
	if got := nodeIDs(l.Active); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Active = %v, want [A B]", got)
	}
	if got := nodeIDs(Roster(l)); !slices.Equal(got, []string{"C"}) {
		t.Errorf("Roster = %v, want [C]", got)
	}

	if len(l.Anchors) != 1 || l.Anchors[0].ID != "__rsv__A" {
		t.Fatalf("Anchors = %+v, want [__rsv__A]", l.Anchors)
	}
	wantLayout := []Edge{{From: "A", To: "__rsv__A"}, {From: "__rsv__A", To: "C"}}
	if !slices.Equal(l.LayoutEdges, wantLayout) {
		t.Errorf("LayoutEdges = %v, want %v", l.LayoutEdges, wantLayout)
	}
	if !slices.Equal(l.RenderedEdges, []Edge{{From: "A", To: "C"}}) {
		t.Errorf("RenderedEdges = %v, want [A->C]", l.RenderedEdges)
	}
}

func TestOneAnchorPerSuperior(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "r1", Role: "Reservist", SuperiorID: "A"},
		{ID: "r2", Role: "Reserve Medic", SuperiorID: "B"},
		{ID: "r3", Role: "Reservist Driver", SuperiorID: "A"},
		{ID: "r4", Role: "Reservist Cook", SuperiorID: "nowhere"},
	})

	l := Separate(set)

	counts := map[string]int{}
	for _, a := range l.Anchors {
		counts[a.SuperiorID]++
		if !IsAnchorID(a.ID) {
			t.Errorf("anchor id %q not namespaced", a.ID)
		}
	}
	if counts["A"] != 1 || counts["B"] != 1 || len(counts) != 2 {
		t.Errorf("anchors per superior = %v, want A:1 B:1", counts)
	}

	a, ok := l.AnchorFor("A")
	if !ok || !slices.Equal(a.Members, []string{"r1", "r3"}) {
		t.Errorf("AnchorFor(A) = %+v", a)
	}
	if _, ok := l.AnchorFor("nowhere"); ok {
		t.Error("superior outside the set must not get an anchor")
	}
	if len(l.Reservists) != 4 {
		t.Errorf("Reservists = %d, want 4", len(l.Reservists))
	}
}

func TestRosterOrder(t *testing.T) {
	l := Lanes{Reservists: []org.Node{
		{ID: "1", ElementName: "bravo"},
		{ID: "2"},
		{ID: "3", ElementName: "Alpha"},
		{ID: "4", ElementName: "bravo"},
	}}
	if got := nodeIDs(Roster(l)); !slices.Equal(got, []string{"3", "1", "4", "2"}) {
		t.Errorf("Roster = %v, want [3 1 4 2]", got)
	}
}
