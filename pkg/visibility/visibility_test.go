package visibility

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/org"
)

func sorted(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func scenario() *Forest {
	return NewForest([]org.Node{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "C", SuperiorID: "A"},
		{ID: "D", SuperiorID: "B"},
	})
}

func TestVisibleScenario(t *testing.T) {
	f := scenario()
	collapsed := collapse.New("A")

	if got := f.Visible(collapsed).IDs(); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("Visible({A}) = %v, want [A]", got)
	}

	now, err := f.Toggle(&collapsed, "A")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if now {
		t.Error("Toggle should report expanded")
	}
	if got := f.Visible(collapsed).IDs(); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("Visible({}) = %v, want [A B C D]", got)
	}
}

func TestVisibleCollapsedNodeStaysVisible(t *testing.T) {
	f := scenario()
	v := f.Visible(collapse.New("B"))
	if !v.Has("B") || v.Has("D") || !v.Has("C") {
		t.Errorf("Visible({B}) = %v, want [A B C]", v.IDs())
	}
}

func TestExternalSuperiorIsRoot(t *testing.T) {
	f := NewForest([]org.Node{
		{ID: "X", SuperiorID: "outside"},
		{ID: "Y", SuperiorID: "X"},
		{ID: "S", SuperiorID: "S"},
	})
	if got := f.Roots(); !slices.Equal(got, []string{"X", "S"}) {
		t.Errorf("Roots() = %v, want [X S]", got)
	}
	if f.Visible(collapse.Set{}).Len() != 3 {
		t.Error("all nodes should be visible")
	}
	if f.Parent("Y") != "X" || f.Parent("X") != "" {
		t.Error("Parent() mismatch")
	}
}

func TestChildrenPriorityOrder(t *testing.T) {
	f := NewForest([]org.Node{
		{ID: "R"},
		{ID: "late", SuperiorID: "R"},
		{ID: "two", SuperiorID: "R", Priority: org.Int(2)},
		{ID: "one", SuperiorID: "R", Priority: org.Int(1)},
	})
	if got := f.Children("R"); !slices.Equal(got, []string{"one", "two", "late"}) {
		t.Errorf("Children(R) = %v", got)
	}
}

func TestVisibleTerminatesOnCycle(t *testing.T) {
	f := NewForest([]org.Node{
		{ID: "R"},
		{ID: "a", SuperiorID: "b"},
		{ID: "b", SuperiorID: "a"},
	})
	if got := f.Visible(collapse.Set{}).IDs(); !slices.Equal(got, []string{"R"}) {
		t.Errorf("Visible() = %v, want [R]", got)
	}
}

func TestToggleRejectsLeaves(t *testing.T) {
	f := scenario()
	var s collapse.Set

	if _, err := f.Toggle(&s, "D"); !errors.Is(err, ErrNotCollapsible) {
		t.Errorf("Toggle(leaf) = %v, want ErrNotCollapsible", err)
	}
	if _, err := f.Toggle(&s, "nope"); !errors.Is(err, ErrNotCollapsible) {
		t.Errorf("Toggle(unknown) = %v, want ErrNotCollapsible", err)
	}
	if s.Len() != 0 {
		t.Error("failed toggles must not change the set")
	}

	stale := collapse.New("D")
	if _, err := f.Toggle(&stale, "D"); err != nil {
		t.Errorf("expanding a stale id should succeed: %v", err)
	}
}

func randomForest(rng *rand.Rand, n int) []org.Node {
	nodes := make([]org.Node, n)
	for i := range nodes {
		nodes[i].ID = strconv.Itoa(i)
		if i > 0 && rng.IntN(5) != 0 {
			nodes[i].SuperiorID = strconv.Itoa(rng.IntN(i))
		}
	}
	return nodes
}

func TestVisibilityProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 40; round++ {
		t.Run(fmt.Sprintf("round%d", round), func(t *testing.T) {
			f := NewForest(randomForest(rng, 2+rng.IntN(40)))

			var collapsed collapse.Set
			for _, id := range f.Roots() {
				if f.HasChildren(id) && rng.IntN(2) == 0 {
					collapsed.Toggle(id)
				}
			}
			before := f.Visible(collapsed)

			for _, r := range f.Roots() {
				if !before.Has(r) {
					t.Fatalf("root %s not visible", r)
				}
			}

			var target string
			for _, id := range before.IDs() {
				if f.HasChildren(id) && !collapsed.Has(id) {
					target = id
					break
				}
			}
			if target == "" {
				return
			}

			next := collapsed.Clone()
			if _, err := f.Toggle(&next, target); err != nil {
				t.Fatalf("Toggle: %v", err)
			}
			after := f.Visible(next)

			hidden := map[string]bool{}
			for _, d := range f.Descendants(target) {
				hidden[d] = true
			}
			var want []string
			for _, id := range before.IDs() {
				if !hidden[id] {
					want = append(want, id)
				}
			}
			if !slices.Equal(sorted(after.IDs()), sorted(want)) {
				t.Errorf("collapse %s: visible = %v, want %v", target, sorted(after.IDs()), sorted(want))
			}
			if !after.Has(target) {
				t.Errorf("collapsed node %s must stay visible", target)
			}

			if _, err := f.Toggle(&next, target); err != nil {
				t.Fatalf("Toggle back: %v", err)
			}
			if !slices.Equal(f.Visible(next).IDs(), before.IDs()) {
				t.Errorf("double toggle did not restore visible set")
			}
		})
	}
}
