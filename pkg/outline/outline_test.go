package outline_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mdoutline/pkg/heading"
	"github.com/vanderheijden86/mdoutline/pkg/outline"
	"github.com/vanderheijden86/mdoutline/pkg/testutil"
)

func newModel(records ...heading.Record) *outline.Model {
	m := outline.New(outline.DefaultStyles())
	m.SetSize(30, 20)
	m.Rebuild(records)
	return m
}

func TestStructurallyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []heading.Record
		want bool
	}{
		{
			"identical",
			testutil.Headings(testutil.H(1, "A", 0), testutil.H(2, "B", 5)),
			testutil.Headings(testutil.H(1, "A", 0), testutil.H(2, "B", 5)),
			true,
		},
		{
			"source lines ignored",
			testutil.Headings(testutil.H(1, "A", 0), testutil.H(2, "B", 5)),
			testutil.Headings(testutil.H(1, "A", 3), testutil.H(2, "B", 99)),
			true,
		},
		{
			"markup stripped before comparing",
			testutil.Headings(testutil.H(1, "**A**", 0)),
			testutil.Headings(testutil.H(1, "[A](#a)", 0)),
			true,
		},
		{
			"level change",
			testutil.Headings(testutil.H(1, "A", 0)),
			testutil.Headings(testutil.H(2, "A", 0)),
			false,
		},
		{
			"label change",
			testutil.Headings(testutil.H(1, "A", 0)),
			testutil.Headings(testutil.H(1, "B", 0)),
			false,
		},
		{
			"length change",
			testutil.Headings(testutil.H(1, "A", 0)),
			testutil.Headings(testutil.H(1, "A", 0), testutil.H(2, "B", 1)),
			false,
		},
		{"both empty", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outline.StructurallyEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("StructurallyEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

// Structural equality must behave exactly like the naive definition: same
// length, pairwise equal level and stripped label.
func TestStructurallyEqualRapid(t *testing.T) {
	recordGen := rapid.Custom(func(t *rapid.T) heading.Record {
		return heading.Record{
			Level:      rapid.IntRange(1, 6).Draw(t, "level"),
			Text:       rapid.SampledFrom([]string{"A", "B", "**A**", "[A](#a)", "C c"}).Draw(t, "text"),
			SourceLine: rapid.IntRange(0, 500).Draw(t, "line"),
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SliceOfN(recordGen, 0, 8).Draw(t, "a")
		b := rapid.SliceOfN(recordGen, 0, 8).Draw(t, "b")

		want := len(a) == len(b)
		if want {
			for i := range a {
				if a[i].Level != b[i].Level ||
					heading.StripMarkup(a[i].Text) != heading.StripMarkup(b[i].Text) {
					want = false
					break
				}
			}
		}
		if got := outline.StructurallyEqual(a, b); got != want {
			t.Fatalf("StructurallyEqual(%v, %v) = %v, want %v", a, b, got, want)
		}
	})
}

func TestRebuildStripsLabels(t *testing.T) {
	m := newModel(testutil.H(1, "**[Intro](#x)** and *code* `y`", 0))
	if got := m.Entries()[0].Label; got != "Intro and code y" {
		t.Errorf("label = %q, want %q", got, "Intro and code y")
	}
}

func TestRebuildDetachesOldNodes(t *testing.T) {
	m := newModel(testutil.H(1, "A", 0), testutil.H(2, "B", 5))
	old := testutil.Nodes(m)

	m.Rebuild(testutil.Headings(testutil.H(1, "A", 0)))

	for i, n := range old {
		if !n.Detached() {
			t.Errorf("old node %d still attached after rebuild", i)
		}
	}
	if m.Entries()[0].Node().Detached() {
		t.Error("fresh node must not be detached")
	}
	if m.ActiveIndex() != -1 {
		t.Errorf("active index = %d after rebuild, want -1", m.ActiveIndex())
	}
}

func TestPatchPositionsPreservesIdentity(t *testing.T) {
	m := newModel(testutil.H(1, "A", 0), testutil.H(2, "B", 5), testutil.H(2, "C", 9))
	before := testutil.Nodes(m)

	err := m.PatchPositions(testutil.Headings(
		testutil.H(1, "A", 2), testutil.H(2, "B", 8), testutil.H(2, "C", 14),
	))
	if err != nil {
		t.Fatalf("PatchPositions: %v", err)
	}

	after := testutil.Nodes(m)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("entry %d node recreated by patch", i)
		}
	}
	wantLines := []int{2, 8, 14}
	for i, e := range m.Entries() {
		if e.SourceLine != wantLines[i] {
			t.Errorf("entry %d source line = %d, want %d", i, e.SourceLine, wantLines[i])
		}
	}
}

func TestPatchPositionsRejectsStructuralChange(t *testing.T) {
	m := newModel(testutil.H(1, "A", 0))
	err := m.PatchPositions(testutil.Headings(testutil.H(1, "B", 0)))
	if !errors.Is(err, outline.ErrStructuralMismatch) {
		t.Errorf("err = %v, want ErrStructuralMismatch", err)
	}
}

func TestSetActiveAncestorChain(t *testing.T) {
	m := newModel(
		testutil.H(1, "A", 0),
		testutil.H(2, "B", 4),
		testutil.H(3, "C", 8),
		testutil.H(2, "D", 12),
	)

	// Active C: A and B are its ancestors, D is not.
	m.SetActive(2)
	testutil.AssertMarks(t, m, "AAa.")

	// Active D: only A qualifies; B sits at D's own level and the walk
	// stops once the level-1 entry is marked.
	m.SetActive(3)
	testutil.AssertMarks(t, m, "A..a")
}

func TestSetActiveDeepChain(t *testing.T) {
	m := newModel(
		testutil.H(1, "A", 0),
		testutil.H(3, "B", 2),
		testutil.H(2, "C", 4),
		testutil.H(4, "D", 6),
		testutil.H(4, "E", 8),
	)

	// Active E: nearest smaller levels walking back are C (2) then A (1);
	// D is a sibling at the same level and B is shadowed by C.
	m.SetActive(4)
	testutil.AssertMarks(t, m, "A.A.a")
}

func TestSetActiveOutOfRange(t *testing.T) {
	m := newModel(testutil.H(1, "A", 0), testutil.H(2, "B", 4))
	m.SetActive(1)
	testutil.AssertMarks(t, m, "Aa")

	m.SetActive(-1)
	testutil.AssertMarks(t, m, "..")
	testutil.AssertActiveIndex(t, m, -1)

	m.SetActive(99)
	testutil.AssertMarks(t, m, "..")
	testutil.AssertActiveIndex(t, m, -1)
}

func TestEmptyOutline(t *testing.T) {
	m := newModel()
	if m.Len() != 0 {
		t.Fatalf("len = %d, want 0", m.Len())
	}
	m.SetActive(0) // must not panic
	testutil.AssertActiveIndex(t, m, -1)
}

func TestClickFiresActivate(t *testing.T) {
	m := newModel(testutil.H(1, "A", 0), testutil.H(2, "B", 4))
	clicked := -1
	m.SetActivateFunc(func(i int) { clicked = i })

	m.Click(1)
	if clicked != 1 {
		t.Errorf("clicked = %d, want 1", clicked)
	}

	clicked = -1
	m.Click(7) // past the last entry
	if clicked != -1 {
		t.Errorf("click past entries fired activate with %d", clicked)
	}
}
