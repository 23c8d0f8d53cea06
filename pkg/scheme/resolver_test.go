package scheme

import (
	"errors"
	"testing"

	"schemecore/pkg/algebra"
)

func TestFindChartOnMixedChain(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	mor, eqs, err := FindChart(leaf, atlas)
	if err != nil {
		t.Fatalf("find chart: %v", err)
	}
	if mor.Domain() != leaf.Presentation() {
		t.Fatalf("morphism domain must stay the leaf throughout")
	}
	if mor.Codomain() != patch.Presentation() {
		t.Fatalf("morphism codomain must be the atlas member's ring")
	}

	// One equation per open-view level; the simplified level contributes
	// none.
	if len(eqs) != 2 {
		t.Fatalf("expected 2 equations, got %d", len(eqs))
	}
	rp := patch.Presentation()
	for i, eq := range eqs {
		if eq.Presentation() != rp {
			t.Fatalf("equation %d not expressed in the root's ring", i)
		}
	}
	wantSet := []algebra.Polynomial{algebra.Var(3, 0), algebra.Var(3, 1)}
	if !sameEquationSet(eqs, wantSet) {
		t.Fatalf("unexpected equation set: %v", eqs)
	}
}

func TestFindChartTransportsThroughSimplification(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	mor, _, err := FindChart(leaf, atlas)
	if err != nil {
		t.Fatalf("find chart: %v", err)
	}

	// The eliminated generator z pulls back to x*y in the leaf's ring.
	z := patch.Presentation().Gen(2)
	img := mor.Pullback().Apply(z)
	leafPres := leaf.Presentation()
	want := algebra.NewElement(leafPres, algebra.Var(2, 0).Mul(algebra.Var(2, 1)))
	if !img.Equal(want) {
		t.Fatalf("expected z to pull back to x*y, got %s", img)
	}
}

func TestFindChartBaseCaseIsIdentity(t *testing.T) {
	patch, atlas := twistedPatch()
	mor, eqs, err := FindChart(patch, atlas)
	if err != nil {
		t.Fatalf("find chart: %v", err)
	}
	if len(eqs) != 0 {
		t.Fatalf("atlas member resolves with no equations, got %d", len(eqs))
	}
	if mor.Domain() != patch.Presentation() || mor.Codomain() != patch.Presentation() {
		t.Fatalf("expected the identity on the patch")
	}
	for i := 0; i < 3; i++ {
		g := patch.Presentation().Gen(i)
		if !mor.Pullback().Apply(g).Equal(g) {
			t.Fatalf("identity moved generator %d", i)
		}
	}
}

func TestFindChartUnresolvedAncestry(t *testing.T) {
	_, atlas := twistedPatch()

	orphan := NewRootPatch("orphan", algebra.NewPresentation([]string{"t"}, nil))
	view := Restrict(orphan, orphan.Presentation().Gen(0))

	_, _, err := FindChart(view, atlas)
	var unresolved *UnresolvedAncestryError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedAncestryError, got %v", err)
	}
	if unresolved.Scheme != view || unresolved.Terminal != orphan {
		t.Fatalf("error should carry the origin and the stranded terminal")
	}
}

// sameEquationSet compares equation numerators as sets.
func sameEquationSet(eqs []algebra.Element, want []algebra.Polynomial) bool {
	if len(eqs) != len(want) {
		return false
	}
	used := make([]bool, len(want))
	for _, eq := range eqs {
		found := false
		for i, w := range want {
			if !used[i] && eq.Numerator().Equal(w) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
