package scheme

import (
	"errors"
	"testing"

	"schemecore/pkg/algebra"
)

func TestFlattenCollapsesMixedChain(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	subset, iso, err := Flatten(leaf, atlas)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if subset.Ambient() != patch {
		t.Fatalf("subset ambient must be the resolved atlas member")
	}
	if iso.Domain() != leaf.Presentation() || iso.Codomain() != subset.Presentation() {
		t.Fatalf("isomorphism endpoints wrong")
	}

	// Same two cutting equations FindChart accumulates, as a set.
	wantSet := []algebra.Polynomial{algebra.Var(3, 0), algebra.Var(3, 1)}
	if !sameEquationSet(subset.Complements(), wantSet) {
		t.Fatalf("unexpected complement set: %v", subset.Complements())
	}

	// Both directions cached as each other's inverse.
	inv, ok := iso.Inverse()
	if !ok {
		t.Fatalf("flatten must cache the inverse isomorphism")
	}
	if back, ok := inv.Inverse(); !ok || back != iso {
		t.Fatalf("inverse registration must be mutual")
	}
	if inv.Domain() != subset.Presentation() || inv.Codomain() != leaf.Presentation() {
		t.Fatalf("inverse endpoints wrong")
	}
}

func TestFlattenRoundTripIsIdentityOnLeafGenerators(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	_, iso, err := Flatten(leaf, atlas)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	inv, ok := iso.Inverse()
	if !ok {
		t.Fatalf("missing cached inverse")
	}

	round := Compose(inv, iso)
	lp := leaf.Presentation()
	for i := 0; i < lp.NumGens(); i++ {
		if got := round.Pullback().Apply(lp.Gen(i)); !got.Equal(lp.Gen(i)) {
			t.Fatalf("round trip moved generator %d: %s", i, got)
		}
	}
}

func TestFlattenTrivialOnAtlasMember(t *testing.T) {
	patch, atlas := twistedPatch()

	subset, iso, err := Flatten(patch, atlas)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if subset.Ambient() != patch || len(subset.Complements()) != 0 {
		t.Fatalf("atlas member flattens to itself with no cutting equations")
	}
	if iso.Domain() != patch.Presentation() || iso.Codomain() != patch.Presentation() {
		t.Fatalf("expected the trivial identification")
	}
	if _, ok := iso.Inverse(); !ok {
		t.Fatalf("even the trivial identification caches its inverse")
	}
}

func TestFlattenIdempotence(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	first, _, err := Flatten(leaf, atlas)
	if err != nil {
		t.Fatalf("first flatten: %v", err)
	}
	second, _, err := Flatten(leaf, atlas)
	if err != nil {
		t.Fatalf("second flatten: %v", err)
	}

	firstNums := make([]algebra.Polynomial, 0, len(first.Complements()))
	for _, eq := range first.Complements() {
		firstNums = append(firstNums, eq.Numerator())
	}
	if !sameEquationSet(second.Complements(), firstNums) {
		t.Fatalf("flatten is not idempotent on complement sets: %v vs %v", first.Complements(), second.Complements())
	}
	if first.Ambient() != second.Ambient() {
		t.Fatalf("flatten resolved different ambient patches")
	}
}

func TestFlattenUnresolvedAncestry(t *testing.T) {
	_, atlas := twistedPatch()
	orphan := NewRootPatch("orphan", algebra.NewPresentation([]string{"t"}, nil))
	view := Restrict(orphan, orphan.Presentation().Gen(0))

	_, _, err := Flatten(view, atlas)
	var unresolved *UnresolvedAncestryError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedAncestryError, got %v", err)
	}
}

func TestFlattenAgreesWithFindChart(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, leaf := mixedChain(patch)

	_, eqs, err := FindChart(leaf, atlas)
	if err != nil {
		t.Fatalf("find chart: %v", err)
	}
	subset, _, err := Flatten(leaf, atlas)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	nums := make([]algebra.Polynomial, 0, len(eqs))
	for _, eq := range eqs {
		nums = append(nums, eq.Numerator())
	}
	if !sameEquationSet(subset.Complements(), nums) {
		t.Fatalf("flatten and find_chart disagree on the cutting equations")
	}
}
