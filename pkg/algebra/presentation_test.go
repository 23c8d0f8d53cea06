package algebra

import "testing"

// parabolaPresentation builds k[x,y]/(y - x^2), which has an eliminable
// generator.
func parabolaPresentation() *Presentation {
	x2 := Var(2, 0).Pow(2)
	rel := Var(2, 1).Sub(x2)
	return NewPresentation([]string{"x", "y"}, []Polynomial{rel})
}

func TestLocalizeKeepsCoordinates(t *testing.T) {
	p := parabolaPresentation()
	h := Var(2, 0)
	loc := p.Localize(h)

	if !p.SameCoordinates(loc) {
		t.Fatalf("localization should stay coordinate-compatible")
	}
	if len(loc.Units()) != 1 || !loc.Units()[0].Equal(h) {
		t.Fatalf("expected exactly the localized unit, got %v", loc.Units())
	}
	if len(p.Units()) != 0 {
		t.Fatalf("localize must not mutate the receiver")
	}
}

func TestReduceRewritesEliminableGenerator(t *testing.T) {
	p := parabolaPresentation()

	// y reduces to x^2 under the relation y - x^2.
	y := Var(2, 1)
	got := p.Reduce(y)
	if !got.Equal(Var(2, 0).Pow(2)) {
		t.Fatalf("expected y to reduce to x^2, got %s", got.String(p.Generators()))
	}

	// y^2 - x^4 reduces to zero.
	diff := y.Pow(2).Sub(Var(2, 0).Pow(4))
	if !p.Reduce(diff).IsZero() {
		t.Fatalf("expected y^2 - x^4 to reduce to zero, got %s", p.Reduce(diff).String(nil))
	}
}

func TestIsolateGeneratorRejectsNonLinearRelations(t *testing.T) {
	// x^2 - y is linear in y, not in x: isolation must pick y.
	rel := Var(2, 0).Pow(2).Sub(Var(2, 1))
	i, q, ok := isolateGenerator(rel)
	if !ok {
		t.Fatalf("expected isolation to succeed")
	}
	if i != 1 {
		t.Fatalf("expected generator 1 to be isolated, got %d", i)
	}
	if !q.Equal(Var(2, 0).Pow(2)) {
		t.Fatalf("expected solution x^2, got %s", q.String(nil))
	}

	// x^2 + y^2 - 1 isolates nothing.
	circle := Var(2, 0).Pow(2).Add(Var(2, 1).Pow(2)).Sub(Constant(2, 1))
	if _, _, ok := isolateGenerator(circle); ok {
		t.Fatalf("circle relation should not isolate a generator")
	}
}

func TestPresentationString(t *testing.T) {
	p := parabolaPresentation().Localize(Var(2, 0))
	got := p.String()
	want := "k[x,y]/(-x^2 + y)[1/(x)]"
	if got != want {
		t.Fatalf("unexpected rendering: got %q want %q", got, want)
	}
}
