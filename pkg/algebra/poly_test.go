package algebra

import "testing"

func TestPolynomialArithmeticNormalizes(t *testing.T) {
	x := Var(2, 0)
	y := Var(2, 1)

	p := x.Mul(x).Add(y.Mul(x)).Sub(x.Mul(y))
	if !p.Equal(x.Pow(2)) {
		t.Fatalf("expected x^2 after cancellation, got %s", p.String(nil))
	}

	sum := x.Add(x).Add(x)
	want := NewPolynomial(2, []Term{{Coef: 3, Exps: []int{1, 0}}})
	if !sum.Equal(want) {
		t.Fatalf("expected 3*x0, got %s", sum.String(nil))
	}

	if !x.Sub(x).IsZero() {
		t.Fatalf("expected x - x to be zero")
	}
}

func TestPolynomialSubstituteAcrossVariableCounts(t *testing.T) {
	// p = x0*x1 + x1^2 over two variables.
	p := Var(2, 0).Mul(Var(2, 1)).Add(Var(2, 1).Pow(2))

	// x0 -> t, x1 -> t+1 over a single variable.
	tv := Var(1, 0)
	images := []Polynomial{tv, tv.Add(Constant(1, 1))}
	got := p.Substitute(1, images)

	// t*(t+1) + (t+1)^2 = 2t^2 + 3t + 1.
	want := NewPolynomial(1, []Term{
		{Coef: 2, Exps: []int{2}},
		{Coef: 3, Exps: []int{1}},
		{Coef: 1, Exps: []int{0}},
	})
	if !got.Equal(want) {
		t.Fatalf("substitution mismatch: got %s want %s", got.String(nil), want.String(nil))
	}
}

func TestPolynomialDropVar(t *testing.T) {
	// x0 + x2 over three variables; dropping x1 renumbers x2 -> x1.
	p := Var(3, 0).Add(Var(3, 2))
	got := p.DropVar(1)
	want := Var(2, 0).Add(Var(2, 1))
	if !got.Equal(want) {
		t.Fatalf("drop-var mismatch: got %s want %s", got.String(nil), want.String(nil))
	}
}

func TestPolynomialStringRendering(t *testing.T) {
	p := Var(2, 0).Pow(2).Mul(Constant(2, 3)).Sub(Var(2, 1)).Add(Constant(2, 1))
	got := p.String([]string{"u", "v"})
	if got != "3*u^2 - v + 1" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if s := Zero(2).String(nil); s != "0" {
		t.Fatalf("zero should render as 0, got %q", s)
	}
}
