package algebra

import "fmt"

// Element is a ring element of a presentation, stored as a fraction
// num/den. The denominator is trusted to be a unit of the presentation's
// localization; no invertibility check is performed here (violations
// surface later, at point of use).
type Element struct {
	pres *Presentation
	num  Polynomial
	den  Polynomial
}

// NewElement wraps a polynomial as an element with denominator one.
func NewElement(pres *Presentation, num Polynomial) Element {
	if num.NumVars() != pres.NumGens() {
		panic(fmt.Sprintf("algebra: element over %d variables in a %d-generator ring", num.NumVars(), pres.NumGens()))
	}
	return Element{pres: pres, num: num, den: Constant(pres.NumGens(), 1)}
}

// NewFraction wraps num/den as an element; den is trusted invertible.
func NewFraction(pres *Presentation, num, den Polynomial) Element {
	if num.NumVars() != pres.NumGens() || den.NumVars() != pres.NumGens() {
		panic("algebra: fraction variable count does not match presentation")
	}
	if den.IsZero() {
		panic("algebra: zero denominator")
	}
	return Element{pres: pres, num: num, den: den}
}

// Presentation returns the ring the element belongs to.
func (e Element) Presentation() *Presentation { return e.pres }

// Numerator extracts the numerator polynomial relative to the
// localization. For elements with denominator one this is the element
// itself as a polynomial.
func (e Element) Numerator() Polynomial { return e.num }

// Denominator returns the denominator polynomial.
func (e Element) Denominator() Polynomial { return e.den }

// Transport re-roots the element in a coordinate-compatible presentation.
// Valid whenever the two presentations share the same underlying free
// presentation and differ only in which elements are inverted; the caller
// is responsible for that compatibility.
func (e Element) Transport(target *Presentation) Element {
	return Element{pres: target, num: e.num, den: e.den}
}

// Add returns e + f.
func (e Element) Add(f Element) Element {
	mustShareRing(e, f)
	num := e.num.Mul(f.den).Add(f.num.Mul(e.den))
	return Element{pres: e.pres, num: num, den: e.den.Mul(f.den)}
}

// Sub returns e - f.
func (e Element) Sub(f Element) Element { return e.Add(f.Neg()) }

// Neg returns -e.
func (e Element) Neg() Element {
	return Element{pres: e.pres, num: e.num.Neg(), den: e.den}
}

// Mul returns e * f.
func (e Element) Mul(f Element) Element {
	mustShareRing(e, f)
	return Element{pres: e.pres, num: e.num.Mul(f.num), den: e.den.Mul(f.den)}
}

// Div returns e / f; f is trusted to be a unit.
func (e Element) Div(f Element) Element {
	mustShareRing(e, f)
	if f.num.IsZero() {
		panic("algebra: division by zero element")
	}
	return Element{pres: e.pres, num: e.num.Mul(f.den), den: e.den.Mul(f.num)}
}

// Pow returns e raised to the non-negative power n.
func (e Element) Pow(n int) Element {
	out := e.pres.One()
	for i := 0; i < n; i++ {
		out = out.Mul(e)
	}
	return out
}

// IsZero reports whether the numerator vanishes identically.
func (e Element) IsZero() bool { return e.num.IsZero() }

// Equal compares elements by reduced cross-multiplication: a/b equals c/d
// when a*d - c*b reduces to zero under the presentation's rewriting
// relations. Sufficient for the elimination-style presentations this core
// produces; not a general ideal-membership test.
func (e Element) Equal(f Element) bool {
	mustShareRing(e, f)
	diff := e.num.Mul(f.den).Sub(f.num.Mul(e.den))
	return e.pres.Reduce(diff).IsZero()
}

// String renders the element with the presentation's generator names.
func (e Element) String() string {
	if e.den.IsOne() {
		return e.num.String(e.pres.gens)
	}
	return fmt.Sprintf("(%s)/(%s)", e.num.String(e.pres.gens), e.den.String(e.pres.gens))
}

func mustShareRing(e, f Element) {
	if e.pres != f.pres {
		panic("algebra: elements belong to different presentations")
	}
}

// evalPoly evaluates a polynomial at the supplied images, all of which
// must live in pres.
func evalPoly(p Polynomial, pres *Presentation, images []Element) Element {
	out := NewElement(pres, Constant(pres.NumGens(), 0))
	for _, t := range p.Terms() {
		part := NewElement(pres, Constant(pres.NumGens(), t.Coef))
		for i, e := range t.Exps {
			if e != 0 {
				part = part.Mul(images[i].Pow(e))
			}
		}
		out = out.Add(part)
	}
	return out
}
