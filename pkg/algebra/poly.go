// Package algebra provides the ring, presentation, and homomorphism
// primitives consumed by the derived-scheme core: sparse multivariate
// polynomials, localized quotient presentations, ring elements with
// numerator extraction, and homomorphisms built from generator images.
package algebra

import (
	"fmt"
	"sort"
	"strings"
)

// Term is a single monomial with an integer coefficient. Exps holds one
// exponent per ring generator.
type Term struct {
	Coef int64
	Exps []int
}

// Polynomial is an immutable sparse multivariate polynomial with int64
// coefficients. Terms are kept normalized: merged, zero-free, and sorted
// in descending lexicographic exponent order.
type Polynomial struct {
	nvars int
	terms []Term
}

// Zero returns the zero polynomial in nvars variables.
func Zero(nvars int) Polynomial {
	return Polynomial{nvars: nvars}
}

// Constant returns the constant polynomial c in nvars variables.
func Constant(nvars int, c int64) Polynomial {
	if c == 0 {
		return Zero(nvars)
	}
	return Polynomial{nvars: nvars, terms: []Term{{Coef: c, Exps: make([]int, nvars)}}}
}

// Var returns the i-th generator as a polynomial in nvars variables.
func Var(nvars, i int) Polynomial {
	if i < 0 || i >= nvars {
		panic(fmt.Sprintf("algebra: variable index %d out of range [0,%d)", i, nvars))
	}
	exps := make([]int, nvars)
	exps[i] = 1
	return Polynomial{nvars: nvars, terms: []Term{{Coef: 1, Exps: exps}}}
}

// NewPolynomial builds a normalized polynomial from raw terms. Every term
// must carry exactly nvars exponents.
func NewPolynomial(nvars int, terms []Term) Polynomial {
	cp := make([]Term, 0, len(terms))
	for _, t := range terms {
		if len(t.Exps) != nvars {
			panic(fmt.Sprintf("algebra: term has %d exponents, want %d", len(t.Exps), nvars))
		}
		exps := make([]int, nvars)
		copy(exps, t.Exps)
		cp = append(cp, Term{Coef: t.Coef, Exps: exps})
	}
	return normalize(Polynomial{nvars: nvars, terms: cp})
}

func expLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func expEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func normalize(p Polynomial) Polynomial {
	if len(p.terms) == 0 {
		return Polynomial{nvars: p.nvars}
	}
	sort.SliceStable(p.terms, func(i, j int) bool {
		return expLess(p.terms[j].Exps, p.terms[i].Exps)
	})
	out := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		if n := len(out); n > 0 && expEqual(out[n-1].Exps, t.Exps) {
			out[n-1].Coef += t.Coef
			continue
		}
		out = append(out, t)
	}
	kept := out[:0]
	for _, t := range out {
		if t.Coef != 0 {
			kept = append(kept, t)
		}
	}
	return Polynomial{nvars: p.nvars, terms: kept}
}

// NumVars reports the number of ring generators the polynomial ranges over.
func (p Polynomial) NumVars() int { return p.nvars }

// Terms returns a defensive copy of the normalized term list.
func (p Polynomial) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		exps := make([]int, len(t.Exps))
		copy(exps, t.Exps)
		out[i] = Term{Coef: t.Coef, Exps: exps}
	}
	return out
}

// IsZero reports whether the polynomial has no terms.
func (p Polynomial) IsZero() bool { return len(p.terms) == 0 }

// IsOne reports whether the polynomial is the constant one.
func (p Polynomial) IsOne() bool {
	if len(p.terms) != 1 || p.terms[0].Coef != 1 {
		return false
	}
	for _, e := range p.terms[0].Exps {
		if e != 0 {
			return false
		}
	}
	return true
}

// Equal reports structural equality of normalized polynomials.
func (p Polynomial) Equal(q Polynomial) bool {
	if p.nvars != q.nvars || len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Coef != q.terms[i].Coef || !expEqual(p.terms[i].Exps, q.terms[i].Exps) {
			return false
		}
	}
	return true
}

// ContainsVar reports whether generator i occurs in any term.
func (p Polynomial) ContainsVar(i int) bool {
	for _, t := range p.terms {
		if t.Exps[i] != 0 {
			return true
		}
	}
	return false
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	if p.nvars != q.nvars {
		panic("algebra: adding polynomials over different variable counts")
	}
	terms := make([]Term, 0, len(p.terms)+len(q.terms))
	terms = append(terms, p.Terms()...)
	terms = append(terms, q.Terms()...)
	return normalize(Polynomial{nvars: p.nvars, terms: terms})
}

// Sub returns p - q.
func (p Polynomial) Sub(q Polynomial) Polynomial { return p.Add(q.Neg()) }

// Neg returns -p.
func (p Polynomial) Neg() Polynomial {
	terms := p.Terms()
	for i := range terms {
		terms[i].Coef = -terms[i].Coef
	}
	return Polynomial{nvars: p.nvars, terms: terms}
}

// Mul returns p * q.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	if p.nvars != q.nvars {
		panic("algebra: multiplying polynomials over different variable counts")
	}
	terms := make([]Term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			exps := make([]int, p.nvars)
			for i := range exps {
				exps[i] = a.Exps[i] + b.Exps[i]
			}
			terms = append(terms, Term{Coef: a.Coef * b.Coef, Exps: exps})
		}
	}
	return normalize(Polynomial{nvars: p.nvars, terms: terms})
}

// Pow returns p raised to the non-negative power n.
func (p Polynomial) Pow(n int) Polynomial {
	if n < 0 {
		panic("algebra: negative polynomial power")
	}
	out := Constant(p.nvars, 1)
	for i := 0; i < n; i++ {
		out = out.Mul(p)
	}
	return out
}

// Substitute maps generator i to images[i] and returns the resulting
// polynomial over the images' variable count. It is the workhorse behind
// homomorphism application and generator elimination; images may range
// over a different number of variables than p.
func (p Polynomial) Substitute(nvars int, images []Polynomial) Polynomial {
	if len(images) != p.nvars {
		panic(fmt.Sprintf("algebra: substitution needs %d images, got %d", p.nvars, len(images)))
	}
	out := Zero(nvars)
	for _, t := range p.terms {
		part := Constant(nvars, t.Coef)
		for i, e := range t.Exps {
			if e != 0 {
				part = part.Mul(images[i].Pow(e))
			}
		}
		out = out.Add(part)
	}
	return out
}

// SubstituteVar replaces generator i by q, keeping the variable count.
func (p Polynomial) SubstituteVar(i int, q Polynomial) Polynomial {
	images := make([]Polynomial, p.nvars)
	for j := range images {
		if j == i {
			images[j] = q
		} else {
			images[j] = Var(p.nvars, j)
		}
	}
	return p.Substitute(p.nvars, images)
}

// DropVar removes generator i, which must not occur in p, renumbering the
// remaining generators downward.
func (p Polynomial) DropVar(i int) Polynomial {
	if p.ContainsVar(i) {
		panic(fmt.Sprintf("algebra: cannot drop occurring variable %d", i))
	}
	images := make([]Polynomial, p.nvars)
	for j := range images {
		switch {
		case j < i:
			images[j] = Var(p.nvars-1, j)
		case j == i:
			images[j] = Zero(p.nvars - 1)
		default:
			images[j] = Var(p.nvars-1, j-1)
		}
	}
	return p.Substitute(p.nvars-1, images)
}

// String renders the polynomial with the supplied generator names, or
// x0..xN when names is nil.
func (p Polynomial) String(names []string) string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, t := range p.terms {
		coef := t.Coef
		if i == 0 {
			if coef < 0 {
				b.WriteString("-")
				coef = -coef
			}
		} else {
			if coef < 0 {
				b.WriteString(" - ")
				coef = -coef
			} else {
				b.WriteString(" + ")
			}
		}
		var factors []string
		for j, e := range t.Exps {
			if e == 0 {
				continue
			}
			name := fmt.Sprintf("x%d", j)
			if names != nil {
				name = names[j]
			}
			if e == 1 {
				factors = append(factors, name)
			} else {
				factors = append(factors, fmt.Sprintf("%s^%d", name, e))
			}
		}
		if len(factors) == 0 {
			fmt.Fprintf(&b, "%d", coef)
			continue
		}
		if coef != 1 {
			fmt.Fprintf(&b, "%d*", coef)
		}
		b.WriteString(strings.Join(factors, "*"))
	}
	return b.String()
}
