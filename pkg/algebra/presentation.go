package algebra

import (
	"fmt"
	"strings"
)

// Presentation describes a ring as a polynomial ring modulo an ideal,
// possibly with some elements inverted. Instances are immutable; derived
// presentations are produced by Localize.
type Presentation struct {
	gens  []string
	rels  []Polynomial
	units []Polynomial
}

// NewPresentation builds a quotient presentation from generator names and
// ideal generators. Relations must range over exactly len(gens) variables.
func NewPresentation(gens []string, rels []Polynomial) *Presentation {
	g := make([]string, len(gens))
	copy(g, gens)
	r := make([]Polynomial, 0, len(rels))
	for _, rel := range rels {
		if rel.NumVars() != len(gens) {
			panic(fmt.Sprintf("algebra: relation over %d variables in a %d-generator presentation", rel.NumVars(), len(gens)))
		}
		if !rel.IsZero() {
			r = append(r, rel)
		}
	}
	return &Presentation{gens: g, rels: r}
}

// Localize returns a coordinate-compatible presentation with h inverted in
// addition to the receiver's existing units. The generator list and
// relations are shared unchanged, so elements transport between the two
// presentations by numerator extraction.
func (p *Presentation) Localize(h Polynomial) *Presentation {
	if h.NumVars() != len(p.gens) {
		panic(fmt.Sprintf("algebra: localizing at a polynomial over %d variables, want %d", h.NumVars(), len(p.gens)))
	}
	units := make([]Polynomial, 0, len(p.units)+1)
	units = append(units, p.units...)
	units = append(units, h)
	return &Presentation{gens: p.gens, rels: p.rels, units: units}
}

// NumGens reports the number of ring generators.
func (p *Presentation) NumGens() int { return len(p.gens) }

// Generators returns a copy of the generator names.
func (p *Presentation) Generators() []string {
	out := make([]string, len(p.gens))
	copy(out, p.gens)
	return out
}

// Relations returns a copy of the ideal generators.
func (p *Presentation) Relations() []Polynomial {
	out := make([]Polynomial, len(p.rels))
	copy(out, p.rels)
	return out
}

// Units returns a copy of the inverted elements.
func (p *Presentation) Units() []Polynomial {
	out := make([]Polynomial, len(p.units))
	copy(out, p.units)
	return out
}

// Gen returns the i-th generator as a ring element.
func (p *Presentation) Gen(i int) Element {
	return NewElement(p, Var(len(p.gens), i))
}

// One returns the multiplicative unit of the ring.
func (p *Presentation) One() Element {
	return NewElement(p, Constant(len(p.gens), 1))
}

// SameCoordinates reports whether two presentations share generator names
// and relations, differing at most in which elements are inverted. Views
// related this way exchange elements by plain numerator transport.
func (p *Presentation) SameCoordinates(q *Presentation) bool {
	if p == q {
		return true
	}
	if len(p.gens) != len(q.gens) || len(p.rels) != len(q.rels) {
		return false
	}
	for i := range p.gens {
		if p.gens[i] != q.gens[i] {
			return false
		}
	}
	for i := range p.rels {
		if !p.rels[i].Equal(q.rels[i]) {
			return false
		}
	}
	return true
}

// Reduce rewrites a polynomial to a normal form by repeatedly substituting
// relations of the shape x - q with q free of x. This is a rewriting aid
// for equality checks on elimination-style ideals, not an ideal-membership
// decision procedure.
func (p *Presentation) Reduce(poly Polynomial) Polynomial {
	n := len(p.gens)
	for pass := 0; pass < n; pass++ {
		changed := false
		for _, rel := range p.rels {
			i, q, ok := isolateGenerator(rel)
			if !ok {
				continue
			}
			if poly.ContainsVar(i) {
				poly = poly.SubstituteVar(i, q)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return poly
}

// isolateGenerator recognizes relations of the form c*x_i + rest with
// c = ±1 and x_i absent from rest, returning (i, solution for x_i, true).
func isolateGenerator(rel Polynomial) (int, Polynomial, bool) {
	n := rel.NumVars()
	terms := rel.Terms()
	for _, t := range terms {
		if t.Coef != 1 && t.Coef != -1 {
			continue
		}
		i, single := -1, true
		for j, e := range t.Exps {
			if e == 0 {
				continue
			}
			if e != 1 || i != -1 {
				single = false
				break
			}
			i = j
		}
		if !single || i == -1 {
			continue
		}
		rest := Zero(n)
		occupied := false
		for _, o := range terms {
			if expEqual(o.Exps, t.Exps) {
				continue
			}
			if o.Exps[i] != 0 {
				occupied = true
				break
			}
			rest = rest.Add(NewPolynomial(n, []Term{o}))
		}
		if occupied {
			continue
		}
		// c*x_i + rest = 0  =>  x_i = -rest/c
		if t.Coef == 1 {
			rest = rest.Neg()
		}
		return i, rest, true
	}
	return 0, Polynomial{}, false
}

// String renders the presentation for diagnostics.
func (p *Presentation) String() string {
	var b strings.Builder
	b.WriteString("k[")
	b.WriteString(strings.Join(p.gens, ","))
	b.WriteString("]")
	if len(p.rels) > 0 {
		parts := make([]string, len(p.rels))
		for i, r := range p.rels {
			parts[i] = r.String(p.gens)
		}
		fmt.Fprintf(&b, "/(%s)", strings.Join(parts, ", "))
	}
	if len(p.units) > 0 {
		parts := make([]string, len(p.units))
		for i, u := range p.units {
			parts[i] = u.String(p.gens)
		}
		fmt.Fprintf(&b, "[1/(%s)]", strings.Join(parts, "*"))
	}
	return b.String()
}
