package scheme

import "schemecore/pkg/algebra"

// OpenSubset is a genuine one-level open locus of an ambient scheme, cut
// by the simultaneous non-vanishing of a set of equations in the
// ambient's ring. It is the canonical shape Flatten collapses an
// ancestry chain into.
type OpenSubset struct {
	ambient     DerivedScheme
	complements []algebra.Element
	pres        *algebra.Presentation
}

func newOpenSubset(ambient DerivedScheme, complements []algebra.Element) *OpenSubset {
	pres := ambient.Presentation()
	for _, eq := range complements {
		pres = pres.Localize(eq.Numerator())
	}
	return &OpenSubset{ambient: ambient, complements: complements, pres: pres}
}

// Ambient returns the scheme the subset is an open locus of.
func (o *OpenSubset) Ambient() DerivedScheme { return o.ambient }

// Complements returns the equations cutting the subset, in the ambient's
// ring. Order is not significant.
func (o *OpenSubset) Complements() []algebra.Element {
	out := make([]algebra.Element, len(o.complements))
	copy(out, o.complements)
	return out
}

// Presentation returns the subset's localized coordinate ring.
func (o *OpenSubset) Presentation() *algebra.Presentation { return o.pres }

// Flatten collapses u's ancestry chain into a single one-level open
// subset of the atlas member it derives from, returning the subset and an
// isomorphism u -> subset whose inverse is registered in the cached
// inverse slot.
//
// The state threaded through the walk is the current ancestor together
// with the open-subset representation of u inside it, initialized
// trivially: u identified with itself restricted by the unit. Open-view
// levels merge complement equations by numerator extraction into the next
// ambient ring; simplified-view levels re-express them through the
// identification's change-of-basis pullback and rebase the isomorphism's
// generator images accordingly.
func Flatten(u DerivedScheme, atlas *Atlas) (*OpenSubset, *Morphism, error) {
	cur := u
	var eqs []algebra.Element // complements of the subset, in cur's ring
	uuPres := u.Presentation()
	fwd := Identity(u.Presentation())
	bwd := Identity(u.Presentation())
	RegisterInversePair(fwd, bwd)

	for {
		if atlas.Contains(cur) {
			subset := &OpenSubset{ambient: cur, complements: eqs, pres: uuPres}
			return subset, fwd, nil
		}
		switch n := cur.(type) {
		case *RootPatch:
			return nil, nil, &UnresolvedAncestryError{Scheme: u, Terminal: n}
		case *OpenView:
			w := n.Ambient()
			wp := w.Presentation()
			newEqs := make([]algebra.Element, 0, len(eqs)+1)
			for _, eq := range eqs {
				newEqs = append(newEqs, algebra.NewElement(wp, eq.Numerator()))
			}
			newEqs = append(newEqs, algebra.NewElement(wp, n.Complement().Numerator()))
			wvPres := localizeAll(wp, newEqs)

			// The view and its ambient share coordinates, so the step
			// isomorphism is the identity on generators.
			step := NewMorphism(uuPres, wvPres, algebra.InclusionMap(wvPres, uuPres))
			stepInv := NewMorphism(wvPres, uuPres, algebra.InclusionMap(uuPres, wvPres))

			fwd = Compose(step, fwd)
			bwd = Compose(bwd, stepInv)
			RegisterInversePair(fwd, bwd)
			eqs, uuPres, cur = newEqs, wvPres, w
		case *SimplifiedView:
			w := n.Original()
			wp := w.Presentation()
			vp := n.Presentation()
			pull := n.ToSimplified().Pullback() // R(view) -> R(original)
			newEqs := make([]algebra.Element, 0, len(eqs))
			for _, eq := range eqs {
				newEqs = append(newEqs, pull.Apply(eq.Transport(vp)))
			}
			wvPres := localizeAll(wp, newEqs)

			// Generator images of the identification pair, rebased onto
			// the localized presentations on both sides.
			down := transportImages(n.ToOriginal().Pullback().Images(), uuPres)
			up := transportImages(pull.Images(), wvPres)
			step := NewMorphism(uuPres, wvPres, algebra.NewRingMap(wvPres, uuPres, down))
			stepInv := NewMorphism(wvPres, uuPres, algebra.NewRingMap(uuPres, wvPres, up))

			fwd = Compose(step, fwd)
			bwd = Compose(bwd, stepInv)
			RegisterInversePair(fwd, bwd)
			eqs, uuPres, cur = newEqs, wvPres, w
		}
	}
}

func localizeAll(p *algebra.Presentation, eqs []algebra.Element) *algebra.Presentation {
	for _, eq := range eqs {
		p = p.Localize(eq.Numerator())
	}
	return p
}

func transportImages(images []algebra.Element, target *algebra.Presentation) []algebra.Element {
	out := make([]algebra.Element, len(images))
	for i, img := range images {
		out[i] = img.Transport(target)
	}
	return out
}
