package scheme

import "schemecore/pkg/algebra"

// FindChart locates the atlas member u ultimately derives from. It
// returns the composite morphism u -> patch together with the list of
// elements of the patch's ring whose simultaneous non-vanishing is
// required for u to equal the corresponding open locus.
//
// Open-view levels transport equations by numerator extraction, valid
// because a view and its ambient parent share the same underlying free
// presentation. Simplified-view levels transport by the identification's
// change-of-basis pullback instead; numerator extraction does not apply
// across a simplification boundary. The morphism under construction keeps
// domain u throughout, growing by composition on the codomain side, and
// the equation list is always expressed in the current target's ring.
func FindChart(u DerivedScheme, atlas *Atlas) (*Morphism, []algebra.Element, error) {
	mor := Identity(u.Presentation())
	var eqs []algebra.Element
	cur := u
	for {
		if atlas.Contains(cur) {
			return mor, eqs, nil
		}
		switch n := cur.(type) {
		case *RootPatch:
			return nil, nil, &UnresolvedAncestryError{Scheme: u, Terminal: n}
		case *OpenView:
			w := n.Ambient()
			wp := w.Presentation()
			for i, eq := range eqs {
				eqs[i] = algebra.NewElement(wp, eq.Numerator())
			}
			eqs = append(eqs, algebra.NewElement(wp, n.Complement().Numerator()))
			mor = Compose(n.InclusionMorphism(), mor)
			cur = w
		case *SimplifiedView:
			w := n.Original()
			pull := n.ToSimplified().Pullback() // R(view) -> R(original)
			for i, eq := range eqs {
				eqs[i] = pull.Apply(eq)
			}
			mor = Compose(n.ToOriginal(), mor)
			cur = w
		}
	}
}
