package algebra

// Simplifier reduces a ring presentation, returning the reduced
// presentation together with mutually inverse homomorphisms witnessing the
// isomorphism: f maps the reduced ring back into the original, g maps the
// original onto the reduced ring. The output uses no more generators than
// the input and the maps are trusted to be true inverses by all downstream
// code. Output need not be deterministic across implementations; it must
// terminate.
type Simplifier interface {
	Simplify(p *Presentation) (l *Presentation, f, g *RingMap)
}

// EliminationSimplifier removes generators that are solved for by a
// relation of the shape ±(x - q) with q free of x, substituting q into the
// remaining relations and inverted elements. Repeats until no further
// generator is eliminable.
type EliminationSimplifier struct{}

// Simplify implements Simplifier.
func (EliminationSimplifier) Simplify(p *Presentation) (*Presentation, *RingMap, *RingMap) {
	cur := p
	f := IdentityMap(p)
	g := IdentityMap(p)
	for {
		next, fs, gs, ok := eliminateOnce(cur)
		if !ok {
			return cur, f, g
		}
		// f: next -> p grows on the outside, g: p -> next on the inside.
		f = ComposeRing(f, fs)
		g = ComposeRing(gs, g)
		cur = next
	}
}

// eliminateOnce performs a single generator elimination, returning the
// smaller presentation and the step isomorphisms fs: l -> p and
// gs: p -> l. ok is false when no relation isolates a generator.
func eliminateOnce(p *Presentation) (l *Presentation, fs, gs *RingMap, ok bool) {
	rels := p.Relations()
	for k, rel := range rels {
		i, q, isolated := isolateGenerator(rel)
		if !isolated {
			continue
		}
		n := p.NumGens()

		gens := make([]string, 0, n-1)
		for j, name := range p.Generators() {
			if j != i {
				gens = append(gens, name)
			}
		}
		var newRels []Polynomial
		for j, r := range rels {
			if j == k {
				continue
			}
			sub := r.SubstituteVar(i, q).DropVar(i)
			if !sub.IsZero() {
				newRels = append(newRels, sub)
			}
		}
		l = NewPresentation(gens, newRels)
		for _, u := range p.Units() {
			l = l.Localize(u.SubstituteVar(i, q).DropVar(i))
		}

		// fs sends each surviving generator of l to the generator it
		// came from; gs collapses x_i onto its solution q.
		fImages := make([]Element, n-1)
		gImages := make([]Element, n)
		for j := 0; j < n; j++ {
			switch {
			case j < i:
				fImages[j] = p.Gen(j)
				gImages[j] = l.Gen(j)
			case j == i:
				gImages[j] = NewElement(l, q.DropVar(i))
			default:
				fImages[j-1] = p.Gen(j)
				gImages[j] = l.Gen(j - 1)
			}
		}
		return l, NewRingMap(l, p, fImages), NewRingMap(p, l, gImages), true
	}
	return nil, nil, nil, false
}
