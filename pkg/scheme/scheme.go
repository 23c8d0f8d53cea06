package scheme

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"schemecore/pkg/algebra"
)

// DerivedScheme is the closed union of the three node kinds an ancestry
// chain is built from: RootPatch, OpenView, and SimplifiedView. The
// interface is sealed so every algorithm can type-switch exhaustively.
type DerivedScheme interface {
	// ID returns the node's stable identifier, used for persistence and
	// atlas bookkeeping. Scheme identity itself is reference identity.
	ID() string
	// Presentation returns the node's coordinate ring presentation.
	Presentation() *algebra.Presentation

	sealedDerivedScheme()
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// RootPatch is a reference-identified member of an atlas, the terminal
// node of every resolvable ancestry chain.
type RootPatch struct {
	id   string
	name string
	pres *algebra.Presentation
}

// NewRootPatch creates an atlas patch over the given presentation.
func NewRootPatch(name string, pres *algebra.Presentation) *RootPatch {
	return &RootPatch{id: newID(), name: name, pres: pres}
}

// newRootPatchWithID rebuilds a patch from persisted state.
func newRootPatchWithID(id, name string, pres *algebra.Presentation) *RootPatch {
	return &RootPatch{id: id, name: name, pres: pres}
}

func (r *RootPatch) ID() string                         { return r.id }
func (r *RootPatch) Name() string                       { return r.name }
func (r *RootPatch) Presentation() *algebra.Presentation { return r.pres }
func (r *RootPatch) sealedDerivedScheme()               {}

// OpenView restricts a parent scheme to the locus where one ring element
// does not vanish. The complement equation lives in the direct parent's
// ring, never the root's.
type OpenView struct {
	id         string
	parent     DerivedScheme
	complement algebra.Element
	pres       *algebra.Presentation
}

// Restrict derives the open view of x on the non-vanishing locus of h.
// h must be an element of x's coordinate ring.
func Restrict(x DerivedScheme, h algebra.Element) *OpenView {
	if h.Presentation() != x.Presentation() {
		panic("scheme: complement equation outside the parent's ring")
	}
	return &OpenView{
		id:         newID(),
		parent:     x,
		complement: h,
		pres:       x.Presentation().Localize(h.Numerator()),
	}
}

func (v *OpenView) ID() string                          { return v.id }
func (v *OpenView) Presentation() *algebra.Presentation { return v.pres }
func (v *OpenView) sealedDerivedScheme()                {}

// Ambient returns the parent scheme the view is an open subset of.
func (v *OpenView) Ambient() DerivedScheme { return v.parent }

// Complement returns the equation whose non-vanishing locus the view
// represents, expressed in the parent's ring.
func (v *OpenView) Complement() algebra.Element { return v.complement }

// InclusionMorphism returns the inclusion of the view into its parent.
func (v *OpenView) InclusionMorphism() *Morphism {
	pull := algebra.InclusionMap(v.parent.Presentation(), v.pres)
	return NewMorphism(v.pres, v.parent.Presentation(), pull)
}

// SimplifiedView re-expresses a parent's presentation more economically.
// The identification pair is registered as a cached inverse pair at
// construction; its correctness is the simplifier's contract, never
// verified downstream.
type SimplifiedView struct {
	id           string
	parent       DerivedScheme
	pres         *algebra.Presentation
	toOriginal   *Morphism
	toSimplified *Morphism
}

// Simplify derives a simplified view of x using the supplied simplifier.
func Simplify(x DerivedScheme, s algebra.Simplifier) *SimplifiedView {
	l, f, g := s.Simplify(x.Presentation())
	// f: L -> P is the pullback of the original->view morphism,
	// g: P -> L the pullback of the view->original morphism.
	forward := NewMorphism(l, x.Presentation(), g)
	backward := NewMorphism(x.Presentation(), l, f)
	RegisterInversePair(forward, backward)
	return &SimplifiedView{
		id:           newID(),
		parent:       x,
		pres:         l,
		toOriginal:   forward,
		toSimplified: backward,
	}
}

func (v *SimplifiedView) ID() string                          { return v.id }
func (v *SimplifiedView) Presentation() *algebra.Presentation { return v.pres }
func (v *SimplifiedView) sealedDerivedScheme()                {}

// Original returns the parent scheme the view identifies with.
func (v *SimplifiedView) Original() DerivedScheme { return v.parent }

// ToOriginal returns the identification morphism view -> original.
func (v *SimplifiedView) ToOriginal() *Morphism { return v.toOriginal }

// ToSimplified returns the identification morphism original -> view.
func (v *SimplifiedView) ToSimplified() *Morphism { return v.toSimplified }

// CheckIdentification verifies the round-trip law of a simplified view's
// identification pair on every generator. The core never calls this; it
// exists as an opt-in diagnostic because an incorrect simplifier silently
// corrupts every downstream resolution.
func CheckIdentification(v *SimplifiedView) error {
	p := v.parent.Presentation()
	l := v.pres
	fromL := v.toSimplified.Pullback() // L -> P
	fromP := v.toOriginal.Pullback()   // P -> L
	for i := 0; i < p.NumGens(); i++ {
		if got := fromL.Apply(fromP.Apply(p.Gen(i))); !got.Equal(p.Gen(i)) {
			return fmt.Errorf("scheme: identification moved original generator %q: %s", p.Generators()[i], got)
		}
	}
	for j := 0; j < l.NumGens(); j++ {
		if got := fromP.Apply(fromL.Apply(l.Gen(j))); !got.Equal(l.Gen(j)) {
			return fmt.Errorf("scheme: identification moved simplified generator %q: %s", l.Generators()[j], got)
		}
	}
	return nil
}
