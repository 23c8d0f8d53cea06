// Package scheme implements derived algebraic schemes: affine patches
// derived from atlas members by open restriction and presentation
// simplification, together with chart resolution and view flattening
// over an atlas.
package scheme

import (
	"sync"

	"schemecore/pkg/algebra"
)

// Morphism is a morphism of affine schemes X -> Y, carried by its ring
// pullback R(Y) -> R(X). The inverse slot is a memoization hint set by
// caller discipline; it is never derived or verified here.
type Morphism struct {
	dom      *algebra.Presentation
	cod      *algebra.Presentation
	pullback *algebra.RingMap

	mu      sync.Mutex
	inverse *Morphism
}

// NewMorphism wraps a ring pullback as a scheme morphism. The pullback
// must run from the codomain's ring to the domain's ring.
func NewMorphism(dom, cod *algebra.Presentation, pullback *algebra.RingMap) *Morphism {
	if pullback.From() != cod || pullback.To() != dom {
		panic("scheme: pullback endpoints do not match morphism endpoints")
	}
	return &Morphism{dom: dom, cod: cod, pullback: pullback}
}

// Identity returns the identity morphism on a presentation.
func Identity(p *algebra.Presentation) *Morphism {
	return &Morphism{dom: p, cod: p, pullback: algebra.IdentityMap(p)}
}

// Compose returns g ∘ f, applying f first. The pullback composes in the
// opposite direction.
func Compose(g, f *Morphism) *Morphism {
	if f.cod != g.dom {
		panic("scheme: composing morphisms with mismatched endpoints")
	}
	return &Morphism{
		dom:      f.dom,
		cod:      g.cod,
		pullback: algebra.ComposeRing(f.pullback, g.pullback),
	}
}

// Domain returns the presentation of the morphism's source scheme.
func (m *Morphism) Domain() *algebra.Presentation { return m.dom }

// Codomain returns the presentation of the morphism's target scheme.
func (m *Morphism) Codomain() *algebra.Presentation { return m.cod }

// Pullback returns the underlying ring homomorphism R(codomain) -> R(domain).
func (m *Morphism) Pullback() *algebra.RingMap { return m.pullback }

// SetInverse records inv as the morphism's two-sided inverse. The write is
// idempotent: repeated registrations are harmless as long as callers
// always compute the same logical inverse.
func (m *Morphism) SetInverse(inv *Morphism) {
	m.mu.Lock()
	m.inverse = inv
	m.mu.Unlock()
}

// Inverse returns the cached inverse, if one has been registered.
func (m *Morphism) Inverse() (*Morphism, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inverse, m.inverse != nil
}

// RegisterInversePair records f and g as each other's inverse in one
// step, so no window exists where only one direction is set.
func RegisterInversePair(f, g *Morphism) {
	f.SetInverse(g)
	g.SetInverse(f)
}
