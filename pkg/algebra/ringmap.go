package algebra

import "fmt"

// RingMap is a ring homomorphism between two presentations, determined by
// the images of the source generators. Correctness of the images (that
// relations map to zero) is a trusted precondition throughout the core.
type RingMap struct {
	from   *Presentation
	to     *Presentation
	images []Element
}

// NewRingMap constructs a homomorphism from generator images. Every image
// must live in the target presentation.
func NewRingMap(from, to *Presentation, images []Element) *RingMap {
	if len(images) != from.NumGens() {
		panic(fmt.Sprintf("algebra: ring map needs %d images, got %d", from.NumGens(), len(images)))
	}
	imgs := make([]Element, len(images))
	for i, img := range images {
		if img.Presentation() != to {
			panic("algebra: ring map image outside target presentation")
		}
		imgs[i] = img
	}
	return &RingMap{from: from, to: to, images: imgs}
}

// IdentityMap returns the identity homomorphism on p.
func IdentityMap(p *Presentation) *RingMap {
	images := make([]Element, p.NumGens())
	for i := range images {
		images[i] = p.Gen(i)
	}
	return &RingMap{from: p, to: p, images: images}
}

// InclusionMap returns the homomorphism from a presentation into a
// coordinate-compatible localization of it, sending each generator to
// itself.
func InclusionMap(from, to *Presentation) *RingMap {
	if !from.SameCoordinates(to) {
		panic("algebra: inclusion between coordinate-incompatible presentations")
	}
	images := make([]Element, from.NumGens())
	for i := range images {
		images[i] = to.Gen(i)
	}
	return &RingMap{from: from, to: to, images: images}
}

// From returns the source presentation.
func (m *RingMap) From() *Presentation { return m.from }

// To returns the target presentation.
func (m *RingMap) To() *Presentation { return m.to }

// Images returns a copy of the generator images.
func (m *RingMap) Images() []Element {
	out := make([]Element, len(m.images))
	copy(out, m.images)
	return out
}

// Apply maps an element of the source ring through the homomorphism.
func (m *RingMap) Apply(e Element) Element {
	if e.Presentation() != m.from {
		panic("algebra: applying ring map to element of a different ring")
	}
	num := evalPoly(e.Numerator(), m.to, m.images)
	den := evalPoly(e.Denominator(), m.to, m.images)
	return num.Div(den)
}

// ComposeRing returns g ∘ f, the homomorphism applying f first.
func ComposeRing(g, f *RingMap) *RingMap {
	if f.to != g.from {
		panic("algebra: composing ring maps with mismatched presentations")
	}
	images := make([]Element, len(f.images))
	for i, img := range f.images {
		images[i] = g.Apply(img)
	}
	return &RingMap{from: f.from, to: g.to, images: images}
}
