package scheme

import "fmt"

// Atlas is a covering of patches. Membership is decided by reference
// identity: a node belongs to the atlas only if it is the very RootPatch
// instance that was added, never by structural equality.
type Atlas struct {
	id      string
	name    string
	patches []*RootPatch
	byID    map[string]*RootPatch
}

// NewAtlas creates an empty named atlas.
func NewAtlas(name string) *Atlas {
	return &Atlas{id: newID(), name: name, byID: make(map[string]*RootPatch)}
}

// newAtlasWithID rebuilds an atlas from persisted state.
func newAtlasWithID(id, name string) *Atlas {
	return &Atlas{id: id, name: name, byID: make(map[string]*RootPatch)}
}

// ID returns the atlas's stable identifier.
func (a *Atlas) ID() string { return a.id }

// Name returns the atlas's display name.
func (a *Atlas) Name() string { return a.name }

// Add registers a patch as a member of the atlas.
func (a *Atlas) Add(p *RootPatch) error {
	if _, ok := a.byID[p.ID()]; ok {
		return fmt.Errorf("scheme: patch %s already in atlas %s", p.ID(), a.name)
	}
	a.patches = append(a.patches, p)
	a.byID[p.ID()] = p
	return nil
}

// Patches returns the member patches in insertion order.
func (a *Atlas) Patches() []*RootPatch {
	out := make([]*RootPatch, len(a.patches))
	copy(out, a.patches)
	return out
}

// Contains reports whether the node is a member patch of the atlas, by
// reference identity.
func (a *Atlas) Contains(n DerivedScheme) bool {
	rp, ok := n.(*RootPatch)
	if !ok {
		return false
	}
	return a.byID[rp.ID()] == rp
}
