package scheme

import "fmt"

// UnresolvedAncestryError is returned when a derived scheme's ancestry is
// exhausted without matching any member of the supplied atlas. It is the
// only error kind the resolution algorithms produce; every other contract
// is a trusted precondition whose violation surfaces later, at point of
// use.
type UnresolvedAncestryError struct {
	// Scheme is the node whose resolution was requested.
	Scheme DerivedScheme
	// Terminal is the parentless node the walk ended at.
	Terminal DerivedScheme
}

func (e *UnresolvedAncestryError) Error() string {
	return fmt.Sprintf("scheme %s: ancestry exhausted at %s without reaching the atlas", e.Scheme.ID(), e.Terminal.ID())
}
