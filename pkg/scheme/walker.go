package scheme

// Holds reports whether pred holds for node or any of its ancestors,
// following OpenView -> ambient and SimplifiedView -> original links. At
// a RootPatch the predicate is evaluated directly — the chain's terminal
// case, not an unconditional escape.
//
// Ancestry must be acyclic; the walk carries no cycle-detection fuel, so
// a cyclic chain loops forever. Preventing that is the caller's
// responsibility.
func Holds(node DerivedScheme, pred func(DerivedScheme) bool) bool {
	for {
		if pred(node) {
			return true
		}
		switch n := node.(type) {
		case *OpenView:
			node = n.Ambient()
		case *SimplifiedView:
			node = n.Original()
		case *RootPatch:
			return false
		}
	}
}
