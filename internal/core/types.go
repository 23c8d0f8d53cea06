// Package core exposes the workspace service facade: transactional
// operations over atlases and derived-scheme trees with pluggable
// observability.
package core

import (
	"schemecore/pkg/algebra"
	"schemecore/pkg/scheme"
)

type (
	// Atlas aliases scheme.Atlas for service operations.
	Atlas = scheme.Atlas
	// DerivedScheme aliases the closed node union.
	DerivedScheme = scheme.DerivedScheme
	// RootPatch aliases scheme.RootPatch.
	RootPatch = scheme.RootPatch
	// OpenView aliases scheme.OpenView.
	OpenView = scheme.OpenView
	// SimplifiedView aliases scheme.SimplifiedView.
	SimplifiedView = scheme.SimplifiedView
	// Morphism aliases scheme.Morphism.
	Morphism = scheme.Morphism
	// OpenSubset aliases scheme.OpenSubset.
	OpenSubset = scheme.OpenSubset
	// WorkspaceStore aliases the persistence abstraction.
	WorkspaceStore = scheme.WorkspaceStore
	// Transaction aliases scheme.Transaction.
	Transaction = scheme.Transaction
	// TransactionView aliases scheme.TransactionView.
	TransactionView = scheme.TransactionView
	// WorkspaceDoc aliases the snapshot document.
	WorkspaceDoc = scheme.WorkspaceDoc

	// Presentation aliases algebra.Presentation.
	Presentation = algebra.Presentation
	// Element aliases algebra.Element.
	Element = algebra.Element
	// Simplifier aliases the external simplification contract.
	Simplifier = algebra.Simplifier
)
