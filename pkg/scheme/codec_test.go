package scheme

import (
	"encoding/json"
	"testing"

	"schemecore/pkg/algebra"
)

func TestWorkspaceRoundTripRebuildsMixedChain(t *testing.T) {
	patch, atlas := twistedPatch()
	u1, u2, u3 := mixedChain(patch)

	doc := EncodeWorkspace([]*Atlas{atlas}, []DerivedScheme{u3})

	// Snapshots travel as JSON between storage backends.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded WorkspaceDoc
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	atlases, nodes, err := DecodeWorkspace(decoded)
	if err != nil {
		t.Fatalf("decode workspace: %v", err)
	}
	if len(atlases) != 1 || len(nodes) != 4 {
		t.Fatalf("expected 1 atlas and 4 nodes, got %d and %d", len(atlases), len(nodes))
	}

	gotAtlas := atlases[atlas.ID()]
	if gotAtlas == nil || gotAtlas.Name() != atlas.Name() {
		t.Fatalf("atlas not rebuilt")
	}

	gotPatch, ok := nodes[patch.ID()].(*RootPatch)
	if !ok {
		t.Fatalf("root patch not rebuilt")
	}
	if !gotAtlas.Contains(gotPatch) {
		t.Fatalf("membership must be re-established against the rebuilt patch")
	}
	if gotPatch.Presentation().NumGens() != 3 {
		t.Fatalf("root presentation lost generators")
	}

	gotU1, ok := nodes[u1.ID()].(*OpenView)
	if !ok {
		t.Fatalf("open view not rebuilt")
	}
	if gotU1.Ambient() != gotPatch {
		t.Fatalf("open view must point at the rebuilt parent object")
	}
	if !gotU1.Complement().Numerator().Equal(u1.Complement().Numerator()) {
		t.Fatalf("complement equation changed across the round trip")
	}

	gotU2, ok := nodes[u2.ID()].(*SimplifiedView)
	if !ok {
		t.Fatalf("simplified view not rebuilt")
	}
	if inv, ok := gotU2.ToOriginal().Inverse(); !ok || inv != gotU2.ToSimplified() {
		t.Fatalf("cached inverse pair must be re-registered on decode")
	}
	if err := CheckIdentification(gotU2); err != nil {
		t.Fatalf("rebuilt identification fails the round-trip law: %v", err)
	}
}

func TestDecodedChainStillResolves(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, u3 := mixedChain(patch)

	doc := EncodeWorkspace([]*Atlas{atlas}, []DerivedScheme{u3})
	atlases, nodes, err := DecodeWorkspace(doc)
	if err != nil {
		t.Fatalf("decode workspace: %v", err)
	}

	gotAtlas := atlases[atlas.ID()]
	leaf := nodes[u3.ID()]
	mor, eqs, err := FindChart(leaf, gotAtlas)
	if err != nil {
		t.Fatalf("find chart on rebuilt chain: %v", err)
	}
	if mor.Domain() != leaf.Presentation() {
		t.Fatalf("morphism domain must be the rebuilt leaf's ring")
	}
	wantSet := []algebra.Polynomial{algebra.Var(3, 0), algebra.Var(3, 1)}
	if !sameEquationSet(eqs, wantSet) {
		t.Fatalf("rebuilt chain resolves to a different equation set: %v", eqs)
	}
}

func TestDecodeWorkspaceOrderIndependent(t *testing.T) {
	patch, atlas := twistedPatch()
	_, _, u3 := mixedChain(patch)

	doc := EncodeWorkspace([]*Atlas{atlas}, []DerivedScheme{u3})
	// Children before parents.
	for i, j := 0, len(doc.Nodes)-1; i < j; i, j = i+1, j-1 {
		doc.Nodes[i], doc.Nodes[j] = doc.Nodes[j], doc.Nodes[i]
	}
	if _, nodes, err := DecodeWorkspace(doc); err != nil {
		t.Fatalf("decode should not depend on node order: %v", err)
	} else if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}
}

func TestDecodeWorkspaceRejectsMissingParent(t *testing.T) {
	patch, _ := twistedPatch()
	view := Restrict(patch, patch.Presentation().Gen(0))

	doc := EncodeWorkspace(nil, []DerivedScheme{view})
	// Drop the root so the view's parent cannot resolve.
	var orphaned []NodeDoc
	for _, nd := range doc.Nodes {
		if nd.Kind != KindRoot {
			orphaned = append(orphaned, nd)
		}
	}
	doc.Nodes = orphaned
	if _, _, err := DecodeWorkspace(doc); err == nil {
		t.Fatalf("expected an error for a snapshot with a missing parent")
	}
}

func TestDecodePolynomialRejectsExponentMismatch(t *testing.T) {
	doc := PolynomialDoc{NumVars: 2, Terms: []TermDoc{{Coef: 1, Exps: []int{1}}}}
	if _, err := DecodePolynomial(doc); err == nil {
		t.Fatalf("expected an exponent arity error")
	}
}
