package scheme

import (
	"fmt"

	"schemecore/pkg/algebra"
)

// Persistence documents for workspaces. The JSON shapes here are shared
// by every storage backend and by the atlas-check command; decoding
// re-runs the package constructors so reference identity and cached
// inverse pairs are rebuilt, never deserialized.

// TermDoc is the wire form of a single polynomial term.
type TermDoc struct {
	Coef int64 `json:"coef"`
	Exps []int `json:"exps"`
}

// PolynomialDoc is the wire form of a polynomial.
type PolynomialDoc struct {
	NumVars int       `json:"num_vars"`
	Terms   []TermDoc `json:"terms,omitempty"`
}

// ElementDoc is the wire form of a ring element.
type ElementDoc struct {
	Num PolynomialDoc `json:"num"`
	Den PolynomialDoc `json:"den"`
}

// PresentationDoc is the wire form of a ring presentation.
type PresentationDoc struct {
	Generators []string        `json:"generators"`
	Relations  []PolynomialDoc `json:"relations,omitempty"`
	Units      []PolynomialDoc `json:"units,omitempty"`
}

// NodeKind enumerates the three derived-scheme node kinds on the wire.
type NodeKind string

const (
	// KindRoot identifies a RootPatch node.
	KindRoot NodeKind = "root"
	// KindOpen identifies an OpenView node.
	KindOpen NodeKind = "open"
	// KindSimplified identifies a SimplifiedView node.
	KindSimplified NodeKind = "simplified"
)

// NodeDoc is the wire form of a derived-scheme node.
type NodeDoc struct {
	ID           string           `json:"id"`
	Kind         NodeKind         `json:"kind"`
	Name         string           `json:"name,omitempty"`
	AtlasID      string           `json:"atlas_id,omitempty"`
	ParentID     string           `json:"parent_id,omitempty"`
	Presentation *PresentationDoc `json:"presentation,omitempty"`
	Complement   *ElementDoc      `json:"complement,omitempty"`
	ToOriginal   []ElementDoc     `json:"to_original,omitempty"`
	ToSimplified []ElementDoc     `json:"to_simplified,omitempty"`
}

// AtlasDoc is the wire form of an atlas.
type AtlasDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkspaceDoc is the wire form of a full workspace snapshot: atlases
// plus derived-scheme trees.
type WorkspaceDoc struct {
	Atlases []AtlasDoc `json:"atlases,omitempty"`
	Nodes   []NodeDoc  `json:"nodes,omitempty"`
}

// EncodePolynomial converts a polynomial to its wire form.
func EncodePolynomial(p algebra.Polynomial) PolynomialDoc {
	terms := p.Terms()
	docs := make([]TermDoc, len(terms))
	for i, t := range terms {
		docs[i] = TermDoc{Coef: t.Coef, Exps: t.Exps}
	}
	return PolynomialDoc{NumVars: p.NumVars(), Terms: docs}
}

// DecodePolynomial rebuilds a polynomial from its wire form.
func DecodePolynomial(doc PolynomialDoc) (algebra.Polynomial, error) {
	terms := make([]algebra.Term, len(doc.Terms))
	for i, t := range doc.Terms {
		if len(t.Exps) != doc.NumVars {
			return algebra.Polynomial{}, fmt.Errorf("term %d has %d exponents, want %d", i, len(t.Exps), doc.NumVars)
		}
		terms[i] = algebra.Term{Coef: t.Coef, Exps: t.Exps}
	}
	return algebra.NewPolynomial(doc.NumVars, terms), nil
}

// EncodeElement converts an element to its wire form.
func EncodeElement(e algebra.Element) ElementDoc {
	return ElementDoc{Num: EncodePolynomial(e.Numerator()), Den: EncodePolynomial(e.Denominator())}
}

// DecodeElement rebuilds an element of pres from its wire form.
func DecodeElement(doc ElementDoc, pres *algebra.Presentation) (algebra.Element, error) {
	num, err := DecodePolynomial(doc.Num)
	if err != nil {
		return algebra.Element{}, fmt.Errorf("decode numerator: %w", err)
	}
	den, err := DecodePolynomial(doc.Den)
	if err != nil {
		return algebra.Element{}, fmt.Errorf("decode denominator: %w", err)
	}
	if num.NumVars() != pres.NumGens() || den.NumVars() != pres.NumGens() {
		return algebra.Element{}, fmt.Errorf("element over %d variables in a %d-generator ring", num.NumVars(), pres.NumGens())
	}
	return algebra.NewFraction(pres, num, den), nil
}

// EncodePresentation converts a presentation to its wire form.
func EncodePresentation(p *algebra.Presentation) PresentationDoc {
	doc := PresentationDoc{Generators: p.Generators()}
	for _, r := range p.Relations() {
		doc.Relations = append(doc.Relations, EncodePolynomial(r))
	}
	for _, u := range p.Units() {
		doc.Units = append(doc.Units, EncodePolynomial(u))
	}
	return doc
}

// DecodePresentation rebuilds a presentation from its wire form.
func DecodePresentation(doc PresentationDoc) (*algebra.Presentation, error) {
	rels := make([]algebra.Polynomial, len(doc.Relations))
	for i, r := range doc.Relations {
		p, err := DecodePolynomial(r)
		if err != nil {
			return nil, fmt.Errorf("decode relation %d: %w", i, err)
		}
		rels[i] = p
	}
	pres := algebra.NewPresentation(doc.Generators, rels)
	for i, u := range doc.Units {
		p, err := DecodePolynomial(u)
		if err != nil {
			return nil, fmt.Errorf("decode unit %d: %w", i, err)
		}
		pres = pres.Localize(p)
	}
	return pres, nil
}

// EncodeWorkspace serializes atlases and nodes. Nodes are emitted with
// every parent preceding its children; DecodeWorkspace does not depend on
// that ordering, it just keeps snapshots readable.
func EncodeWorkspace(atlases []*Atlas, nodes []DerivedScheme) WorkspaceDoc {
	var doc WorkspaceDoc
	patchAtlas := make(map[string]string)
	for _, a := range atlases {
		doc.Atlases = append(doc.Atlases, AtlasDoc{ID: a.ID(), Name: a.Name()})
		for _, p := range a.Patches() {
			patchAtlas[p.ID()] = a.ID()
		}
	}
	emitted := make(map[string]bool)
	var emit func(n DerivedScheme)
	emit = func(n DerivedScheme) {
		if emitted[n.ID()] {
			return
		}
		switch v := n.(type) {
		case *RootPatch:
			pres := EncodePresentation(v.Presentation())
			doc.Nodes = append(doc.Nodes, NodeDoc{
				ID:           v.ID(),
				Kind:         KindRoot,
				Name:         v.Name(),
				AtlasID:      patchAtlas[v.ID()],
				Presentation: &pres,
			})
		case *OpenView:
			emit(v.Ambient())
			comp := EncodeElement(v.Complement())
			doc.Nodes = append(doc.Nodes, NodeDoc{
				ID:         v.ID(),
				Kind:       KindOpen,
				ParentID:   v.Ambient().ID(),
				Complement: &comp,
			})
		case *SimplifiedView:
			emit(v.Original())
			pres := EncodePresentation(v.Presentation())
			nd := NodeDoc{
				ID:           v.ID(),
				Kind:         KindSimplified,
				ParentID:     v.Original().ID(),
				Presentation: &pres,
			}
			for _, img := range v.ToOriginal().Pullback().Images() {
				nd.ToOriginal = append(nd.ToOriginal, EncodeElement(img))
			}
			for _, img := range v.ToSimplified().Pullback().Images() {
				nd.ToSimplified = append(nd.ToSimplified, EncodeElement(img))
			}
			doc.Nodes = append(doc.Nodes, nd)
		}
		emitted[n.ID()] = true
	}
	for _, n := range nodes {
		emit(n)
	}
	return doc
}

// DecodeWorkspace rebuilds atlases and nodes from a snapshot. Parent
// links are resolved across passes, so node order in the document does
// not matter.
func DecodeWorkspace(doc WorkspaceDoc) (map[string]*Atlas, map[string]DerivedScheme, error) {
	atlases := make(map[string]*Atlas, len(doc.Atlases))
	for _, a := range doc.Atlases {
		atlases[a.ID] = newAtlasWithID(a.ID, a.Name)
	}
	nodes := make(map[string]DerivedScheme, len(doc.Nodes))
	pending := append([]NodeDoc(nil), doc.Nodes...)
	for len(pending) > 0 {
		progressed := false
		rest := pending[:0]
		for _, nd := range pending {
			if nd.Kind != KindRoot && nodes[nd.ParentID] == nil {
				rest = append(rest, nd)
				continue
			}
			node, err := decodeNode(nd, nodes, atlases)
			if err != nil {
				return nil, nil, fmt.Errorf("decode node %s: %w", nd.ID, err)
			}
			nodes[nd.ID] = node
			progressed = true
		}
		if !progressed {
			return nil, nil, fmt.Errorf("workspace snapshot has %d nodes with missing or cyclic parents", len(rest))
		}
		pending = rest
	}
	return atlases, nodes, nil
}

func decodeNode(nd NodeDoc, nodes map[string]DerivedScheme, atlases map[string]*Atlas) (DerivedScheme, error) {
	switch nd.Kind {
	case KindRoot:
		if nd.Presentation == nil {
			return nil, fmt.Errorf("root patch without presentation")
		}
		pres, err := DecodePresentation(*nd.Presentation)
		if err != nil {
			return nil, err
		}
		patch := newRootPatchWithID(nd.ID, nd.Name, pres)
		if nd.AtlasID != "" {
			atlas, ok := atlases[nd.AtlasID]
			if !ok {
				return nil, fmt.Errorf("unknown atlas %s", nd.AtlasID)
			}
			if err := atlas.Add(patch); err != nil {
				return nil, err
			}
		}
		return patch, nil
	case KindOpen:
		parent := nodes[nd.ParentID]
		if nd.Complement == nil {
			return nil, fmt.Errorf("open view without complement equation")
		}
		comp, err := DecodeElement(*nd.Complement, parent.Presentation())
		if err != nil {
			return nil, err
		}
		view := Restrict(parent, comp)
		view.id = nd.ID
		return view, nil
	case KindSimplified:
		parent := nodes[nd.ParentID]
		if nd.Presentation == nil {
			return nil, fmt.Errorf("simplified view without presentation")
		}
		pres, err := DecodePresentation(*nd.Presentation)
		if err != nil {
			return nil, err
		}
		pp := parent.Presentation()
		if len(nd.ToOriginal) != pp.NumGens() || len(nd.ToSimplified) != pres.NumGens() {
			return nil, fmt.Errorf("identification image counts do not match presentations")
		}
		toOrigImages := make([]algebra.Element, len(nd.ToOriginal))
		for i, d := range nd.ToOriginal {
			img, err := DecodeElement(d, pres)
			if err != nil {
				return nil, fmt.Errorf("decode to_original image %d: %w", i, err)
			}
			toOrigImages[i] = img
		}
		toSimpImages := make([]algebra.Element, len(nd.ToSimplified))
		for i, d := range nd.ToSimplified {
			img, err := DecodeElement(d, pp)
			if err != nil {
				return nil, fmt.Errorf("decode to_simplified image %d: %w", i, err)
			}
			toSimpImages[i] = img
		}
		forward := NewMorphism(pres, pp, algebra.NewRingMap(pp, pres, toOrigImages))
		backward := NewMorphism(pp, pres, algebra.NewRingMap(pres, pp, toSimpImages))
		RegisterInversePair(forward, backward)
		return &SimplifiedView{
			id:           nd.ID,
			parent:       parent,
			pres:         pres,
			toOriginal:   forward,
			toSimplified: backward,
		}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", nd.Kind)
	}
}
