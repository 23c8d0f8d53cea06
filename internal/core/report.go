package core

import (
	"context"
	"time"

	"schemecore/pkg/scheme"
)

// NodeReport summarizes one node's resolution against an atlas.
type NodeReport struct {
	NodeID    string          `json:"node_id"`
	Kind      scheme.NodeKind `json:"kind"`
	Resolved  bool            `json:"resolved"`
	ChartID   string          `json:"chart_id,omitempty"`
	Equations []string        `json:"equations,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ResolutionReport summarizes how every workspace node resolves against a
// single atlas. It is the document shape archived by the report exporter.
type ResolutionReport struct {
	AtlasID     string       `json:"atlas_id"`
	AtlasName   string       `json:"atlas_name"`
	GeneratedAt time.Time    `json:"generated_at"`
	Nodes       []NodeReport `json:"nodes"`
}

// Resolved reports whether every node resolved.
func (r ResolutionReport) Resolved() bool {
	for _, n := range r.Nodes {
		if !n.Resolved {
			return false
		}
	}
	return true
}

// BuildReport resolves every workspace node against the atlas and returns
// the summary document. Nodes with unresolved ancestry are reported, not
// fatal; only lookup failures error out.
func (s *Service) BuildReport(ctx context.Context, atlasID string) (ResolutionReport, error) {
	var report ResolutionReport
	err := s.observe(ctx, "build_report", func(ctx context.Context) error {
		return s.store.View(ctx, func(v TransactionView) error {
			atlas, ok := v.Atlas(atlasID)
			if !ok {
				return scheme.ErrNotFound{Kind: "atlas", ID: atlasID}
			}
			report = ResolutionReport{
				AtlasID:     atlas.ID(),
				AtlasName:   atlas.Name(),
				GeneratedAt: s.opts.clock(),
			}
			for _, node := range v.Nodes() {
				report.Nodes = append(report.Nodes, resolveNode(node, atlas))
			}
			return nil
		})
	})
	if err != nil {
		return ResolutionReport{}, err
	}
	return report, nil
}

func resolveNode(node DerivedScheme, atlas *Atlas) NodeReport {
	nr := NodeReport{NodeID: node.ID(), Kind: nodeKind(node)}
	mor, eqs, err := scheme.FindChart(node, atlas)
	if err != nil {
		nr.Error = err.Error()
		return nr
	}
	nr.Resolved = true
	for _, rp := range atlas.Patches() {
		if rp.Presentation() == mor.Codomain() {
			nr.ChartID = rp.ID()
			break
		}
	}
	for _, eq := range eqs {
		nr.Equations = append(nr.Equations, eq.String())
	}
	return nr
}

func nodeKind(node DerivedScheme) scheme.NodeKind {
	switch node.(type) {
	case *scheme.RootPatch:
		return scheme.KindRoot
	case *scheme.OpenView:
		return scheme.KindOpen
	case *scheme.SimplifiedView:
		return scheme.KindSimplified
	}
	return ""
}
