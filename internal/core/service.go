package core

import (
	"context"
	"fmt"

	"schemecore/internal/infra/persistence/memory"
	"schemecore/pkg/scheme"
)

// Service exposes transactional workspace operations: building atlases and
// derived-scheme chains, resolving charts, and flattening views.
type Service struct {
	store WorkspaceStore
	opts  serviceOptions
}

// NewService constructs a service backed by the supplied store.
func NewService(store WorkspaceStore, opts ...ServiceOption) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{store: store, opts: options}
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() WorkspaceStore {
	return s.store
}

// observe wraps an operation with logging, metrics, and tracing.
func (s *Service) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := s.opts.clock()
	ctx, span := s.opts.tracer.Start(ctx, operation)
	err := fn(ctx)
	duration := s.opts.clock().Sub(start)
	s.opts.metrics.Observe(ctx, operation, err == nil, duration)
	span.End(err)
	if err != nil {
		s.opts.logger.Error("operation failed", "operation", operation, "error", err)
	} else {
		s.opts.logger.Debug("operation complete", "operation", operation, "duration", duration)
	}
	return err
}

// CreateAtlas registers a new named atlas.
func (s *Service) CreateAtlas(ctx context.Context, name string) (*Atlas, error) {
	var atlas *Atlas
	err := s.observe(ctx, "create_atlas", func(ctx context.Context) error {
		atlas = scheme.NewAtlas(name)
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.PutAtlas(atlas)
		})
	})
	if err != nil {
		return nil, err
	}
	return atlas, nil
}

// AddPatch creates a root patch over pres and adds it to the atlas.
func (s *Service) AddPatch(ctx context.Context, atlasID, name string, pres *Presentation) (*RootPatch, error) {
	var patch *RootPatch
	err := s.observe(ctx, "add_patch", func(ctx context.Context) error {
		if pres == nil {
			return fmt.Errorf("presentation cannot be nil")
		}
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			atlas, ok := tx.Atlas(atlasID)
			if !ok {
				return scheme.ErrNotFound{Kind: "atlas", ID: atlasID}
			}
			patch = scheme.NewRootPatch(name, pres)
			if err := tx.PutNode(patch); err != nil {
				return err
			}
			return atlas.Add(patch)
		})
	})
	if err != nil {
		return nil, err
	}
	return patch, nil
}

// Restrict derives the open view of parent where complement is invertible.
func (s *Service) Restrict(ctx context.Context, parentID string, complement Element) (*OpenView, error) {
	var view *OpenView
	err := s.observe(ctx, "restrict", func(ctx context.Context) error {
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			parent, ok := tx.Node(parentID)
			if !ok {
				return scheme.ErrNotFound{Kind: "node", ID: parentID}
			}
			if complement.Presentation() != parent.Presentation() {
				return fmt.Errorf("complement equation lives in a different ring than node %s", parentID)
			}
			view = scheme.Restrict(parent, complement)
			return tx.PutNode(view)
		})
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Simplify derives a simplified view of parent using the configured
// presentation simplifier.
func (s *Service) Simplify(ctx context.Context, parentID string) (*SimplifiedView, error) {
	var view *SimplifiedView
	err := s.observe(ctx, "simplify", func(ctx context.Context) error {
		return s.store.RunInTransaction(ctx, func(tx Transaction) error {
			parent, ok := tx.Node(parentID)
			if !ok {
				return scheme.ErrNotFound{Kind: "node", ID: parentID}
			}
			view = scheme.Simplify(parent, s.opts.simplifier)
			return tx.PutNode(view)
		})
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ResolveChart walks the node's ancestry to a patch of the atlas, returning
// the chain morphism and the accumulated equations in the patch's ring.
func (s *Service) ResolveChart(ctx context.Context, nodeID, atlasID string) (*Morphism, []Element, error) {
	var (
		mor *Morphism
		eqs []Element
	)
	err := s.observe(ctx, "resolve_chart", func(ctx context.Context) error {
		return s.store.View(ctx, func(v TransactionView) error {
			node, atlas, err := lookupPair(v, nodeID, atlasID)
			if err != nil {
				return err
			}
			mor, eqs, err = scheme.FindChart(node, atlas)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return mor, eqs, nil
}

// Flatten collapses the node's ancestry chain into a one-level open subset
// of its atlas patch, with mutually inverse cached isomorphisms.
func (s *Service) Flatten(ctx context.Context, nodeID, atlasID string) (*OpenSubset, *Morphism, error) {
	var (
		subset *OpenSubset
		iso    *Morphism
	)
	err := s.observe(ctx, "flatten", func(ctx context.Context) error {
		return s.store.View(ctx, func(v TransactionView) error {
			node, atlas, err := lookupPair(v, nodeID, atlasID)
			if err != nil {
				return err
			}
			subset, iso, err = scheme.Flatten(node, atlas)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return subset, iso, nil
}

// ExportWorkspace snapshots the full workspace.
func (s *Service) ExportWorkspace(ctx context.Context) (WorkspaceDoc, error) {
	var doc WorkspaceDoc
	err := s.observe(ctx, "export_workspace", func(context.Context) error {
		doc = s.store.ExportState()
		return nil
	})
	return doc, err
}

// ImportWorkspace replaces the workspace with the decoded snapshot.
func (s *Service) ImportWorkspace(ctx context.Context, doc WorkspaceDoc) error {
	return s.observe(ctx, "import_workspace", func(context.Context) error {
		return s.store.ImportState(doc)
	})
}

func lookupPair(v TransactionView, nodeID, atlasID string) (DerivedScheme, *Atlas, error) {
	node, ok := v.Node(nodeID)
	if !ok {
		return nil, nil, scheme.ErrNotFound{Kind: "node", ID: nodeID}
	}
	atlas, ok := v.Atlas(atlasID)
	if !ok {
		return nil, nil, scheme.ErrNotFound{Kind: "atlas", ID: atlasID}
	}
	return node, atlas, nil
}
