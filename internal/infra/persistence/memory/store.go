// Package memory provides an in-memory workspace store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"schemecore/pkg/scheme"
)

// Compile-time contract assertion.
var _ scheme.WorkspaceStore = (*Store)(nil)

type state struct {
	atlases map[string]*scheme.Atlas
	nodes   map[string]scheme.DerivedScheme
}

func newState() state {
	return state{
		atlases: make(map[string]*scheme.Atlas),
		nodes:   make(map[string]scheme.DerivedScheme),
	}
}

func (s state) clone() state {
	out := newState()
	for id, a := range s.atlases {
		out.atlases[id] = a
	}
	for id, n := range s.nodes {
		out.nodes[id] = n
	}
	return out
}

// Store keeps the workspace index in process memory behind a mutex. Atlas
// and node objects are shared by reference; they are immutable apart from
// atlas membership, which only grows.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore returns an empty in-memory workspace store.
func NewStore() *Store {
	return &Store{state: newState()}
}

type transaction struct {
	st *state
}

func (t *transaction) Atlas(id string) (*scheme.Atlas, bool) {
	a, ok := t.st.atlases[id]
	return a, ok
}

func (t *transaction) Atlases() []*scheme.Atlas {
	out := make([]*scheme.Atlas, 0, len(t.st.atlases))
	for _, a := range t.st.atlases {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (t *transaction) Node(id string) (scheme.DerivedScheme, bool) {
	n, ok := t.st.nodes[id]
	return n, ok
}

func (t *transaction) Nodes() []scheme.DerivedScheme {
	out := make([]scheme.DerivedScheme, 0, len(t.st.nodes))
	for _, n := range t.st.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (t *transaction) PutAtlas(a *scheme.Atlas) error {
	if a == nil {
		return fmt.Errorf("atlas cannot be nil")
	}
	if _, ok := t.st.atlases[a.ID()]; ok {
		return scheme.ErrDuplicate{Kind: "atlas", ID: a.ID()}
	}
	t.st.atlases[a.ID()] = a
	return nil
}

func (t *transaction) PutNode(n scheme.DerivedScheme) error {
	if n == nil {
		return fmt.Errorf("node cannot be nil")
	}
	if _, ok := t.st.nodes[n.ID()]; ok {
		return scheme.ErrDuplicate{Kind: "node", ID: n.ID()}
	}
	t.st.nodes[n.ID()] = n
	return nil
}

// RunInTransaction applies fn against a staged copy of the index and
// publishes it only when fn succeeds.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx scheme.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(&transaction{st: &staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// View runs fn against a read-only view of the current state.
func (s *Store) View(ctx context.Context, fn func(view scheme.TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	return fn(&transaction{st: &st})
}

// ExportState snapshots the full workspace as codec documents.
func (s *Store) ExportState() scheme.WorkspaceDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	tx := &transaction{st: &st}
	return scheme.EncodeWorkspace(tx.Atlases(), tx.Nodes())
}

// ImportState replaces the workspace with the decoded snapshot. Nodes are
// rebuilt through the package constructors, so cached inverse pairs and
// reference identity hold on the rehydrated objects.
func (s *Store) ImportState(doc scheme.WorkspaceDoc) error {
	atlases, nodes, err := scheme.DecodeWorkspace(doc)
	if err != nil {
		return fmt.Errorf("import workspace: %w", err)
	}
	st := newState()
	for id, a := range atlases {
		st.atlases[id] = a
	}
	for id, n := range nodes {
		st.nodes[id] = n
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}
