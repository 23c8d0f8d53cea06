package scheme

import (
	"context"
	"fmt"
)

// Storage contracts for workspaces. A workspace is a set of named atlases
// together with the derived-scheme trees hanging off their patches.
// Implementations live under internal/infra/persistence.

// ErrNotFound is returned when a workspace lookup misses.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ErrDuplicate is returned when a workspace insert collides on ID.
type ErrDuplicate struct {
	Kind string
	ID   string
}

func (e ErrDuplicate) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

// TransactionView provides read-only access to workspace state.
type TransactionView interface {
	// Atlas returns the atlas with the given ID.
	Atlas(id string) (*Atlas, bool)
	// Atlases returns all atlases, ordered by ID.
	Atlases() []*Atlas
	// Node returns the derived-scheme node with the given ID.
	Node(id string) (DerivedScheme, bool)
	// Nodes returns all derived-scheme nodes, ordered by ID.
	Nodes() []DerivedScheme
}

// Transaction is a mutable unit of work against workspace state. Nodes are
// immutable once created, so mutation is insertion only.
type Transaction interface {
	TransactionView
	// PutAtlas registers a new atlas. Fails with ErrDuplicate on ID reuse.
	PutAtlas(a *Atlas) error
	// PutNode registers a new derived-scheme node. Fails with ErrDuplicate
	// on ID reuse.
	PutNode(n DerivedScheme) error
}

// WorkspaceStore is the persistence abstraction shared by the in-memory,
// SQLite, and Postgres backends.
type WorkspaceStore interface {
	// RunInTransaction applies fn atomically: on error no state change is
	// visible.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error
	// View runs fn against a read-only view of the current state.
	View(ctx context.Context, fn func(view TransactionView) error) error
	// ExportState snapshots the full workspace as codec documents.
	ExportState() WorkspaceDoc
	// ImportState replaces the workspace with the decoded snapshot.
	ImportState(doc WorkspaceDoc) error
}
