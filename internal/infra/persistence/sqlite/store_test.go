package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"schemecore/pkg/algebra"
	"schemecore/pkg/scheme"
)

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.db")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	x := algebra.Var(2, 0)
	y := algebra.Var(2, 1)
	pres := algebra.NewPresentation([]string{"x", "y"}, []algebra.Polynomial{y.Sub(x.Mul(x))})
	patch := scheme.NewRootPatch("parabola", pres)
	atlas := scheme.NewAtlas("cover")
	if err := atlas.Add(patch); err != nil {
		t.Fatalf("add patch: %v", err)
	}
	view := scheme.Restrict(patch, pres.Gen(0))

	err = store.RunInTransaction(context.Background(), func(tx scheme.Transaction) error {
		if err := tx.PutAtlas(atlas); err != nil {
			return err
		}
		if err := tx.PutNode(patch); err != nil {
			return err
		}
		return tx.PutNode(view)
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	err = reopened.View(context.Background(), func(v scheme.TransactionView) error {
		got, ok := v.Node(view.ID())
		if !ok {
			t.Fatalf("view missing after reopen")
		}
		rebuilt, ok := got.(*scheme.OpenView)
		if !ok {
			t.Fatalf("rebuilt node has wrong kind %T", got)
		}
		parent, ok := v.Node(patch.ID())
		if !ok || rebuilt.Ambient() != parent {
			t.Fatalf("rebuilt view must reference the rebuilt parent")
		}
		gotAtlas, ok := v.Atlas(atlas.ID())
		if !ok || !gotAtlas.Contains(parent.(*scheme.RootPatch)) {
			t.Fatalf("atlas membership lost across reopen")
		}
		// The rehydrated chain still resolves against its atlas.
		if _, _, err := scheme.FindChart(rebuilt, gotAtlas); err != nil {
			t.Fatalf("find chart on rehydrated chain: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestFailedTransactionDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	pres := algebra.NewPresentation([]string{"t"}, nil)
	patch := scheme.NewRootPatch("line", pres)
	wantErr := scheme.ErrNotFound{Kind: "atlas", ID: "missing"}
	err = store.RunInTransaction(context.Background(), func(tx scheme.Transaction) error {
		if err := tx.PutNode(patch); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatalf("expected the callback error")
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count state rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed transaction must not snapshot, found %d buckets", count)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ws.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open with nested path: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Path() != path {
		t.Fatalf("path accessor mismatch: %s", store.Path())
	}
}
