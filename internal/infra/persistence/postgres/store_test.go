package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestNewStorePropagatesOpenError(t *testing.T) {
	wantErr := errors.New("dial refused")
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		if driver != defaultDriver {
			t.Fatalf("unexpected driver %q", driver)
		}
		if dsn != defaultDSN {
			t.Fatalf("empty DSN must fall back to the default, got %q", dsn)
		}
		return nil, wantErr
	})
	defer restore()

	if _, err := NewStore(context.Background(), ""); !errors.Is(err, wantErr) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestOverrideSQLOpenRestores(t *testing.T) {
	sentinel := errors.New("sentinel")
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) {
		return nil, sentinel
	})
	restore()

	openMu.Lock()
	same := sqlOpen
	openMu.Unlock()
	// After restore the package points back at database/sql, which defers
	// dialing until first use.
	db, err := same(defaultDriver, "postgres://invalid")
	if err != nil {
		t.Fatalf("restored opener should be sql.Open, got error %v", err)
	}
	_ = db.Close()
}
