// Package archive stores resolution reports durably. It is a thin S3-like
// abstraction with filesystem, in-memory, and S3 backends so the same
// report exporter works across dev, test, and production deployments.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Driver identifies a concrete archive backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default, dev)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// Info describes a stored report payload.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store provides report payload storage. Put is create-only so archived
// reports are immutable once written.
type Store interface {
	// Put stores a new payload at key. Fails if the key already exists.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	// Get retrieves the payload and its metadata.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Head returns metadata only.
	Head(ctx context.Context, key string) (Info, error)
	// Delete removes a payload. Returns (false, nil) if not found.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns payloads whose key has the prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver returns the configured backend driver.
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is unavailable.
var ErrUnsupported = errors.New("archive: unsupported operation")

// Open selects an archive backend from environment variables.
//
//	SCHEMECORE_ARCHIVE_DRIVER: fs|s3|memory (default fs)
//	SCHEMECORE_ARCHIVE_FS_ROOT: directory root when driver=fs (default ./archive)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("SCHEMECORE_ARCHIVE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("SCHEMECORE_ARCHIVE_FS_ROOT")
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
