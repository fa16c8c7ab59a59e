// Package media stores receipt images for expenses. The store is addressed
// by generated paths and lives outside the ledger transaction: uploads run
// after the owning expense exists, and a storage failure never rolls back
// ledger state.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ReceiptStore persists receipt images and yields a stable path for each.
type ReceiptStore interface {
	// Save stores the image and returns the path to reference from the
	// expense record.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Open reads a previously stored image by its path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// DiskReceiptStore stores receipt images on the local filesystem under a
// base directory.
type DiskReceiptStore struct {
	basePath string
}

// NewDiskReceiptStore creates a receipt store rooted at basePath.
func NewDiskReceiptStore(basePath string) (*DiskReceiptStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &DiskReceiptStore{basePath: basePath}, nil
}

// Save implements ReceiptStore. The stored name is a generated UUID with the
// original extension, so uploads can never collide or traverse paths.
func (s *DiskReceiptStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	full := filepath.Join(s.basePath, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write receipt file: %w", err)
	}

	return name, nil
}

// Open implements ReceiptStore.
func (s *DiskReceiptStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stored paths are bare generated names; reject anything else.
	if path != filepath.Base(path) {
		return nil, fmt.Errorf("invalid receipt path %q", path)
	}

	return os.Open(filepath.Join(s.basePath, path))
}
