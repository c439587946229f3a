package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/knit/internal/model"
)

// BundleStore persists bundle output.
type BundleStore interface {
	// Create opens the output file for writing, creating parent directories
	// as needed. The caller owns closing the returned writer.
	Create(path m.Path) (io.WriteCloser, error)
}

type bundleStore struct{}

// NewBundleStore constructs a BundleStore backed by the local filesystem.
func NewBundleStore() BundleStore {
	return &bundleStore{}
}

func (bs *bundleStore) Create(path m.Path) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, nil
}
