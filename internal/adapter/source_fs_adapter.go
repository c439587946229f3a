// Package adapter contains filesystem and infrastructure adapters for the knit CLI.
package adapter

import (
	"os"
	"path/filepath"

	m "github.com/mouse-blink/knit/internal/model"
)

// SourceFSAdapter abstracts filesystem reads that the domain layer relies on
// while bundling. It intentionally hides direct `os` access so the engine
// logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Abs normalizes a path to its absolute form.
	Abs(path m.Path) (m.Path, error)
}

// LocalSourceFSAdapter is the concrete implementation backed by the local
// filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Abs normalizes a path to its absolute form.
func (a *LocalSourceFSAdapter) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}
