package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/knit/internal/model"
)

// ErrModuleNotFound reports that a require reference matched nothing on disk.
// It is a benign outcome for the engine: the reference stays as written.
var ErrModuleNotFound = errors.New("module not found")

// ResolveOptions carries the context for a single resolution.
type ResolveOptions struct {
	// BaseDir is the directory of the file containing the reference.
	BaseDir m.Path

	// Extensions is the load-as-file probe order, each entry appended to the
	// candidate path. An empty entry probes the exact path. When nil, the
	// default order "", .js, .json, .node applies.
	Extensions []string

	// PackageField, when set, names a package.json field (e.g. "browser")
	// whose string value takes precedence over "main".
	PackageField string
}

// Resolver locates the file behind a require reference.
type Resolver interface {
	// IsCore reports whether name refers to a Node built-in module.
	IsCore(name string) bool

	// Resolve maps a require reference to an absolute file path following
	// Node's resolution algorithm. The returned error wraps ErrModuleNotFound
	// when nothing matches.
	Resolve(name string, opts ResolveOptions) (m.Path, error)
}

var defaultExtensions = []string{"", ".js", ".json", ".node"}

// LocalNodeResolver resolves references against the local filesystem.
type LocalNodeResolver struct{}

// NewLocalNodeResolver constructs a LocalNodeResolver.
func NewLocalNodeResolver() *LocalNodeResolver {
	return &LocalNodeResolver{}
}

// IsCore reports whether name refers to a Node built-in module. The `node:`
// scheme prefix and subpaths such as fs/promises are recognized.
func (r *LocalNodeResolver) IsCore(name string) bool {
	name = strings.TrimPrefix(name, "node:")
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		name = name[:idx]
	}

	return nodeBuiltins[name]
}

// Resolve maps a require reference to an absolute file path. Relative and
// absolute references resolve against BaseDir; bare names walk node_modules
// directories upward from it.
func (r *LocalNodeResolver) Resolve(name string, opts ResolveOptions) (m.Path, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}

	if isRelative(name) || filepath.IsAbs(name) {
		target := name
		if !filepath.IsAbs(target) {
			target = filepath.Join(string(opts.BaseDir), target)
		}

		found, ok := r.load(target, exts, opts.PackageField)
		if !ok {
			return "", fmt.Errorf("failed to resolve %q: %w", name, ErrModuleNotFound)
		}

		return absPath(found)
	}

	for dir := string(opts.BaseDir); ; {
		if filepath.Base(dir) != "node_modules" {
			candidate := filepath.Join(dir, "node_modules", name)
			if found, ok := r.load(candidate, exts, opts.PackageField); ok {
				return absPath(found)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", fmt.Errorf("failed to resolve %q: %w", name, ErrModuleNotFound)
}

// load tries target as a file first, then as a directory.
func (r *LocalNodeResolver) load(target string, exts []string, pkgField string) (string, bool) {
	if found, ok := loadAsFile(target, exts); ok {
		return found, true
	}

	return r.loadAsDirectory(target, exts, pkgField)
}

// loadAsFile probes target with each extension, skipping directories.
func loadAsFile(target string, exts []string) (string, bool) {
	for _, ext := range exts {
		candidate := target + ext

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		return candidate, true
	}

	return "", false
}

// loadAsDirectory picks the entry file named by target/package.json, falling
// back to index with the extension order.
func (r *LocalNodeResolver) loadAsDirectory(target string, exts []string, pkgField string) (string, bool) {
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", false
	}

	if entry := packageEntry(filepath.Join(target, "package.json"), pkgField); entry != "" {
		resolved := filepath.Join(target, entry)

		if found, ok := loadAsFile(resolved, exts); ok {
			return found, true
		}

		if found, ok := loadAsFile(filepath.Join(resolved, "index"), exts); ok {
			return found, true
		}
	}

	return loadAsFile(filepath.Join(target, "index"), exts)
}

// packageEntry extracts the entry file named by a package manifest. field,
// when present as a non-empty string, overrides "main". A missing or
// unparsable manifest yields "".
func packageEntry(manifestPath, field string) string {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return ""
	}

	var pkg map[string]any
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return ""
	}

	if field != "" {
		if v, ok := pkg[field].(string); ok && v != "" {
			return v
		}
	}

	if v, ok := pkg["main"].(string); ok {
		return v
	}

	return ""
}

func isRelative(name string) bool {
	return strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../")
}

func absPath(path string) (m.Path, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to absolutize %s: %w", path, err)
	}

	return m.Path(resolved), nil
}
