// Package domain contains the core bundling engine and workflow logic.
package domain

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/knit/internal/adapter"
	m "github.com/mouse-blink/knit/internal/model"
)

// ErrIncomplete reports a stats query made before traversal finished.
var ErrIncomplete = errors.New("traversal incomplete")

// moduleExtensions is the load-as-file probe order used for every resolution.
var moduleExtensions = []string{"", ".js", ".json", ".node"}

// browserPackageField is the package.json field consulted in browser mode.
const browserPackageField = "browser"

// nativeExt marks compiled addons, which cannot be concatenated.
const nativeExt = ".node"

// Registry owns the ordered module list and the traversal cursor. A file's
// identity is its position in the list, assigned at first discovery and
// stable for the lifetime of the bundle.
type Registry interface {
	// ResolveOrRegister classifies the require reference name found in the
	// file at origin, appending newly discovered bundleable files to the
	// list.
	ResolveOrRegister(name string, origin m.Path) m.Resolution

	// IndexOf returns the id of a listed file.
	IndexOf(path m.Path) (int, bool)

	// PathAt returns the file at position i.
	PathAt(i int) m.Path

	// Len returns the number of listed files.
	Len() int

	// Cursor returns the position of the next file to process.
	Cursor() int

	// Advance moves the cursor past the current file.
	Advance()

	// Complete reports whether every listed file has been processed.
	Complete() bool

	// Stats returns the final file and addon lists. It fails with
	// ErrIncomplete until the traversal has finished.
	Stats() (m.Stats, error)
}

type registry struct {
	resolver adapter.Resolver
	opts     m.Options
	logger   *log.Logger

	files   []m.Path
	index   map[m.Path]int
	exclude map[m.Path]bool
	addons  []m.Path
	cursor  int
}

// NewRegistry seeds the module list with the entry file as id 0. The entry
// and exclude paths must already be absolute.
func NewRegistry(resolver adapter.Resolver, entry m.Path, opts m.Options, logger *log.Logger) Registry {
	r := &registry{
		resolver: resolver,
		opts:     opts,
		logger:   logger,
		index:    make(map[m.Path]int),
		exclude:  make(map[m.Path]bool),
	}

	for _, p := range opts.ExcludeFiles {
		r.exclude[p] = true
	}

	r.register(entry)

	return r
}

func (r *registry) ResolveOrRegister(name string, origin m.Path) m.Resolution {
	if !r.opts.Browser && r.resolver.IsCore(name) {
		return m.Resolution{Kind: m.ReferenceCore}
	}

	if r.opts.ExcludeNodeModules && !isPathReference(name) {
		return m.Resolution{Kind: m.ReferenceExcluded}
	}

	resolved, err := r.resolver.Resolve(name, adapter.ResolveOptions{
		BaseDir:      m.Path(filepath.Dir(string(origin))),
		Extensions:   moduleExtensions,
		PackageField: r.packageField(),
	})
	if err != nil {
		r.logger.Debug("reference left unresolved", "name", name, "origin", origin)

		return m.Resolution{Kind: m.ReferenceUnresolved}
	}

	if filepath.Ext(string(resolved)) == nativeExt {
		r.addons = append(r.addons, resolved)

		return m.Resolution{Kind: m.ReferenceNative, Path: resolved}
	}

	if id, ok := r.index[resolved]; ok {
		return m.Resolution{Kind: m.ReferenceRegistered, ID: id, Path: resolved}
	}

	if r.exclude[resolved] {
		return m.Resolution{Kind: m.ReferenceExcluded, Path: resolved}
	}

	id := r.register(resolved)
	r.logger.Debug("module registered", "id", id, "path", resolved)

	return m.Resolution{Kind: m.ReferenceRegistered, ID: id, Path: resolved}
}

func (r *registry) IndexOf(path m.Path) (int, bool) {
	id, ok := r.index[path]

	return id, ok
}

func (r *registry) PathAt(i int) m.Path {
	return r.files[i]
}

func (r *registry) Len() int {
	return len(r.files)
}

func (r *registry) Cursor() int {
	return r.cursor
}

func (r *registry) Advance() {
	r.cursor++
}

func (r *registry) Complete() bool {
	return r.cursor == len(r.files)
}

// Stats returns copies so callers cannot observe later mutation.
func (r *registry) Stats() (m.Stats, error) {
	if !r.Complete() {
		return m.Stats{}, ErrIncomplete
	}

	files := make([]m.Path, len(r.files))
	copy(files, r.files)

	addons := make([]m.Path, len(r.addons))
	copy(addons, r.addons)

	return m.Stats{Files: files, AddonsExcluded: addons}, nil
}

func (r *registry) register(path m.Path) int {
	id := len(r.files)
	r.files = append(r.files, path)
	r.index[path] = id

	return id
}

func (r *registry) packageField() string {
	if r.opts.Browser {
		return browserPackageField
	}

	return ""
}

// isPathReference reports whether name addresses the filesystem directly
// rather than an installed package.
func isPathReference(name string) bool {
	return strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") || strings.HasPrefix(name, "/")
}
