package domain

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/knit/internal/adapter"
	m "github.com/mouse-blink/knit/internal/model"
)

func TestNewRegistry_SeedsEntry(t *testing.T) {
	root := t.TempDir()
	entry := m.Path(filepath.Join(root, "index.js"))

	reg := NewRegistry(adapter.NewLocalNodeResolver(), entry, m.Options{}, newTestLogger())

	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}

	if reg.PathAt(0) != entry {
		t.Fatalf("PathAt(0) = %s, want entry", reg.PathAt(0))
	}

	id, ok := reg.IndexOf(entry)
	if !ok || id != 0 {
		t.Fatalf("IndexOf(entry) = %d, %v, want 0, true", id, ok)
	}

	if reg.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0", reg.Cursor())
	}

	if reg.Complete() {
		t.Fatalf("Complete() = true before traversal")
	}
}

func TestRegistry_ResolveOrRegister(t *testing.T) {
	t.Run("registers path references in discovery order", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")
		writeFile(t, filepath.Join(root, "a.js"), "")
		writeFile(t, filepath.Join(root, "b.js"), "")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{}, newTestLogger())

		resA := reg.ResolveOrRegister("./a", m.Path(entry))
		if resA.Kind != m.ReferenceRegistered || resA.ID != 1 {
			t.Fatalf("first reference = %+v, want registered id 1", resA)
		}

		resB := reg.ResolveOrRegister("./b", m.Path(entry))
		if resB.Kind != m.ReferenceRegistered || resB.ID != 2 {
			t.Fatalf("second reference = %+v, want registered id 2", resB)
		}

		if reg.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", reg.Len())
		}
	})

	t.Run("repeated reference keeps its id", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")
		writeFile(t, filepath.Join(root, "a.js"), "")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{}, newTestLogger())

		first := reg.ResolveOrRegister("./a", m.Path(entry))
		second := reg.ResolveOrRegister("./a.js", m.Path(entry))

		if first.ID != second.ID {
			t.Fatalf("ids differ: %d vs %d", first.ID, second.ID)
		}

		if reg.Len() != 2 {
			t.Fatalf("Len() = %d, want 2 after repeat", reg.Len())
		}
	})

	t.Run("core names pass through when bundling for node", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{}, newTestLogger())

		for _, name := range []string{"fs", "node:path", "events"} {
			res := reg.ResolveOrRegister(name, m.Path(entry))
			if res.Kind != m.ReferenceCore {
				t.Fatalf("ResolveOrRegister(%q) = %+v, want core", name, res)
			}
		}

		if reg.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", reg.Len())
		}
	})

	t.Run("core names resolve like any package in browser mode", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{Browser: true}, newTestLogger())

		if res := reg.ResolveOrRegister("events", m.Path(entry)); res.Kind != m.ReferenceUnresolved {
			t.Fatalf("without polyfill = %+v, want unresolved", res)
		}

		polyfill := filepath.Join(root, "node_modules", "events", "index.js")
		writeFile(t, polyfill, "")

		res := reg.ResolveOrRegister("events", m.Path(entry))
		if res.Kind != m.ReferenceRegistered || res.Path != m.Path(polyfill) {
			t.Fatalf("with polyfill = %+v, want registered %s", res, polyfill)
		}
	})

	t.Run("bare references skipped when node_modules excluded", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")
		writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "")
		writeFile(t, filepath.Join(root, "a.js"), "")

		opts := m.Options{ExcludeNodeModules: true}
		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), opts, newTestLogger())

		res := reg.ResolveOrRegister("pkg", m.Path(entry))
		if res.Kind != m.ReferenceExcluded || res.Path != "" {
			t.Fatalf("bare reference = %+v, want excluded without resolution", res)
		}

		if res := reg.ResolveOrRegister("./a", m.Path(entry)); res.Kind != m.ReferenceRegistered {
			t.Fatalf("path reference = %+v, want registered", res)
		}
	})

	t.Run("native addons recorded and left in place", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")

		addon := filepath.Join(root, "build", "hello.node")
		writeFile(t, addon, "binary")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{}, newTestLogger())

		for i := 0; i < 2; i++ {
			res := reg.ResolveOrRegister("./build/hello.node", m.Path(entry))
			if res.Kind != m.ReferenceNative || res.Path != m.Path(addon) {
				t.Fatalf("addon reference = %+v, want native %s", res, addon)
			}
		}

		if reg.Len() != 1 {
			t.Fatalf("Len() = %d, addons must not join the list", reg.Len())
		}

		reg.Advance()

		stats, err := reg.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}

		// Every encounter is recorded, duplicates included.
		if len(stats.AddonsExcluded) != 2 {
			t.Fatalf("addons = %v, want the same path twice", stats.AddonsExcluded)
		}
	})

	t.Run("excluded files resolve but stay out of the bundle", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")
		writeFile(t, entry, "")

		skipped := filepath.Join(root, "skipped.js")
		writeFile(t, skipped, "")

		opts := m.Options{ExcludeFiles: []m.Path{m.Path(skipped)}}
		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), opts, newTestLogger())

		res := reg.ResolveOrRegister("./skipped", m.Path(entry))
		if res.Kind != m.ReferenceExcluded || res.Path != m.Path(skipped) {
			t.Fatalf("excluded file = %+v, want excluded %s", res, skipped)
		}

		if reg.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", reg.Len())
		}
	})

	t.Run("unresolvable reference is benign", func(t *testing.T) {
		root := t.TempDir()
		entry := filepath.Join(root, "index.js")

		reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), m.Options{}, newTestLogger())

		if res := reg.ResolveOrRegister("./missing", m.Path(entry)); res.Kind != m.ReferenceUnresolved {
			t.Fatalf("missing file = %+v, want unresolved", res)
		}

		if res := reg.ResolveOrRegister("not-installed-anywhere", m.Path(entry)); res.Kind != m.ReferenceUnresolved {
			t.Fatalf("missing package = %+v, want unresolved", res)
		}
	})
}

func TestRegistry_Stats(t *testing.T) {
	t.Run("locked until traversal finishes", func(t *testing.T) {
		root := t.TempDir()
		entry := m.Path(filepath.Join(root, "index.js"))

		reg := NewRegistry(adapter.NewLocalNodeResolver(), entry, m.Options{}, newTestLogger())

		if _, err := reg.Stats(); !errors.Is(err, ErrIncomplete) {
			t.Fatalf("Stats() error = %v, want ErrIncomplete", err)
		}

		reg.Advance()

		if !reg.Complete() {
			t.Fatalf("Complete() = false after advancing past the only file")
		}

		stats, err := reg.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}

		if len(stats.Files) != 1 || stats.Files[0] != entry {
			t.Fatalf("Files = %v, want just the entry", stats.Files)
		}
	})

	t.Run("returns stable copies", func(t *testing.T) {
		root := t.TempDir()
		entry := m.Path(filepath.Join(root, "index.js"))

		reg := NewRegistry(adapter.NewLocalNodeResolver(), entry, m.Options{}, newTestLogger())
		reg.Advance()

		first, err := reg.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}

		first.Files[0] = "clobbered"

		second, err := reg.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}

		if second.Files[0] != entry {
			t.Fatalf("Files[0] = %s, registry state leaked to caller", second.Files[0])
		}
	})
}

func newTestLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
