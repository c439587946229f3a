package domain

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mouse-blink/knit/internal/adapter"
	m "github.com/mouse-blink/knit/internal/model"
)

type transformFixture struct {
	root  string
	entry m.Path
	reg   Registry
}

func newTransformFixture(t *testing.T, opts m.Options) transformFixture {
	t.Helper()

	root := t.TempDir()
	entry := filepath.Join(root, "index.js")
	writeFile(t, entry, "")
	writeFile(t, filepath.Join(root, "dep.js"), "")

	reg := NewRegistry(adapter.NewLocalNodeResolver(), m.Path(entry), opts, newTestLogger())

	return transformFixture{root: root, entry: m.Path(entry), reg: reg}
}

func (f transformFixture) transformer(output m.Path, opts m.Options) Transformer {
	cfg := m.Config{Entry: f.entry, Output: output, Options: opts}

	return NewTransformer(f.reg, adapter.NewBundleTemplates(), cfg)
}

func TestTransform_WrapsModuleBody(t *testing.T) {
	f := newTransformFixture(t, m.Options{})
	tr := f.transformer("", m.Options{})

	got := string(tr.Transform(0, f.entry, []byte("exports.x = 1;\n")))

	for _, want := range []string{
		"/********** Start module 0: " + string(f.entry) + " **********/",
		"__modules[0] = function(module, exports) {",
		"exports.x = 1;",
		"/********** End module 0: " + string(f.entry) + " **********/",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, got)
		}
	}
}

func TestTransform_RewritesRequireCalls(t *testing.T) {
	t.Run("double quotes", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		got := string(tr.Transform(0, f.entry, []byte(`var dep = require("./dep");`)))

		if !strings.Contains(got, "__require(1, 0)") {
			t.Fatalf("output missing indexed reference\noutput:\n%s", got)
		}

		if strings.Contains(got, `require("./dep")`) {
			t.Fatalf("original call left behind\noutput:\n%s", got)
		}
	})

	t.Run("single quotes and spacing", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		got := string(tr.Transform(0, f.entry, []byte(`var dep = require ( './dep' );`)))

		if !strings.Contains(got, "__require(1, 0)") {
			t.Fatalf("output missing indexed reference\noutput:\n%s", got)
		}
	})

	t.Run("origin id follows the requiring file", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		dep := f.reg.ResolveOrRegister("./dep", f.entry)
		if dep.ID != 1 {
			t.Fatalf("dep id = %d, want 1", dep.ID)
		}

		got := string(tr.Transform(dep.ID, dep.Path, []byte(`require("./index")`)))

		if !strings.Contains(got, "__require(0, 1)") {
			t.Fatalf("output missing back reference\noutput:\n%s", got)
		}
	})

	t.Run("doubled backslash collapses once before resolution", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		writeFile(t, filepath.Join(f.root, `win\dep.js`), "")

		got := string(tr.Transform(0, f.entry, []byte(`require("./win\\dep")`)))

		if !strings.Contains(got, "__require(1, 0)") {
			t.Fatalf("escaped reference not rewritten\noutput:\n%s", got)
		}
	})

	t.Run("unresolvable call stays byte identical", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		body := `var missing = require("nope-not-installed");`
		got := string(tr.Transform(0, f.entry, []byte(body)))

		if !strings.Contains(got, body) {
			t.Fatalf("unresolved call was altered\noutput:\n%s", got)
		}
	})

	t.Run("dynamic argument never matches", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		body := `var dyn = require(someVariable); var tpl = require("./" + name);`
		got := string(tr.Transform(0, f.entry, []byte(body)))

		if !strings.Contains(got, body) {
			t.Fatalf("dynamic call was altered\noutput:\n%s", got)
		}
	})

	t.Run("addon reference stays in place but is recorded", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		writeFile(t, filepath.Join(f.root, "build", "hello.node"), "binary")

		body := `var addon = require("./build/hello.node");`
		got := string(tr.Transform(0, f.entry, []byte(body)))

		if !strings.Contains(got, body) {
			t.Fatalf("addon call was altered\noutput:\n%s", got)
		}

		f.reg.Advance()

		stats, err := f.reg.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}

		if len(stats.AddonsExcluded) != 1 {
			t.Fatalf("addons = %v, want one entry", stats.AddonsExcluded)
		}
	})
}

func TestTransform_StripsWholeLineComments(t *testing.T) {
	f := newTransformFixture(t, m.Options{})
	tr := f.transformer("", m.Options{})

	body := "// gone forever\n" +
		"var dep = require(\"./dep\"); // inline note\n" +
		"  // indented and gone\n" +
		"// var ghost = require(\"./dep2\");\n"

	writeFile(t, filepath.Join(f.root, "dep2.js"), "")

	got := string(tr.Transform(0, f.entry, []byte(body)))

	if strings.Contains(got, "gone forever") || strings.Contains(got, "indented and gone") {
		t.Fatalf("whole-line comment survived\noutput:\n%s", got)
	}

	if !strings.Contains(got, "// inline note") {
		t.Fatalf("trailing comment was stripped\noutput:\n%s", got)
	}

	// The commented-out require must not be scanned, so dep2 never joins.
	if _, ok := f.reg.IndexOf(m.Path(filepath.Join(f.root, "dep2.js"))); ok {
		t.Fatalf("reference inside a comment was registered")
	}
}

func TestTransform_JSONModule(t *testing.T) {
	f := newTransformFixture(t, m.Options{})
	tr := f.transformer("", m.Options{})

	data := m.Path(filepath.Join(f.root, "config.json"))
	got := string(tr.Transform(1, data, []byte(`{"name": "demo"}`)))

	if !strings.Contains(got, `module.exports = {"name": "demo"}`) {
		t.Fatalf("json body not prefixed\noutput:\n%s", got)
	}

	prefixAt := strings.Index(got, "module.exports = ")
	openerAt := strings.Index(got, "__modules[1] = function(module, exports) {")

	if openerAt < 0 || prefixAt < openerAt {
		t.Fatalf("prefix placed outside the module wrapper\noutput:\n%s", got)
	}
}

func TestTransform_PathTokens(t *testing.T) {
	t.Run("rewritten relative to the output directory", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		output := m.Path(filepath.Join(f.root, "out", "bundle.js"))
		tr := f.transformer(output, m.Options{})

		got := string(tr.Transform(0, f.entry, []byte("console.log(__dirname, __filename);")))

		if !strings.Contains(got, `__getDirname("../index.js")`) {
			t.Fatalf("__dirname not rewritten\noutput:\n%s", got)
		}

		if !strings.Contains(got, `__getFilename("../index.js")`) {
			t.Fatalf("__filename not rewritten\noutput:\n%s", got)
		}
	})

	t.Run("untouched without an output path", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{})
		tr := f.transformer("", m.Options{})

		got := string(tr.Transform(0, f.entry, []byte("console.log(__dirname);")))

		if !strings.Contains(got, "console.log(__dirname);") {
			t.Fatalf("tokens rewritten without an output\noutput:\n%s", got)
		}
	})

	t.Run("untouched in browser mode", func(t *testing.T) {
		f := newTransformFixture(t, m.Options{Browser: true})
		output := m.Path(filepath.Join(f.root, "out", "bundle.js"))
		tr := f.transformer(output, m.Options{Browser: true})

		got := string(tr.Transform(0, f.entry, []byte("console.log(__filename);")))

		if !strings.Contains(got, "console.log(__filename);") {
			t.Fatalf("tokens rewritten in browser mode\noutput:\n%s", got)
		}
	})
}
