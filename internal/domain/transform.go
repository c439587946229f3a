package domain

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mouse-blink/knit/internal/adapter"
	m "github.com/mouse-blink/knit/internal/model"
)

// requirePattern matches require calls taking a single string literal, in
// either quote style. Doubled backslashes are kept paired so escaped
// separators survive the scan. Dynamic arguments never match.
var requirePattern = regexp.MustCompile(`require\s*\(\s*(?:"((?:\\\\|[^"])*)"|'((?:\\\\|[^'])*)')\s*\)`)

// lineCommentPattern erases whole-line // comments before scanning. Textual
// heuristic, not string aware: a line of a multiline string that happens to
// start with // is erased too.
var lineCommentPattern = regexp.MustCompile(`(?m)^\s*//.*$`)

const jsonExt = ".json"

// Transformer rewrites one module body into its bundled form.
type Transformer interface {
	// Transform strips line comments, rewrites require references and path
	// tokens in body, and wraps it in the registration scaffolding for id.
	Transform(id int, path m.Path, body []byte) []byte
}

type transformer struct {
	reg       Registry
	templates adapter.Templates
	output    m.Path
	browser   bool
}

// NewTransformer builds the rewrite step for one bundle. cfg must carry the
// normalized (absolute) output path.
func NewTransformer(reg Registry, templates adapter.Templates, cfg m.Config) Transformer {
	return &transformer{
		reg:       reg,
		templates: templates,
		output:    cfg.Output,
		browser:   cfg.Browser,
	}
}

func (t *transformer) Transform(id int, path m.Path, body []byte) []byte {
	body = lineCommentPattern.ReplaceAll(body, nil)
	body = t.rewriteRequires(path, body)
	body = t.rewritePathTokens(path, body)

	var buf bytes.Buffer
	buf.Write(t.templates.FileHeader(id, path))

	if filepath.Ext(string(path)) == jsonExt {
		buf.Write(t.templates.JSONPrefix())
	}

	buf.Write(body)
	buf.Write(t.templates.FileFooter(id, path))

	return buf.Bytes()
}

// rewriteRequires replaces resolvable require calls with indexed reference
// calls. Call sites that resolve to anything else stay byte-identical, but
// the resolution side effects (registration, addon bookkeeping) still apply.
func (t *transformer) rewriteRequires(origin m.Path, body []byte) []byte {
	matches := requirePattern.FindAllSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body
	}

	var out bytes.Buffer
	out.Grow(len(body))

	last := 0

	for _, match := range matches {
		name := literalAt(body, match)

		// Collapse only the first doubled backslash, matching the observed
		// behavior of the original packer.
		name = strings.Replace(name, `\\`, `\`, 1)

		resolution := t.reg.ResolveOrRegister(name, origin)
		if resolution.Kind != m.ReferenceRegistered {
			continue
		}

		originID, ok := t.reg.IndexOf(origin)
		if !ok {
			continue
		}

		out.Write(body[last:match[0]])
		fmt.Fprintf(&out, "__require(%d, %d)", resolution.ID, originID)
		last = match[1]
	}

	out.Write(body[last:])

	return out.Bytes()
}

// literalAt extracts the quoted path from a match, whichever quote style hit.
func literalAt(body []byte, match []int) string {
	if match[2] >= 0 {
		return string(body[match[2]:match[3]])
	}

	return string(body[match[4]:match[5]])
}

// rewritePathTokens points __dirname and __filename at the runtime
// accessors. Both receive the module's path relative to the output
// directory; the dirname accessor strips the final segment itself. Without
// an output path, or in browser mode, the tokens stay untouched.
func (t *transformer) rewritePathTokens(path m.Path, body []byte) []byte {
	if t.output == "" || t.browser {
		return body
	}

	rel, err := filepath.Rel(filepath.Dir(string(t.output)), string(path))
	if err != nil {
		return body
	}

	quoted := strconv.Quote(rel)

	body = bytes.ReplaceAll(body, []byte("__dirname"), []byte("__getDirname("+quoted+")"))
	body = bytes.ReplaceAll(body, []byte("__filename"), []byte("__getFilename("+quoted+")"))

	return body
}
