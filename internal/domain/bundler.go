package domain

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/knit/internal/adapter"
	m "github.com/mouse-blink/knit/internal/model"
)

// Bundler streams one bundle. The engine produces the next chunk only once
// the previous one has been fully consumed, so the consumer's pace directly
// throttles traversal. All traversal state is preserved between reads.
type Bundler interface {
	io.Reader

	// Stats returns the discovery results once the traversal has finished,
	// and ErrIncomplete before that. A stream that failed never completes.
	Stats() (m.Stats, error)
}

type bundler struct {
	emitter Emitter
	reg     Registry

	pending []byte
	err     error
}

// NewBundler builds the engine for one bundle. Entry, output and exclude
// paths are normalized to absolute form so identity comparisons are stable
// regardless of the caller's working directory. A missing entry file is not
// detected here: it surfaces as the read failure of module 0.
func NewBundler(cfg m.Config, resolver adapter.Resolver, fs adapter.SourceFSAdapter, templates adapter.Templates, logger *log.Logger) (Bundler, error) {
	entry, err := fs.Abs(cfg.Entry)
	if err != nil {
		return nil, fmt.Errorf("failed to absolutize entry %s: %w", cfg.Entry, err)
	}

	cfg.Entry = entry

	if cfg.Output != "" {
		output, err := fs.Abs(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to absolutize output %s: %w", cfg.Output, err)
		}

		cfg.Output = output
	}

	excludes := make([]m.Path, 0, len(cfg.ExcludeFiles))

	for _, p := range cfg.ExcludeFiles {
		abs, err := fs.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to absolutize exclude %s: %w", p, err)
		}

		excludes = append(excludes, abs)
	}

	cfg.ExcludeFiles = excludes

	reg := NewRegistry(resolver, cfg.Entry, cfg.Options, logger)
	transform := NewTransformer(reg, templates, cfg)

	return &bundler{
		emitter: newEmitter(reg, fs, transform, templates, logger),
		reg:     reg,
	}, nil
}

func (b *bundler) Read(p []byte) (int, error) {
	for len(b.pending) == 0 {
		if b.err != nil {
			return 0, b.err
		}

		chunk, err := b.emitter.Next()
		if err != nil {
			b.err = err

			return 0, err
		}

		b.pending = chunk
	}

	n := copy(p, b.pending)
	b.pending = b.pending[n:]

	return n, nil
}

func (b *bundler) Stats() (m.Stats, error) {
	return b.reg.Stats()
}
