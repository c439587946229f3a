package domain

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mouse-blink/knit/internal/adapter"
)

// Emitter produces the bundle as a sequence of protocol chunks: the global
// header, one wrapped module per call in identity order, the global footer,
// then io.EOF forever. The module list may still grow while emission is in
// flight; emission ends only when the cursor catches up with the list.
type Emitter interface {
	// Next returns the next chunk. A module read failure is returned
	// wrapped, repeats on every later call, and stops all further output.
	Next() ([]byte, error)
}

type emitterState int

const (
	stateNotStarted emitterState = iota
	stateStreaming
	stateEnded
	stateErrored
)

type emitter struct {
	reg       Registry
	fs        adapter.SourceFSAdapter
	transform Transformer
	templates adapter.Templates
	logger    *log.Logger

	state emitterState
	err   error
}

func newEmitter(reg Registry, fs adapter.SourceFSAdapter, transform Transformer, templates adapter.Templates, logger *log.Logger) *emitter {
	return &emitter{
		reg:       reg,
		fs:        fs,
		transform: transform,
		templates: templates,
		logger:    logger,
	}
}

func (e *emitter) Next() ([]byte, error) {
	switch e.state {
	case stateErrored:
		return nil, e.err
	case stateEnded:
		return nil, io.EOF
	case stateNotStarted:
		e.state = stateStreaming

		return e.templates.Header(), nil
	case stateStreaming:
	}

	if e.reg.Complete() {
		e.state = stateEnded

		return e.templates.Footer(), nil
	}

	id := e.reg.Cursor()
	path := e.reg.PathAt(id)

	body, err := e.fs.ReadFile(path)
	if err != nil {
		e.state = stateErrored
		e.err = fmt.Errorf("failed to read module %s: %w", path, err)

		return nil, e.err
	}

	// Advance before transforming: a failure later in the stream must never
	// reprocess this file.
	e.reg.Advance()
	e.logger.Debug("module emitted", "id", id, "path", path)

	return e.transform.Transform(id, path, body), nil
}
