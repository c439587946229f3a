package domain

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/knit/internal/adapter"
	"github.com/mouse-blink/knit/internal/controller"
	m "github.com/mouse-blink/knit/internal/model"
)

// BundleArgs parameterizes one bundling run. Entries and Outputs are matched
// pairwise; a single entry with no output streams to the command's out
// stream instead.
type BundleArgs struct {
	Entries []m.Path
	Outputs []m.Path
	Options m.Options
}

// InspectArgs parameterizes a discovery dry run.
type InspectArgs struct {
	Entry   m.Path
	Options m.Options
}

// ViewArgs parameterizes the interactive module browser.
type ViewArgs struct {
	InspectArgs
}

// Workflow defines the bundling operations exposed to the CLI.
type Workflow interface {
	Bundle(args BundleArgs) error
	Inspect(args InspectArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	store     adapter.BundleStore
	resolver  adapter.Resolver
	templates adapter.Templates
	ui        controller.UI
	out       io.Writer
	logger    *log.Logger
}

// NewWorkflow creates a Workflow instance with the provided adapters. out
// receives the bundle when no output path is given.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	store adapter.BundleStore,
	resolver adapter.Resolver,
	templates adapter.Templates,
	ui controller.UI,
	out io.Writer,
	logger *log.Logger,
) Workflow {
	return &workflow{
		fsAdapter: fsAdapter,
		store:     store,
		resolver:  resolver,
		templates: templates,
		ui:        ui,
		out:       out,
		logger:    logger,
	}
}

// Bundle streams each entry/output pair and reports a summary. With a single
// entry and no output path the bundle goes to the out stream and the summary
// is skipped so the stream stays clean.
func (w *workflow) Bundle(args BundleArgs) error {
	if len(args.Entries) == 0 {
		return errors.New("no entry file given")
	}

	if len(args.Outputs) == 0 && len(args.Entries) == 1 {
		_, err := w.bundleTo(args.Entries[0], "", args.Options, w.out)

		return err
	}

	if len(args.Outputs) != len(args.Entries) {
		return fmt.Errorf("%d entries require %d output paths, got %d",
			len(args.Entries), len(args.Entries), len(args.Outputs))
	}

	results := make([]m.BundleResult, len(args.Entries))

	var g errgroup.Group

	for i := range args.Entries {
		i := i
		g.Go(func() error {
			result, err := w.bundleFile(args.Entries[i], args.Outputs[i], args.Options)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return w.ui.DisplaySummary(results)
}

// Inspect runs discovery without keeping the output and displays the module
// table.
func (w *workflow) Inspect(args InspectArgs) error {
	stats, err := w.discover(args.Entry, args.Options)
	if err != nil {
		return err
	}

	return w.ui.DisplayStats(stats)
}

// View runs discovery without keeping the output and opens the interactive
// module browser.
func (w *workflow) View(args ViewArgs) error {
	stats, err := w.discover(args.Entry, args.Options)
	if err != nil {
		return err
	}

	return w.ui.Browse(stats)
}

// bundleFile streams one entry to its output file.
func (w *workflow) bundleFile(entry, output m.Path, opts m.Options) (m.BundleResult, error) {
	dst, err := w.store.Create(output)
	if err != nil {
		return m.BundleResult{}, err
	}

	result, err := w.bundleTo(entry, output, opts, dst)

	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output %s: %w", output, closeErr)
	}

	return result, err
}

// bundleTo drives one engine to dst and collects the result.
func (w *workflow) bundleTo(entry, output m.Path, opts m.Options, dst io.Writer) (m.BundleResult, error) {
	w.logger.Debug("bundling", "entry", entry, "output", output)

	cfg := m.Config{Entry: entry, Output: output, Options: opts}

	bundler, err := NewBundler(cfg, w.resolver, w.fsAdapter, w.templates, w.logger)
	if err != nil {
		return m.BundleResult{}, err
	}

	n, err := io.Copy(dst, bundler)
	if err != nil {
		return m.BundleResult{}, fmt.Errorf("failed to bundle %s: %w", entry, err)
	}

	stats, err := bundler.Stats()
	if err != nil {
		return m.BundleResult{}, err
	}

	return m.BundleResult{
		Entry:       entry,
		Output:      output,
		ModuleCount: len(stats.Files),
		AddonCount:  len(stats.AddonsExcluded),
		Bytes:       n,
	}, nil
}

// discover drives a full traversal with the bundle bytes discarded.
func (w *workflow) discover(entry m.Path, opts m.Options) (m.Stats, error) {
	cfg := m.Config{Entry: entry, Options: opts}

	bundler, err := NewBundler(cfg, w.resolver, w.fsAdapter, w.templates, w.logger)
	if err != nil {
		return m.Stats{}, err
	}

	if _, err := io.Copy(io.Discard, bundler); err != nil {
		return m.Stats{}, fmt.Errorf("failed to traverse %s: %w", entry, err)
	}

	return bundler.Stats()
}
