package controller

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/mouse-blink/knit/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. The
// non-interactive methods render through SimpleUI so redirected runs and
// terminal runs report identically.
type TUI struct {
	output io.Writer
	simple *SimpleUI
}

// NewTUI creates a new TUI writing to the command's output stream.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		output: cmd.OutOrStdout(),
		simple: NewSimpleUI(cmd),
	}
}

// DisplayStats prints the module table.
func (t *TUI) DisplayStats(stats m.Stats) error {
	return t.simple.DisplayStats(stats)
}

// DisplaySummary prints the bundle summary table.
func (t *TUI) DisplaySummary(results []m.BundleResult) error {
	return t.simple.DisplaySummary(results)
}

// Browse opens the interactive module browser.
func (t *TUI) Browse(stats m.Stats) error {
	model := newBrowseModel(stats)

	// Seed the size so the first frame is laid out before the program's own
	// WindowSizeMsg arrives.
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}
