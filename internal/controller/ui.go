// Package controller provides output adapters for displaying bundle results.
package controller

import (
	m "github.com/mouse-blink/knit/internal/model"
)

// UI defines the interface for presenting discovery and bundle results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayStats prints the module table and the excluded native addons.
	DisplayStats(stats m.Stats) error

	// DisplaySummary prints one row per finished bundle.
	DisplaySummary(results []m.BundleResult) error

	// Browse shows the discovered modules interactively where the output
	// supports it.
	Browse(stats m.Stats) error
}
