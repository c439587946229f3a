package controller

import (
	"bytes"
	"fmt"

	m "github.com/mouse-blink/knit/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayStats prints the module table in identity order, then the native
// addons left out of the bundle.
func (s *SimpleUI) DisplayStats(stats m.Stats) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Module"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for id, path := range stats.Files {
		table.Append([]string{fmt.Sprintf("%d", id), string(path)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(stats.Files))})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if len(stats.AddonsExcluded) > 0 {
		s.printf("\nNative addons excluded:\n")

		for _, addon := range stats.AddonsExcluded {
			s.printf("  %s\n", addon)
		}
	}

	return nil
}

// DisplaySummary prints one row per finished bundle with totals.
func (s *SimpleUI) DisplaySummary(results []m.BundleResult) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Entry", "Output", "Modules", "Addons", "Bytes"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	var (
		modules int
		addons  int
		written int64
	)

	for _, r := range results {
		table.Append([]string{
			string(r.Entry),
			string(r.Output),
			fmt.Sprintf("%d", r.ModuleCount),
			fmt.Sprintf("%d", r.AddonCount),
			fmt.Sprintf("%d", r.Bytes),
		})

		modules += r.ModuleCount
		addons += r.AddonCount
		written += r.Bytes
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Bundles %d", len(results)),
		"",
		fmt.Sprintf("%d", modules),
		fmt.Sprintf("%d", addons),
		fmt.Sprintf("%d", written),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// Browse lists the modules; interactive browsing needs a TTY.
func (s *SimpleUI) Browse(stats m.Stats) error {
	return s.DisplayStats(stats)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
