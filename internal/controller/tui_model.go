package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/knit/internal/model"
)

type tickMsg time.Time

// moduleItem is one bundled file in the browser list.
type moduleItem struct {
	id   int
	path string
}

func (i moduleItem) FilterValue() string {
	return i.path
}

// Compact delegate for module list items.
type moduleDelegate struct {
	offset int
}

func (d moduleDelegate) Height() int  { return 1 }
func (d moduleDelegate) Spacing() int { return 0 }
func (d moduleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d moduleDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	module, ok := item.(moduleItem)
	if !ok {
		return
	}

	isSelected := index == lm.Index()

	var idStyle, pathStyle lipgloss.Style

	var displayPath string

	width := lm.Width() - 8 // Subtract id width (6) + spacing (2)

	if isSelected {
		idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(6).
			Align(lipgloss.Right)
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		displayPath = animateScroll(module.path, width, d.offset)
	} else {
		idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(6).
			Align(lipgloss.Right)
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		displayPath = truncateToWidth(module.path, width)
	}

	line := fmt.Sprintf("%s  %s",
		idStyle.Render(fmt.Sprintf("%d", module.id)),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	// Work with runes so multi-byte characters survive the window math
	runes := []rune(text + gap)
	n := len(runes)

	if n == 0 {
		return ""
	}

	start := effectiveStep % n

	res := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// browseModel lists the bundled modules with filtering and scroll animation
// for paths wider than the window.
type browseModel struct {
	width        int
	height       int
	moduleList   list.Model
	delegate     moduleDelegate
	totalModules int
	totalAddons  int
	animOffset   int
	lastSelected int
}

func newBrowseModel(stats m.Stats) browseModel {
	delegate := moduleDelegate{}
	moduleList := list.New([]list.Item{}, delegate, 80, 20)
	moduleList.SetShowPagination(false)
	moduleList.SetShowFilter(true)
	moduleList.SetShowHelp(false)
	moduleList.SetShowTitle(false)
	moduleList.SetShowStatusBar(false)
	moduleList.FilterInput.Placeholder = "Filter by path…"

	items := make([]list.Item, 0, len(stats.Files))
	for id, path := range stats.Files {
		items = append(items, moduleItem{id: id, path: string(path)})
	}

	moduleList.SetItems(items)

	return browseModel{
		moduleList:   moduleList,
		delegate:     delegate,
		totalModules: len(stats.Files),
		totalAddons:  len(stats.AddonsExcluded),
		lastSelected: -1,
	}
}

func (bm browseModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (bm browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.width = msg.Width
		bm.height = msg.Height
		bm.moduleList.SetWidth(bm.width)

	case tickMsg:
		if bm.moduleList.FilterState() != list.Filtering {
			bm.animOffset++
			bm.delegate.offset = bm.animOffset
			bm.moduleList.SetDelegate(bm.delegate)

			return bm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return bm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return bm, tea.Quit
		default:
			var newList list.Model

			newList, cmd = bm.moduleList.Update(msg)
			bm.moduleList = newList

			// Selection change resets the scroll animation
			if bm.moduleList.Index() != bm.lastSelected {
				bm.lastSelected = bm.moduleList.Index()
				bm.animOffset = 0
				bm.delegate.offset = 0
				bm.moduleList.SetDelegate(bm.delegate)
			}

			return bm, cmd
		}
	}

	return bm, cmd
}

func (bm browseModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("🧵 Knit Bundle Modules")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Modules: %s   Addons excluded: %s",
		accentStyle.Render(fmt.Sprintf("%d", bm.totalModules)),
		accentStyle.Render(fmt.Sprintf("%d", bm.totalAddons)),
	))

	table := bm.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(bm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (bm browseModel) renderTable() string {
	// Screen height minus title (2), summary (2), footer (1), border (2)
	// and header row (2) leaves the list area.
	listHeight := bm.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	// Window width minus margin (2), border (2) and padding (2).
	listWidth := bm.width - 6

	bm.moduleList.SetHeight(listHeight)
	bm.moduleList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%6s  %s", "ID", "Module Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			bm.moduleList.View(),
		),
	)
}
