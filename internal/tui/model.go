// pattern: Imperative Shell

// Package tui is the interactive catalog browser.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skillview/internal/catalog"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

// Catalog produces a fresh snapshot of the skills tree.
type Catalog interface {
	Scan() []catalog.Entry
}

// UsageStore records and reports per-entry usage.
type UsageStore interface {
	Increment(id string) (usage.Record, error)
	All() (usage.Stats, error)
}

// StatusLevel selects the status bar icon and color.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (l StatusLevel) String() string {
	switch l {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "info"
	}
}

// Options configures a Model.
type Options struct {
	Root      string // shown under the title
	Theme     string
	Language  present.Language
	Overrides present.Overrides
	Catalog   Catalog
	Usage     UsageStore              // optional
	Logs      <-chan logging.LogEntry // optional; problems show in the status bar
	Logger    *logging.ScopedLogger   // optional
	// OnScan receives every scan result the model applies.
	OnScan func([]catalog.Entry)
}

// Model represents the TUI application state.
type Model struct {
	width  int
	height int
	root   string
	styles *Styles
	keys   KeyMap
	help   help.Model

	catalog   Catalog
	usage     UsageStore
	presenter *present.Presenter
	logs      <-chan logging.LogEntry
	logger    *logging.ScopedLogger
	onScan    func([]catalog.Entry)

	entries  []catalog.Entry
	stats    usage.Stats
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int

	filtering bool
	filter    textinput.Model

	detailOpen bool
	detailID   string
	detail     viewport.Model

	// scanSeq tags the latest scan request; results carrying an older tag
	// are discarded.
	scanSeq int
	loading bool
	spinner spinner.Model

	statusLevel   StatusLevel
	statusMessage string
	lastProblem   *logging.LogEntry
	webURL        string
}

// NewModel creates a browser. The first scan starts in Init.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	lang := opts.Language
	if lang == "" {
		lang = present.DefaultLanguage
	}
	styles := NewStyles(opts.Theme)
	presenter := present.New(lang, opts.Overrides)

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = presenter.T(present.KeyFilter)

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.flavor.Mauve().Hex))

	return Model{
		root:          opts.Root,
		styles:        styles,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		catalog:       opts.Catalog,
		usage:         opts.Usage,
		presenter:     presenter,
		logs:          opts.Logs,
		logger:        logger,
		onScan:        opts.OnScan,
		stats:         usage.Stats{},
		expanded:      make(map[string]bool),
		filter:        filter,
		detail:        viewport.New(0, 0),
		scanSeq:       1,
		loading:       true,
		spinner:       spin,
		statusLevel:   StatusLoading,
		statusMessage: presenter.T(present.KeyLoading),
	}
}

// Init starts the initial scan, the usage load and the log consumer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanCmd(m.scanSeq),
		m.spinner.Tick,
		m.loadUsage(),
		m.waitForLog(),
	)
}

// selected returns the row under the cursor.
func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) layout() Layout {
	return ComputeLayout(m.width, m.height, m.filterVisible(), m.detailOpen)
}

func (m Model) filterVisible() bool {
	return m.filtering || m.filter.Value() != ""
}

// rebuildRows recomputes the visible rows, keeping the cursor on the same
// entry when it is still visible.
func (m *Model) rebuildRows() {
	var keep string
	if r, ok := m.selected(); ok {
		keep = r.entry.ID
	}

	if q := m.filter.Value(); q != "" {
		m.rows = filterRows(m.entries, m.presenter, q)
	} else {
		m.rows = flatten(m.entries, m.expanded)
	}

	m.cursor = 0
	for i, r := range m.rows {
		if r.entry.ID == keep {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.ensureVisible()
}

// ensureVisible scrolls the tree so the cursor row is on screen.
func (m *Model) ensureVisible() {
	height := m.layout().Tree.Height
	if height <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-height))
}

// applyEntries installs a new snapshot.
func (m *Model) applyEntries(entries []catalog.Entry) {
	m.entries = entries
	m.loading = false
	m.rebuildRows()
	if m.detailOpen {
		if _, ok := catalog.Find(entries, m.detailID); ok {
			m.updateDetailContent()
		} else {
			m.closeDetail()
		}
	}
	m.setStatus(StatusSuccess, m.presenter.T(present.KeyTotalSkills, catalog.Count(entries)))
}

func (m *Model) setStatus(level StatusLevel, msg string) {
	m.statusLevel = level
	m.statusMessage = msg
}

func (m *Model) openDetail(id string) {
	m.detailOpen = true
	m.detailID = id
	m.resize()
	m.detail.GotoTop()
}

func (m *Model) closeDetail() {
	m.detailOpen = false
	m.detailID = ""
	m.resize()
}

// resize fits the viewport and tree offset to the current layout.
func (m *Model) resize() {
	l := m.layout()
	m.help.Width = m.width
	m.filter.Width = max(l.Filter.Width-4, 0)
	// Border and padding take two columns.
	m.detail.Width = max(l.Detail.Width-2, 0)
	m.detail.Height = l.Detail.Height
	m.updateDetailContent()
	m.ensureVisible()
}

func (m *Model) updateDetailContent() {
	if !m.detailOpen {
		return
	}
	e, ok := catalog.Find(m.entries, m.detailID)
	if !ok {
		return
	}
	m.detail.SetContent(m.renderDetailContent(e, m.detail.Width))
}

func (m *Model) toggleLanguage() {
	lang := m.presenter.Language().Toggle()
	m.presenter = m.presenter.WithLanguage(lang)
	m.filter.Placeholder = m.presenter.T(present.KeyFilter)
	m.rebuildRows()
	m.updateDetailContent()
	if !m.loading {
		m.setStatus(StatusInfo, m.presenter.T(present.KeyTotalSkills, catalog.Count(m.entries)))
	}
	m.logger.Debug("language changed", "language", lang.String())
}

// SkillCount returns the number of entries in the current snapshot.
func (m Model) SkillCount() int {
	return catalog.Count(m.entries)
}

// SelectedID returns the ID under the cursor, or "" when nothing is shown.
func (m Model) SelectedID() string {
	r, ok := m.selected()
	if !ok {
		return ""
	}
	return r.entry.ID
}

// DetailOpen reports whether the detail panel is showing.
func (m Model) DetailOpen() bool {
	return m.detailOpen
}
