// pattern: Imperative Shell

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"skillview/internal/catalog"
	"skillview/internal/events"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

// scanResultMsg delivers the result of the scan tagged seq.
type scanResultMsg struct {
	seq     int
	entries []catalog.Entry
}

// usageLoadedMsg delivers the full usage table.
type usageLoadedMsg struct {
	stats usage.Stats
	err   error
}

// usageRecordedMsg reports the outcome of one increment.
type usageRecordedMsg struct {
	id     string
	record usage.Record
	err    error
}

// logEntryMsg delivers one entry from the logging channel.
type logEntryMsg struct {
	entry logging.LogEntry
}

// scanCmd scans in the background and tags the result with seq.
func (m Model) scanCmd(seq int) tea.Cmd {
	scanner := m.catalog
	return func() tea.Msg {
		return scanResultMsg{seq: seq, entries: scanner.Scan()}
	}
}

// refresh supersedes any scan in flight with a new one.
func (m *Model) refresh() tea.Cmd {
	m.scanSeq++
	m.loading = true
	m.setStatus(StatusLoading, m.presenter.T(present.KeyLoading))
	m.logger.Debug("refresh requested", "seq", m.scanSeq)
	return tea.Batch(m.scanCmd(m.scanSeq), m.spinner.Tick)
}

func (m Model) loadUsage() tea.Cmd {
	store := m.usage
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := store.All()
		return usageLoadedMsg{stats: stats, err: err}
	}
}

func (m Model) recordUse(id string) tea.Cmd {
	store := m.usage
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		rec, err := store.Increment(id)
		return usageRecordedMsg{id: id, record: rec, err: err}
	}
}

// waitForLog blocks on the next log entry. A closed channel ends the loop.
func (m Model) waitForLog() tea.Cmd {
	ch := m.logs
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg{entry: entry}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)

	case scanResultMsg:
		if msg.seq != m.scanSeq {
			m.logger.Debug("dropping stale scan result", "seq", msg.seq, "latest", m.scanSeq)
			return m, nil
		}
		m.applyEntries(msg.entries)
		if m.onScan != nil {
			m.onScan(msg.entries)
		}
		return m, nil

	case events.CatalogRefreshedMsg:
		// A refresh through the web API is newer than any local scan in flight.
		m.scanSeq++
		m.applyEntries(msg.Entries)
		return m, nil

	case events.UsageChangedMsg:
		return m, m.loadUsage()

	case events.WebListenURLMsg:
		m.webURL = msg.URL
		return m, nil

	case usageLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load usage", "error", msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.updateDetailContent()
		return m, nil

	case usageRecordedMsg:
		if msg.err != nil {
			m.logger.Error("failed to record usage", "id", msg.id, "error", msg.err)
			m.setStatus(StatusError, m.presenter.T(present.KeyError))
			return m, nil
		}
		if m.stats == nil {
			m.stats = usage.Stats{}
		}
		m.stats[msg.id] = msg.record
		m.updateDetailContent()
		return m, nil

	case logEntryMsg:
		if msg.entry.IsProblem() {
			entry := msg.entry
			m.lastProblem = &entry
		}
		return m, m.waitForLog()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.toggleGroup()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.open()

	case key.Matches(msg, m.keys.Close):
		switch {
		case m.detailOpen:
			m.closeDetail()
		case m.filter.Value() != "":
			m.clearFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.resize()
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Language):
		m.toggleLanguage()
		return m, nil
	}

	// Paging keys scroll the detail panel.
	if m.detailOpen {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.clearFilter()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		m.resize()
		return m, nil
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		// Best match first.
		m.rebuildRows()
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

func (m *Model) clearFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.Reset()
	m.rebuildRows()
	m.resize()
}

// toggleGroup expands or collapses the group under the cursor. Filtered
// rows are flat, so there is nothing to expand.
func (m *Model) toggleGroup() {
	r, ok := m.selected()
	if !ok || !r.entry.IsGroup || m.filter.Value() != "" {
		return
	}
	m.expanded[r.entry.ID] = !m.expanded[r.entry.ID]
	m.rebuildRows()
}

// open expands a group or shows a leaf's detail and records one use.
func (m Model) open() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	if r.entry.IsGroup {
		if m.filter.Value() != "" {
			// Leave the search and land on the group, expanded.
			m.expanded[r.entry.ID] = true
			m.clearFilter()
			return m, nil
		}
		m.toggleGroup()
		return m, nil
	}

	m.openDetail(r.entry.ID)
	m.logger.Info("skill opened", "id", r.entry.ID)
	return m, m.recordUse(r.entry.ID)
}
