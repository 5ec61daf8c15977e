package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skillview/internal/catalog"
	"skillview/internal/events"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

type fakeCatalog struct {
	entries []catalog.Entry
	scans   int
}

func (c *fakeCatalog) Scan() []catalog.Entry {
	c.scans++
	return c.entries
}

type fakeUsage struct {
	mu         sync.Mutex
	stats      usage.Stats
	increments []string
}

func (u *fakeUsage) Increment(id string) (usage.Record, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec := u.stats[id]
	rec.Count++
	rec.LastUsed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u.stats[id] = rec
	u.increments = append(u.increments, id)
	return rec, nil
}

func (u *fakeUsage) All() (usage.Stats, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(usage.Stats, len(u.stats))
	for k, v := range u.stats {
		out[k] = v
	}
	return out, nil
}

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{ID: "my-tool", DisplayName: "My Tool", Description: "Does useful things", Path: "/skills/my-tool"},
		{ID: "prd-writer", DisplayName: "Prd Writer", Path: "/skills/prd-writer"},
		{
			ID: "superpowers", DisplayName: "Superpowers", Path: "/skills/superpowers", IsGroup: true,
			Children: []catalog.Entry{
				{ID: "brainstorming", DisplayName: "Brainstorming", Path: "/skills/superpowers/brainstorming"},
				{ID: "writing-plans", DisplayName: "Writing Plans", Path: "/skills/superpowers/writing-plans"},
			},
		},
	}
}

// newTestModel returns a sized model with the initial scan applied.
func newTestModel(t *testing.T, lang present.Language) (Model, *fakeCatalog, *fakeUsage) {
	t.Helper()
	cat := &fakeCatalog{entries: testEntries()}
	store := &fakeUsage{stats: usage.Stats{}}
	m := NewModel(Options{
		Root:      "/skills",
		Theme:     "mocha",
		Language:  lang,
		Overrides: present.BuiltinOverrides(),
		Catalog:   cat,
		Usage:     store,
	})
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(m, m.scanCmd(m.scanSeq)())
	return m, cat, store
}

func update(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, k string) (Model, tea.Cmd) {
	updated, cmd := m.Update(keyMsg(k))
	return updated.(Model), cmd
}

func rowIDs(m Model) []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.entry.ID
	}
	return ids
}

func TestStatusLevel_String(t *testing.T) {
	tests := []struct {
		level StatusLevel
		want  string
	}{
		{StatusInfo, "info"},
		{StatusLoading, "loading"},
		{StatusSuccess, "success"},
		{StatusError, "error"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("StatusLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestNewModel_StartsLoading(t *testing.T) {
	m := NewModel(Options{Catalog: &fakeCatalog{}})
	if !m.loading {
		t.Error("new model should be loading")
	}
	if m.statusLevel != StatusLoading {
		t.Errorf("statusLevel = %v, want %v", m.statusLevel, StatusLoading)
	}
	if m.Init() == nil {
		t.Error("Init should return a command")
	}
}

func TestScanResult_Applied(t *testing.T) {
	m, cat, _ := newTestModel(t, present.English)

	if cat.scans != 1 {
		t.Errorf("scans = %d, want 1", cat.scans)
	}
	if m.loading {
		t.Error("loading should be false after the scan")
	}
	want := []string{"my-tool", "prd-writer", "superpowers"}
	if got := rowIDs(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if m.statusLevel != StatusSuccess || m.statusMessage != "5 skills" {
		t.Errorf("status = %v %q, want success %q", m.statusLevel, m.statusMessage, "5 skills")
	}
}

func TestScanResult_StaleDropped(t *testing.T) {
	m := NewModel(Options{Catalog: &fakeCatalog{}})
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = press(m, "r")
	m, _ = press(m, "r")
	if m.scanSeq != 3 {
		t.Fatalf("scanSeq = %d, want 3", m.scanSeq)
	}

	// The initial and first refresh results arrive late.
	m = update(m, scanResultMsg{seq: 1, entries: testEntries()[:1]})
	m = update(m, scanResultMsg{seq: 2, entries: testEntries()[:2]})
	if len(m.entries) != 0 || !m.loading {
		t.Fatalf("stale results applied: entries = %d, loading = %v", len(m.entries), m.loading)
	}

	m = update(m, scanResultMsg{seq: 3, entries: testEntries()})
	if len(m.entries) != 3 || m.loading {
		t.Errorf("latest result not applied: entries = %d, loading = %v", len(m.entries), m.loading)
	}
}

func TestRefreshKey(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)

	m, cmd := press(m, "r")
	if cmd == nil {
		t.Fatal("refresh should return a command")
	}
	if m.scanSeq != 2 {
		t.Errorf("scanSeq = %d, want 2", m.scanSeq)
	}
	if m.statusLevel != StatusLoading {
		t.Errorf("statusLevel = %v, want %v", m.statusLevel, StatusLoading)
	}
	// Rows stay visible while the rescan runs.
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3", len(m.rows))
	}
}

func TestOnScan_CalledForAppliedResultsOnly(t *testing.T) {
	var published [][]catalog.Entry
	m := NewModel(Options{
		Catalog: &fakeCatalog{},
		OnScan:  func(e []catalog.Entry) { published = append(published, e) },
	})
	m, _ = press(m, "r")

	m = update(m, scanResultMsg{seq: 1, entries: testEntries()})
	m = update(m, scanResultMsg{seq: 2, entries: testEntries()})
	_ = m

	if len(published) != 1 {
		t.Errorf("published %d times, want 1", len(published))
	}
}

func TestCatalogRefreshedMsg_SupersedesPendingScan(t *testing.T) {
	m := NewModel(Options{Catalog: &fakeCatalog{}})
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(m, events.CatalogRefreshedMsg{Entries: testEntries()})
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}

	// The initial scan returns afterwards with an older tree.
	m = update(m, scanResultMsg{seq: 1, entries: nil})
	if len(m.rows) != 3 {
		t.Errorf("older scan overwrote the web refresh: rows = %d", len(m.rows))
	}
}

func TestGroupExpansion(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m.cursor = 2

	m, _ = press(m, "space")
	want := []string{"my-tool", "prd-writer", "superpowers", "brainstorming", "writing-plans"}
	if got := rowIDs(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if m.rows[3].depth != 1 || m.rows[3].last {
		t.Errorf("first child row = %+v, want depth 1, not last", m.rows[3])
	}
	if !m.rows[4].last {
		t.Error("second child should be last")
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m, cmd := press(m, "enter")
	if len(m.rows) != 3 {
		t.Errorf("enter on an expanded group should collapse it, rows = %d", len(m.rows))
	}
	if cmd != nil {
		t.Error("toggling a group should not record usage")
	}
}

func TestFilter_NarrowsRows(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)

	m, _ = press(m, "/")
	if !m.filtering {
		t.Fatal("/ should start filtering")
	}
	m, _ = press(m, "brain")

	if got := rowIDs(m); len(got) != 1 || got[0] != "brainstorming" {
		t.Fatalf("rows = %v, want [brainstorming]", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	m, _ = press(m, "esc")
	if m.filtering || m.filter.Value() != "" {
		t.Error("esc should clear the filter")
	}
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3 after clearing", len(m.rows))
	}
}

func TestFilter_KeysAreTypedNotBound(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m, _ = press(m, "/")

	m, _ = press(m, "q")
	if m.filter.Value() != "q" {
		t.Errorf("filter = %q, want %q", m.filter.Value(), "q")
	}
	if !m.filtering {
		t.Error("q while filtering should be typed into the search")
	}
}

func TestFilter_MatchesLocalizedName(t *testing.T) {
	m, _, _ := newTestModel(t, present.Chinese)
	m, _ = press(m, "/")
	m, _ = press(m, "撰写")

	// "PRD 撰写" and "撰写计划"
	if len(m.rows) != 2 {
		t.Fatalf("rows = %v, want prd-writer and writing-plans", rowIDs(m))
	}
	var prd *row
	for i := range m.rows {
		if m.rows[i].entry.ID == "prd-writer" {
			prd = &m.rows[i]
		}
	}
	if prd == nil {
		t.Fatalf("prd-writer missing from %v", rowIDs(m))
	}
	if got := prd.matches; len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Errorf("matches = %v, want [4 5]", got)
	}
}

func TestFilter_EnterOnGroupExpandsIt(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m, _ = press(m, "/")
	m, _ = press(m, "superp")
	m, _ = press(m, "enter") // leave the input, keep the filter

	if m.filtering || m.filter.Value() != "superp" {
		t.Fatalf("filtering = %v, filter = %q", m.filtering, m.filter.Value())
	}

	m, _ = press(m, "enter")
	if m.filter.Value() != "" {
		t.Error("opening a group from search should clear the filter")
	}
	if !m.expanded["superpowers"] {
		t.Error("group should be expanded")
	}
	if r, ok := m.selected(); !ok || r.entry.ID != "superpowers" {
		t.Errorf("cursor should stay on the group, got %+v", r.entry.ID)
	}
}

func TestEnterOnLeaf_OpensDetailAndRecordsUse(t *testing.T) {
	m, _, store := newTestModel(t, present.English)

	m, cmd := press(m, "enter")
	if !m.detailOpen || m.detailID != "my-tool" {
		t.Fatalf("detailOpen = %v, detailID = %q", m.detailOpen, m.detailID)
	}
	if cmd == nil {
		t.Fatal("opening a leaf should record usage")
	}

	m = update(m, cmd())
	if len(store.increments) != 1 || store.increments[0] != "my-tool" {
		t.Errorf("increments = %v, want [my-tool]", store.increments)
	}
	if m.stats["my-tool"].Count != 1 {
		t.Errorf("count = %d, want 1", m.stats["my-tool"].Count)
	}
	if !strings.Contains(m.detail.View(), "Does useful things") {
		t.Errorf("detail panel missing description:\n%s", m.detail.View())
	}

	m, _ = press(m, "esc")
	if m.detailOpen {
		t.Error("esc should close the detail panel")
	}
}

func TestUsageChangedMsg_ReloadsStats(t *testing.T) {
	m, _, store := newTestModel(t, present.English)
	if _, err := store.Increment("prd-writer"); err != nil {
		t.Fatal(err)
	}

	updated, cmd := m.Update(events.UsageChangedMsg{ID: "prd-writer", Count: 1})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("usage change should reload stats")
	}
	m = update(m, cmd())

	if m.stats["prd-writer"].Count != 1 {
		t.Errorf("count = %d, want 1", m.stats["prd-writer"].Count)
	}
}

func TestLanguageToggle(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)

	if got := m.presenter.Name(m.rows[1].entry); got != "PRD Writer" {
		t.Fatalf("name = %q, want %q", got, "PRD Writer")
	}

	m, _ = press(m, "l")
	if m.presenter.Language() != present.Chinese {
		t.Fatalf("language = %v, want zh", m.presenter.Language())
	}
	if got := m.presenter.Name(m.rows[1].entry); got != "PRD 撰写" {
		t.Errorf("name = %q, want %q", got, "PRD 撰写")
	}
	if !strings.Contains(m.View(), "共 5 个技能") {
		t.Error("status bar should be translated")
	}

	m, _ = press(m, "l")
	if m.presenter.Language() != present.English {
		t.Errorf("second toggle should return to en, got %v", m.presenter.Language())
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _, _ := newTestModel(t, present.English)
			_, cmd := press(m, k)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
			}
		})
	}
}

func TestLogEntries_ProblemsShownInStatusBar(t *testing.T) {
	logs := make(chan logging.LogEntry, 2)
	m := NewModel(Options{Catalog: &fakeCatalog{}, Logs: logs})

	logs <- logging.LogEntry{Level: "WARN", Scope: "catalog", Message: "cannot list skills root"}
	m = update(m, m.waitForLog()())
	logs <- logging.LogEntry{Level: "INFO", Scope: "web", Message: "listening"}
	m = update(m, m.waitForLog()())

	if m.lastProblem == nil || m.lastProblem.Message != "cannot list skills root" {
		t.Fatalf("lastProblem = %+v", m.lastProblem)
	}
	if bar := m.renderStatusBar(200); !strings.Contains(bar, "cannot list skills root") {
		t.Errorf("status bar = %q", bar)
	}
}

func TestWaitForLog_StopsOnClosedChannel(t *testing.T) {
	logs := make(chan logging.LogEntry)
	close(logs)
	m := NewModel(Options{Catalog: &fakeCatalog{}, Logs: logs})

	if msg := m.waitForLog()(); msg != nil {
		t.Errorf("msg = %v, want nil", msg)
	}
	if NewModel(Options{Catalog: &fakeCatalog{}}).waitForLog() != nil {
		t.Error("no log channel should mean no command")
	}
}

func TestWebListenURL_ShownInStatusBar(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m = update(m, events.WebListenURLMsg{URL: "http://127.0.0.1:7331"})

	if bar := m.renderStatusBar(200); !strings.Contains(bar, "http://127.0.0.1:7331") {
		t.Errorf("status bar = %q", bar)
	}
}

func TestView_RendersTree(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m.stats["my-tool"] = usage.Record{Count: 3}

	view := m.View()
	for _, want := range []string{"Skill Catalog", "/skills", "My Tool", "[3 times]", "PRD Writer", "Superpowers", "5 skills"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Brainstorming") {
		t.Error("collapsed group should hide its children")
	}
}

func TestView_EmptyCatalog(t *testing.T) {
	m := NewModel(Options{Catalog: &fakeCatalog{}})
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(m, m.scanCmd(m.scanSeq)())

	if view := m.View(); !strings.Contains(view, "未找到任何技能") {
		t.Errorf("view should show the empty message:\n%s", view)
	}
}

func TestCursor_ScrollsWithinTree(t *testing.T) {
	m, _, _ := newTestModel(t, present.English)
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 7}) // 3 tree rows
	m.cursor = 2
	m, _ = press(m, "space")

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	if m.cursor != 4 {
		t.Fatalf("cursor = %d, want 4", m.cursor)
	}
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2", m.offset)
	}

	m, _ = press(m, "down")
	if m.cursor != 4 {
		t.Errorf("cursor moved past the last row: %d", m.cursor)
	}
}
