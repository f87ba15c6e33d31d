package ui

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"standup/internal/config"
	"standup/internal/export"
	"standup/internal/model"
	"standup/internal/standup"
	"standup/internal/storage"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type harness struct {
	store *storage.Store
	state *standup.State
	clip  *fakeClipboard
	cfg   config.Config
}

func newHarness(t *testing.T) (*harness, Model) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "standup.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local) }
	state := standup.New(store, standup.WithClock(clock))
	cfg := config.Default()
	cfg.ExportDir = filepath.Join(dir, "exports")

	h := &harness{store: store, state: state, clip: &fakeClipboard{}, cfg: cfg}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return h, New(state, store, h.clip, cfg, logger)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		nm, ok := next.(Model)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
		m = nm
	}
	return m, cmd
}

func addItem(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = send(t, m, keyRunes("a"), keyRunes(text), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	return m
}

func TestNew_LoadsToday(t *testing.T) {
	h, m := newHarness(t)
	if h.state.Date() != "2024-01-02" {
		t.Fatalf("date = %q", h.state.Date())
	}
	if !strings.Contains(m.View(), "Standup — 2024-01-02") {
		t.Fatalf("header missing:\n%s", m.View())
	}
}

func TestAddItem_EnterAddsToFocusedSectionAndPersists(t *testing.T) {
	h, m := newHarness(t)
	// focus Today, raise priority from medium to high
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, keyRunes("a"), tea.KeyMsg{Type: tea.KeyCtrlP}, keyRunes("Fix bug"), tea.KeyMsg{Type: tea.KeyEnter})

	items := h.state.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Section != model.Today || items[0].Priority != model.High || items[0].Done {
		t.Fatalf("unexpected item %#v", items[0])
	}
	if m.mode != modeAdd || m.input.Value() != "" {
		t.Fatalf("input should be cleared and stay open, mode=%v value=%q", m.mode, m.input.Value())
	}

	rec, err := h.store.Retrieve("2024-01-02")
	if err != nil || len(rec.Items) != 1 || rec.Items[0].Text != "Fix bug" {
		t.Fatalf("not persisted: %#v %v", rec, err)
	}
}

func TestAddItem_BlankIsIgnored(t *testing.T) {
	h, m := newHarness(t)
	m, _ = send(t, m, keyRunes("a"), keyRunes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if len(h.state.Items()) != 0 {
		t.Fatalf("blank text added an item")
	}
	if dates, _ := h.store.Dates(); len(dates) != 0 {
		t.Fatalf("blank add wrote a record: %v", dates)
	}
	_ = m
}

func TestToggleAndDelete_SelectedItem(t *testing.T) {
	h, m := newHarness(t)
	m = addItem(t, m, "first")
	m = addItem(t, m, "second")

	m, _ = send(t, m, keyRunes("k"), tea.KeyMsg{Type: tea.KeySpace})
	items := h.state.Items()
	if !items[0].Done || items[1].Done {
		t.Fatalf("toggle hit the wrong item: %#v", items)
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Fatalf("done item not rendered as checked:\n%s", m.View())
	}

	m, _ = send(t, m, keyRunes("d"))
	items = h.state.Items()
	if len(items) != 1 || items[0].Text != "second" {
		t.Fatalf("delete removed the wrong item: %#v", items)
	}
	rec, _ := h.store.Retrieve("2024-01-02")
	if len(rec.Items) != 1 {
		t.Fatalf("delete not persisted: %#v", rec)
	}
}

func TestToggle_EmptySectionIsNoOp(t *testing.T) {
	h, m := newHarness(t)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace}, keyRunes("d"))
	if len(h.state.Items()) != 0 {
		t.Fatalf("unexpected items")
	}
	_ = m
}

func TestView_IsIdempotent(t *testing.T) {
	_, m := newHarness(t)
	m = addItem(t, m, "stable")
	if m.View() != m.View() {
		t.Fatalf("view changed between renders")
	}
}

func TestView_PlacesItemsUnderTheirSection(t *testing.T) {
	_, m := newHarness(t)
	m = addItem(t, m, "did this")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = addItem(t, m, "stuck on that")

	view := m.View()
	y := strings.Index(view, "Yesterday")
	td := strings.Index(view, "Today")
	bl := strings.Index(view, "Blockers")
	did := strings.Index(view, "did this")
	stuck := strings.Index(view, "stuck on that")
	if !(y < did && did < td) {
		t.Fatalf("yesterday item misplaced:\n%s", view)
	}
	if stuck < bl {
		t.Fatalf("blocker item misplaced:\n%s", view)
	}
}

func TestNameMode_SavesOnEveryKeystroke(t *testing.T) {
	h, m := newHarness(t)
	m, _ = send(t, m, keyRunes("n"), keyRunes("A"))
	if rec, _ := h.store.Retrieve("2024-01-02"); rec.Name != "A" {
		t.Fatalf("name not saved after first key: %q", rec.Name)
	}
	m, _ = send(t, m, keyRunes("l"), keyRunes("i"))
	if rec, _ := h.store.Retrieve("2024-01-02"); rec.Name != "Ali" {
		t.Fatalf("name = %q", rec.Name)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList || !strings.Contains(m.View(), "Name: Ali") {
		t.Fatalf("name mode not closed:\n%s", m.View())
	}
}

func TestDateMode_SwitchesRecord(t *testing.T) {
	h, m := newHarness(t)
	m = addItem(t, m, "on the second")

	m, _ = send(t, m, keyRunes("D"))
	m.input.SetValue("")
	m, _ = send(t, m, keyRunes("2024-01-05"), tea.KeyMsg{Type: tea.KeyEnter})
	if h.state.Date() != "2024-01-05" || len(h.state.Items()) != 0 {
		t.Fatalf("date switch failed: %s %#v", h.state.Date(), h.state.Items())
	}

	m, _ = send(t, m, keyRunes("D"))
	m.input.SetValue("")
	m, cmd := send(t, m, keyRunes("yesterday"), tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.flash.danger || h.state.Date() != "2024-01-05" {
		t.Fatalf("invalid date should flash and keep the date, got %q flash=%+v", h.state.Date(), m.flash)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("["), keyRunes("["), keyRunes("["))
	if h.state.Date() != "2024-01-02" || len(h.state.Items()) != 1 {
		t.Fatalf("day stepping failed: %s %#v", h.state.Date(), h.state.Items())
	}
}

func TestCopy_WritesTextExport(t *testing.T) {
	h, m := newHarness(t)
	m = addItem(t, m, "Wrote docs")

	m, cmd := send(t, m, keyRunes("c"))
	if cmd == nil {
		t.Fatalf("expected copy command")
	}
	m, _ = send(t, m, cmd())
	if h.clip.text != export.Text("2024-01-02", h.state.Snapshot()) {
		t.Fatalf("clipboard text = %q", h.clip.text)
	}
	if m.flash.danger || !strings.Contains(m.flash.text, "Copied") {
		t.Fatalf("unexpected flash %+v", m.flash)
	}
}

func TestCopy_FailureIsNonFatal(t *testing.T) {
	h, m := newHarness(t)
	h.clip.err = errors.New("no clipboard tool")

	m, cmd := send(t, m, keyRunes("c"))
	m, tick := send(t, m, cmd())
	if !m.flash.danger || !strings.Contains(m.flash.text, "Copy failed") {
		t.Fatalf("expected danger flash, got %+v", m.flash)
	}
	if tick == nil {
		t.Fatalf("expected flash expiry tick")
	}
	m, _ = send(t, m, flashExpiredMsg{seq: m.flash.seq})
	if m.flash.text != "" {
		t.Fatalf("flash not cleared")
	}
}

func TestFlash_OldTickDoesNotClearNewerMessage(t *testing.T) {
	_, m := newHarness(t)
	m, _ = send(t, m, keyRunes("x"))
	first := m.flash.seq
	m, _ = send(t, m, keyRunes("x"))
	m, _ = send(t, m, flashExpiredMsg{seq: first})
	if m.flash.text == "" {
		t.Fatalf("stale tick cleared the newer flash")
	}
}

func TestExport_EmptyWarnsWithoutFile(t *testing.T) {
	h, m := newHarness(t)
	m, _ = send(t, m, keyRunes("x"))
	if !m.flash.danger || m.flash.text != "No items to export." {
		t.Fatalf("unexpected flash %+v", m.flash)
	}
	if _, err := os.Stat(h.cfg.ExportDir); !os.IsNotExist(err) {
		t.Fatalf("export dir should not exist, stat err = %v", err)
	}
}

func TestExport_WritesWorkbook(t *testing.T) {
	h, m := newHarness(t)
	m = addItem(t, m, "exported")
	m, _ = send(t, m, keyRunes("x"))
	if m.flash.danger {
		t.Fatalf("export failed: %s", m.flash.text)
	}
	path := filepath.Join(h.cfg.ExportDir, "standup_user_2024-01-02.xlsx")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}
}

func TestClearAll_RequiresConfirmation(t *testing.T) {
	h, m := newHarness(t)
	m, _ = send(t, m, keyRunes("n"), keyRunes("Alice"), tea.KeyMsg{Type: tea.KeyEnter})
	for _, text := range []string{"one", "two", "three"} {
		m = addItem(t, m, text)
	}

	m, _ = send(t, m, keyRunes("C"))
	if !strings.Contains(m.View(), "Clear all items for 2024-01-02? y/n") {
		t.Fatalf("missing confirmation prompt:\n%s", m.View())
	}
	m, _ = send(t, m, keyRunes("n"))
	if len(h.state.Items()) != 3 {
		t.Fatalf("declined clear removed items")
	}

	m, _ = send(t, m, keyRunes("C"), keyRunes("y"))
	rec, _ := h.store.Retrieve("2024-01-02")
	if len(h.state.Items()) != 0 || len(rec.Items) != 0 {
		t.Fatalf("clear failed: %#v", rec)
	}
	if rec.Name != "Alice" || h.state.Name() != "Alice" {
		t.Fatalf("clear dropped the name: %q", rec.Name)
	}
	_ = m
}

func TestToggleTheme_Persists(t *testing.T) {
	h, m := newHarness(t)
	if m.theme != storage.ThemeLight {
		t.Fatalf("default theme = %q", m.theme)
	}
	m, _ = send(t, m, keyRunes("T"))
	if theme, _ := h.store.Theme(); theme != storage.ThemeDark || m.theme != storage.ThemeDark {
		t.Fatalf("theme not toggled: stored=%q model=%q", theme, m.theme)
	}
	m, _ = send(t, m, keyRunes("T"))
	if theme, _ := h.store.Theme(); theme != storage.ThemeLight {
		t.Fatalf("theme not toggled back: %q", theme)
	}
}

func TestSaveFailure_ShowsDangerFlash(t *testing.T) {
	h, m := newHarness(t)
	_ = h.store.Close()
	m, _ = send(t, m, keyRunes("a"), keyRunes("lost"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.flash.danger || !strings.Contains(m.flash.text, "save failed") {
		t.Fatalf("expected save failure flash, got %+v", m.flash)
	}
	if len(h.state.Items()) != 0 {
		t.Fatalf("failed add left item in memory")
	}
}

func TestLoadFailure_ShowsLoadFlash(t *testing.T) {
	h, m := newHarness(t)
	_ = h.store.Close()

	m, _ = send(t, m, keyRunes("]"))
	if !m.flash.danger || !strings.HasPrefix(m.flash.text, "load failed") {
		t.Fatalf("expected load failure flash after day step, got %+v", m.flash)
	}
	if h.state.Date() != "2024-01-02" {
		t.Fatalf("date moved to %q after failed load", h.state.Date())
	}

	m, _ = send(t, m, keyRunes("D"))
	m.input.SetValue("")
	m, _ = send(t, m, keyRunes("2024-03-01"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.flash.danger || !strings.HasPrefix(m.flash.text, "load failed") {
		t.Fatalf("expected load failure flash after date entry, got %+v", m.flash)
	}
}

func TestQuit(t *testing.T) {
	_, m := newHarness(t)
	_, cmd := send(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestClampAndWrap(t *testing.T) {
	if clampCursor(5, 3) != 2 || clampCursor(-1, 3) != 0 || clampCursor(1, 0) != 0 {
		t.Fatalf("clampCursor wrong")
	}
	if wrapIndex(-1, 3) != 2 || wrapIndex(3, 3) != 0 {
		t.Fatalf("wrapIndex wrong")
	}
}
