package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"standup/internal/config"
	"standup/internal/export"
	"standup/internal/model"
	"standup/internal/standup"
)

const flashDuration = 1800 * time.Millisecond

type mode int

const (
	modeList mode = iota
	modeAdd
	modeName
	modeDate
	modeConfirmClear
)

// Prefs stores settings that live outside any day record.
type Prefs interface {
	Theme() (string, error)
	SetTheme(theme string) error
}

type flash struct {
	text   string
	danger bool
	seq    int
}

type flashExpiredMsg struct{ seq int }

type copyResultMsg struct{ err error }

type Model struct {
	state    *standup.State
	prefs    Prefs
	clip     export.Clipboard
	cfg      config.Config
	log      *slog.Logger
	section  int
	cursor   []int
	priority []model.Priority
	mode     mode
	input    textinput.Model
	status   string
	flash    flash
	theme    string
	styles   styles
}

// New builds the model. If state has no active date yet, today is loaded.
func New(state *standup.State, prefs Prefs, clip export.Clipboard, cfg config.Config, log *slog.Logger) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	def, ok := model.ParsePriority(cfg.DefaultPriority)
	if !ok {
		def = model.Medium
	}
	priority := make([]model.Priority, len(model.Sections))
	for i := range priority {
		priority[i] = def
	}

	m := Model{
		state:    state,
		prefs:    prefs,
		clip:     clip,
		cfg:      cfg,
		log:      log,
		cursor:   make([]int, len(model.Sections)),
		priority: priority,
		mode:     modeList,
		input:    ti,
		status:   "Press 'a' to add, space to toggle, 'd' to delete.",
	}

	theme, err := prefs.Theme()
	if err != nil {
		log.Error("load theme", "err", err)
	}
	m.theme = theme
	m.styles = newStyles(theme)

	if state.Date() == "" {
		if _, err := state.SetDate(""); err != nil {
			m.status = fmt.Sprintf("load failed: %v", err)
		}
	}
	return m
}

func Run(state *standup.State, prefs Prefs, clip export.Clipboard, cfg config.Config, log *slog.Logger) error {
	m := New(state, prefs, clip, cfg, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case flashExpiredMsg:
		if msg.seq == m.flash.seq {
			m.flash.text = ""
			m.flash.danger = false
		}
	case copyResultMsg:
		if msg.err != nil {
			m.log.Error("clipboard write", "err", msg.err)
			return m.notify("Copy failed. Select & copy manually.", true)
		}
		return m.notify("Copied standup to clipboard ✅", false)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeName:
		return m.updateNameMode(key, msg)
	case modeDate:
		return m.updateDateMode(key, msg)
	case modeConfirmClear:
		return m.updateClearConfirm(key)
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		return m, tea.Quit
	case k.NextSection, "right":
		m.section = wrapIndex(m.section+1, len(model.Sections))
	case k.PrevSection, "left":
		m.section = wrapIndex(m.section-1, len(model.Sections))
	case k.Down, "down":
		n := len(m.focusedItems())
		m.cursor[m.section] = clampCursor(m.cursor[m.section]+1, n)
	case k.Up, "up":
		n := len(m.focusedItems())
		m.cursor[m.section] = clampCursor(m.cursor[m.section]-1, n)
	case k.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = string(model.Sections[m.section]) + " item"
		m.input.Focus()
		m.status = "Add mode: type and press Enter, " + k.Priority + " cycles priority, Esc to finish"
	case k.Priority:
		m.priority[m.section] = m.priority[m.section].Next()
	case k.Toggle:
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.state.ToggleByID(it.ID); err != nil {
			return m.saveFailed(err)
		}
		m.status = "Toggled item"
	case k.Delete:
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.state.DeleteByID(it.ID); err != nil {
			return m.saveFailed(err)
		}
		m.cursor[m.section] = clampCursor(m.cursor[m.section], len(m.focusedItems()))
		m.status = fmt.Sprintf("Deleted %q", it.Text)
		m.log.Info("item deleted", "date", m.state.Date(), "id", it.ID)
	case k.EditName:
		m.mode = modeName
		m.input.SetValue(m.state.Name())
		m.input.Placeholder = "Your name"
		m.input.Focus()
		m.status = "Name: changes save as you type, Enter or Esc to finish"
	case k.EditDate:
		m.mode = modeDate
		m.input.SetValue(m.state.Date())
		m.input.Placeholder = standup.DateLayout
		m.input.Focus()
		m.status = "Date (YYYY-MM-DD): Enter to load, Esc to cancel, empty for today"
	case k.PrevDay:
		return m.shiftDate(-1)
	case k.NextDay:
		return m.shiftDate(1)
	case k.Copy:
		text := export.Text(m.state.Date(), m.state.Snapshot())
		return m, copyCmd(m.clip, text)
	case k.Export:
		return m.exportSheet()
	case k.ClearAll:
		m.mode = modeConfirmClear
		m.status = fmt.Sprintf("Clear all items for %s? y/n", m.state.Date())
	case k.ToggleTheme:
		next := otherTheme(m.theme)
		if err := m.prefs.SetTheme(next); err != nil {
			return m.saveFailed(err)
		}
		m.theme = next
		m.styles = newStyles(next)
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Add finished"
		return m, nil
	case m.cfg.Keys.Priority:
		m.priority[m.section] = m.priority[m.section].Next()
		return m, nil
	case m.cfg.Keys.Confirm:
		sec := model.Sections[m.section]
		added, err := m.state.AddItem(sec, m.input.Value(), m.priority[m.section])
		if err != nil {
			return m.saveFailed(err)
		}
		if !added {
			return m, nil
		}
		n := len(m.focusedItems())
		m.cursor[m.section] = clampCursor(n-1, n)
		m.input.SetValue("")
		m.status = fmt.Sprintf("Added to %s", sec)
		m.log.Info("item added", "date", m.state.Date(), "section", string(sec))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateNameMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, m.cfg.Keys.Confirm:
		m.mode = modeList
		m.input.Blur()
		m.status = "Name saved"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != m.state.Name() {
			if err := m.state.SetName(v); err != nil {
				m.log.Error("persist name", "date", m.state.Date(), "err", err)
				next, flashCmd := m.notify(fmt.Sprintf("save failed: %v", err), true)
				return next, tea.Batch(cmd, flashCmd)
			}
		}
		return m, cmd
	}
}

func (m Model) updateDateMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.Blur()
		m.status = "Date unchanged"
		return m, nil
	case m.cfg.Keys.Confirm:
		if _, err := m.state.SetDate(m.input.Value()); err != nil {
			if errors.Is(err, standup.ErrInvalidDate) {
				return m.notify("Date must be YYYY-MM-DD", true)
			}
			return m.loadFailed(err)
		}
		m.mode = modeList
		m.input.Blur()
		m.resetCursors()
		m.status = "Loaded " + m.state.Date()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateClearConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.mode = modeList
		if err := m.state.ClearAll(); err != nil {
			return m.saveFailed(err)
		}
		m.resetCursors()
		m.status = "Cleared all items for " + m.state.Date()
		m.log.Info("items cleared", "date", m.state.Date())
		return m, nil
	case "n", "N", m.cfg.Keys.Cancel:
		m.mode = modeList
		m.status = "Clear cancelled"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) shiftDate(days int) (tea.Model, tea.Cmd) {
	if _, err := m.state.ShiftDate(days); err != nil {
		return m.loadFailed(err)
	}
	m.resetCursors()
	m.status = "Loaded " + m.state.Date()
	return m, nil
}

func (m Model) exportSheet() (tea.Model, tea.Cmd) {
	path, err := export.Spreadsheet(m.cfg.ExportDir, m.state.Date(), m.state.Snapshot())
	if errors.Is(err, export.ErrNoItems) {
		return m.notify("No items to export.", true)
	}
	if err != nil {
		m.log.Error("export", "date", m.state.Date(), "err", err)
		return m.notify(fmt.Sprintf("export failed: %v", err), true)
	}
	m.log.Info("exported", "date", m.state.Date(), "path", path)
	return m.notify("Exported "+path, false)
}

func (m Model) saveFailed(err error) (tea.Model, tea.Cmd) {
	m.log.Error("persist", "date", m.state.Date(), "err", err)
	return m.notify(fmt.Sprintf("save failed: %v", err), true)
}

func (m Model) loadFailed(err error) (tea.Model, tea.Cmd) {
	m.log.Error("load", "err", err)
	return m.notify(fmt.Sprintf("load failed: %v", err), true)
}

// notify shows a transient message. Each message gets a sequence number so
// an older expiry tick cannot clear a newer message.
func (m Model) notify(text string, danger bool) (Model, tea.Cmd) {
	m.flash.seq++
	m.flash.text = text
	m.flash.danger = danger
	seq := m.flash.seq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

func copyCmd(clip export.Clipboard, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: clip.WriteAll(text)}
	}
}

func (m Model) focusedItems() []standup.ItemView {
	return standup.Sections(m.state.Items())[m.section].Items
}

func (m Model) selected() (standup.ItemView, bool) {
	items := m.focusedItems()
	if len(items) == 0 {
		return standup.ItemView{}, false
	}
	return items[clampCursor(m.cursor[m.section], len(items))], true
}

func (m *Model) resetCursors() {
	for i := range m.cursor {
		m.cursor[i] = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	name := m.state.Name()
	if name == "" {
		name = "(unnamed)"
	}
	b.WriteString(m.styles.title.Render("Standup — " + m.state.Date()))
	b.WriteString(m.styles.muted.Render("  [" + m.theme + "]"))
	b.WriteString("\n")
	b.WriteString("Name: " + name)
	b.WriteString("\n\n")

	for i, sec := range standup.Sections(m.state.Items()) {
		b.WriteString(m.renderSection(i, sec))
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	switch m.mode {
	case modeAdd:
		b.WriteString(fmt.Sprintf("Add to %s [%s]: ", model.Sections[m.section], m.priority[m.section]))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeName:
		b.WriteString("Name: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeDate:
		b.WriteString("Date: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.status)
	b.WriteString("\n")
	if m.flash.text != "" {
		st := m.styles.ok
		if m.flash.danger {
			st = m.styles.danger
		}
		b.WriteString(st.Render(m.flash.text))
		b.WriteString("\n")
	}
	b.WriteString(renderHelp(m.cfg.Keys))
	return b.String()
}

func (m Model) renderSection(i int, sec standup.SectionView) string {
	var b strings.Builder
	header := m.styles.header
	marker := "  "
	if i == m.section {
		header = m.styles.headerFocused
		marker = "▸ "
	}
	b.WriteString(header.Render(fmt.Sprintf("%s%s (%d)", marker, sec.Section, len(sec.Items))))
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("  new: %s", m.priority[i])))
	b.WriteString("\n")

	if len(sec.Items) == 0 {
		b.WriteString(m.styles.muted.Render("    (none)"))
		b.WriteString("\n")
		return b.String()
	}
	cur := clampCursor(m.cursor[i], len(sec.Items))
	for j, it := range sec.Items {
		b.WriteString(m.renderItem(it, i == m.section && j == cur && m.mode == modeList))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItem(it standup.ItemView, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	checkbox := "[ ]"
	text := m.styles.text.Render(it.Text)
	if it.Done {
		checkbox = "[x]"
		text = m.styles.done.Render(it.Text)
	}
	line := fmt.Sprintf("  %s %s %s %s %s", cursor, checkbox, text, m.styles.badge(it.Priority), m.styles.muted.Render(it.Timestamp))
	if selected {
		line += m.styles.muted.Render("  (" + m.cfg.Keys.Delete + " delete)")
		return m.styles.selected.Render(line)
	}
	return line
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s section • %s/%s move • %s add • %s priority • %q toggle • %s delete • %s name • %s date • %s/%s day • %s copy • %s export • %s clear • %s theme • %s quit",
		k.NextSection, k.PrevSection, k.Up, k.Down, k.Add, k.Priority, k.Toggle, k.Delete, k.EditName, k.EditDate, k.PrevDay, k.NextDay, k.Copy, k.Export, k.ClearAll, k.ToggleTheme, k.Quit)
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
