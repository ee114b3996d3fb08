package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mdoutline/pkg/config"
	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/outline"
	"github.com/vanderheijden86/mdoutline/pkg/resolver"
	"github.com/vanderheijden86/mdoutline/pkg/session"
	"github.com/vanderheijden86/mdoutline/pkg/watcher"
)

// minPanelTermWidth is the terminal width below which the outline panel is
// hidden entirely.
const minPanelTermWidth = 60

// FileChangedMsg is sent when the viewed document changes on disk.
type FileChangedMsg struct{}

// applyMsg carries a debounced session callback back onto the event loop.
type applyMsg struct{ fn func() }

// WatchCmd waits for the next document change and reports it as a
// FileChangedMsg.
func WatchCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Model is the mdo application model: one document view, one outline panel,
// one tracking session.
type Model struct {
	path  string
	cfg   config.Config
	theme Theme

	dv   *docView
	out  *outline.Model
	sess *session.Session
	w    *watcher.Watcher

	// pending marshals debounced session callbacks (which fire on timer
	// goroutines) back onto the bubbletea event loop.
	pending chan func()

	width     int
	height    int
	ready     bool
	showPanel bool
	statusMsg string

	savedScroll int // view-state scroll restored on first layout
}

// NewModel assembles the application model. src is the initial document
// content; w may be nil when live reload is disabled.
func NewModel(path string, src []byte, cfg config.Config, w *watcher.Watcher) Model {
	theme := DefaultTheme()

	mode := session.ModeRendered
	if cfg.UI.DefaultMode == "raw" {
		mode = session.ModeRaw
	}
	saved, hasSaved := LoadViewState(path)
	if hasSaved {
		if saved.Mode == "raw" {
			mode = session.ModeRaw
		} else if saved.Mode == "rendered" {
			mode = session.ModeRendered
		}
	}

	cursorStyle := lipgloss.NewStyle().
		Background(theme.Border).
		Foreground(theme.Primary)

	dv := newDocView(mode, cfg.UI.WordWrap, cursorStyle)
	dv.SetSource(src)

	out := outline.New(theme.OutlineStyles())
	res := resolver.New(out, resolver.WithTopThreshold(cfg.Tracker.TopThreshold))

	m := Model{
		path:      path,
		cfg:       cfg,
		theme:     theme,
		dv:        dv,
		out:       out,
		w:         w,
		pending:   make(chan func(), 32),
		showPanel: true,
	}
	if hasSaved {
		m.savedScroll = saved.ScrollTop
	}

	m.sess = session.New(out, res,
		session.WithDebounce(cfg.Debounce()),
		session.WithCompactMinGap(cfg.Tracker.CompactMinGap),
		session.WithNotify(m.enqueue),
	)
	return m
}

// Session exposes the tracking session, mainly for tests.
func (m Model) Session() *session.Session { return m.sess }

// enqueue hands a debounced callback to the event loop. If the queue is
// full the callback is dropped; the next scroll or edit re-derives the same
// state anyway.
func (m Model) enqueue(fn func()) {
	select {
	case m.pending <- fn:
	default:
		debug.Log("ui: dropped debounced callback, queue full")
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitApplyCmd(m.pending)}
	if m.w != nil {
		cmds = append(cmds, WatchCmd(m.w))
	}
	return tea.Batch(cmds...)
}

func waitApplyCmd(ch chan func()) tea.Cmd {
	return func() tea.Msg {
		return applyMsg{fn: <-ch}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if !m.ready {
			m.ready = true
			m.sess.Attach(m.dv)
			if m.savedScroll > 0 {
				m.dv.ScrollBy(m.savedScroll)
				m.sess.Scrolled()
				m.savedScroll = 0
			}
		} else {
			m.sess.Resized()
		}
		return m, nil

	case applyMsg:
		msg.fn()
		return m, waitApplyCmd(m.pending)

	case FileChangedMsg:
		m.reload()
		return m, WatchCmd(m.w)

	case tea.KeyMsg:
		cmd := m.updateKeys(msg)
		return m, cmd

	case tea.MouseMsg:
		m.updateMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) tea.Cmd {
	m.sess.UserInput()

	switch msg.String() {
	case "q", "ctrl+c":
		m.saveState()
		return tea.Quit

	case "m", "tab":
		if m.dv.Mode() == session.ModeRaw {
			m.dv.SetMode(session.ModeRendered)
		} else {
			m.dv.SetMode(session.ModeRaw)
		}
		m.sess.LayoutChanged()
		m.sess.Scrolled()
		m.statusMsg = m.dv.Mode().String() + " mode"

	case "p":
		m.showPanel = !m.showPanel
		m.layout()
		m.sess.LayoutChanged()

	case "j", "down":
		m.moveOrScroll(1)
	case "k", "up":
		m.moveOrScroll(-1)
	case "ctrl+d", "pgdown":
		m.scrollBy(m.bodyHeight() / 2)
	case "ctrl+u", "pgup":
		m.scrollBy(-m.bodyHeight() / 2)
	case "g", "home":
		m.dv.GotoTop()
		m.sess.Scrolled()
	case "G", "end":
		m.dv.GotoBottom()
		m.sess.Scrolled()

	case "c":
		m.copyActiveHeading()

	case "r":
		m.reload()
	}
	return nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.sess.UserInput()
		m.scrollBy(-3)
	case tea.MouseButtonWheelDown:
		m.sess.UserInput()
		m.scrollBy(3)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		m.sess.UserInput()
		if m.panelVisible() && msg.X >= m.width-m.panelSpace() {
			// Row 0 is the header line.
			m.out.Click(msg.Y - 1)
		}
	}
}

// moveOrScroll moves the cursor in raw mode and scrolls in rendered mode;
// each feeds the matching resolver path.
func (m *Model) moveOrScroll(delta int) {
	if m.dv.Mode() == session.ModeRaw {
		m.dv.MoveCursor(delta)
		m.sess.CursorActivity()
		return
	}
	m.scrollBy(delta)
}

func (m *Model) scrollBy(delta int) {
	m.dv.ScrollBy(delta)
	m.sess.Scrolled()
}

func (m *Model) copyActiveHeading() {
	idx := m.out.ActiveIndex()
	entries := m.out.Entries()
	if idx < 0 || idx >= len(entries) {
		m.statusMsg = "no active heading"
		return
	}
	if err := clipboard.WriteAll(entries[idx].Label); err != nil {
		debug.Log("ui: clipboard write failed: %v", err)
		m.statusMsg = "clipboard unavailable"
		return
	}
	m.statusMsg = fmt.Sprintf("copied %q", entries[idx].Label)
}

func (m *Model) reload() {
	src, err := os.ReadFile(m.path)
	if err != nil {
		debug.Log("ui: reload failed: %v", err)
		m.statusMsg = "reload failed"
		return
	}
	m.dv.SetSource(src)
	m.sess.DocumentModified()
	m.statusMsg = "reloaded"
}

func (m *Model) saveState() {
	top, _, ok := m.dv.Scroll()
	if !ok {
		return
	}
	SaveViewState(m.path, ViewState{
		Mode:      m.dv.Mode().String(),
		ScrollTop: top,
	})
}

// layout distributes the terminal between document and panel.
func (m *Model) layout() {
	body := m.bodyHeight()
	space := m.panelSpace()
	m.dv.Layout(m.width, body, space)
	if space > 0 {
		panelWidth := m.cfg.Tracker.PanelWidth
		if m.sess != nil && m.sess.Compact() {
			panelWidth = panelWidth / 2
		}
		m.out.SetSize(panelWidth, body)
	}
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header + status line
	if h < 0 {
		return 0
	}
	return h
}

func (m Model) panelVisible() bool {
	return m.showPanel && m.width >= minPanelTermWidth
}

func (m Model) panelSpace() int {
	if !m.panelVisible() {
		return 0
	}
	w := m.cfg.Tracker.PanelWidth
	if m.sess != nil && m.sess.Compact() {
		w = w / 2
	}
	return w + 2 // panel plus margin
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	header := m.renderHeader()
	status := m.renderStatus()

	body := m.dv.View()
	if m.panelVisible() {
		gap := lipgloss.NewStyle().Width(2).Render("")
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, gap, m.out.View())
	}

	return header + "\n" + body + "\n" + status
}

func (m Model) renderHeader() string {
	name := filepath.Base(m.path)
	pos := scrollPercent(m.dvYOffset(), m.bodyHeight(), m.dv.LineCount())
	left := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).
		Render(truncate(name, m.width/2))
	right := lipgloss.NewStyle().Foreground(m.theme.Secondary).
		Render(fmt.Sprintf("%s · %s", m.dv.Mode(), pos))

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + lipgloss.NewStyle().Width(pad).Render("") + right
}

func (m Model) renderStatus() string {
	hint := "q quit · m mode · p panel · c copy · click outline to jump"
	s := hint
	if m.statusMsg != "" {
		s = m.statusMsg + " · " + hint
	}
	return lipgloss.NewStyle().Foreground(m.theme.Subtext).
		Render(truncate(s, m.width))
}

func (m Model) dvYOffset() int {
	top, _, ok := m.dv.Scroll()
	if !ok {
		return 0
	}
	return top
}
