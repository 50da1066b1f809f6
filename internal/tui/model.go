// Package tui implements the interactive toast demo.
package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toast/internal/core/styles"
	"github.com/colonyops/toast/internal/core/toast"
)

// ReplaceID is the fixed id reused by the replace key.
const ReplaceID = "replace-me"

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// snapshotMsg carries a new manager snapshot into the update loop.
type snapshotMsg struct {
	snap toast.Snapshot
}

// subscriptionClosedMsg is sent once the manager subscription ends.
type subscriptionClosedMsg struct{}

// Opts configures a Model.
type Opts struct {
	Manager    *toast.Manager
	ToastWidth int
}

// Model is the bubbletea model for the demo. It owns no toast state; it
// renders whatever snapshot the manager last published.
type Model struct {
	manager *toast.Manager
	sub     *toast.Subscription
	view    *ToastView
	keys    keyMap
	help    help.Model

	snap    toast.Snapshot
	width   int
	height  int
	counter int
	status  string
}

// New creates the demo model subscribed to opts.Manager.
func New(opts Opts) Model {
	sub := opts.Manager.Subscribe()
	return Model{
		manager: opts.Manager,
		sub:     sub,
		view:    NewToastView(opts.ToastWidth),
		keys:    defaultKeyMap(),
		help:    help.New(),
		snap:    opts.Manager.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.sub)
}

func waitForSnapshot(sub *toast.Subscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.C()
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg{snap: snap}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.snap = msg.snap
		return m, waitForSnapshot(m.sub)
	case subscriptionClosedMsg:
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sub.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Success):
		m.show(toast.VariantSuccess, "Saved", "changes written to disk")
	case key.Matches(msg, m.keys.Error):
		m.show(toast.VariantError, "Failed", "connection refused")
	case key.Matches(msg, m.keys.Warning):
		m.show(toast.VariantWarning, "Careful", "disk is almost full")
	case key.Matches(msg, m.keys.Info):
		m.show(toast.VariantInfo, "Heads up", "a new version is available")
	case key.Matches(msg, m.keys.Neutral):
		m.show(toast.VariantNeutral, "Note", "nothing to report")
	case key.Matches(msg, m.keys.Persistent):
		m.counter++
		mgr := m.manager
		m.manager.Show(toast.Warning(
			fmt.Sprintf("Pinned #%d", m.counter),
			"stays until dismissed",
		).Persistent().WithAction("Undo", func() {
			mgr.Success("Undone", "the pinned change was reverted")
		}))
	case key.Matches(msg, m.keys.Replace):
		m.counter++
		m.manager.Show(toast.Info(
			fmt.Sprintf("Replaced #%d", m.counter),
			"same id, moved to newest",
		).WithID(ReplaceID).WithDuration(m.defaultDuration()))
	case key.Matches(msg, m.keys.Anchor):
		m.manager.SetAnchor(m.manager.Anchor().Toggle())
	case key.Matches(msg, m.keys.Action):
		if id, ok := m.newestWithAction(); ok {
			m.manager.RunAction(id)
		} else {
			m.status = "no toast with an action"
			return m, nil
		}
	case key.Matches(msg, m.keys.Dismiss):
		m.manager.DismissNewest()
	case key.Matches(msg, m.keys.DismissAll):
		m.manager.DismissAll()
	default:
		return m, nil
	}

	m.status = ""
	return m, nil
}

func (m *Model) show(v toast.Variant, title, message string) {
	m.counter++
	m.manager.Show(toast.New(v, fmt.Sprintf("%s #%d", title, m.counter), message).
		WithDuration(m.defaultDuration()))
}

func (m Model) defaultDuration() time.Duration {
	return m.manager.DefaultDuration()
}

// newestWithAction finds the most recent active toast that carries an
// action, using the manager's current state rather than the last
// rendered snapshot.
func (m Model) newestWithAction() (string, bool) {
	records := m.manager.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].HasAction() {
			return records[i].ID, true
		}
	}
	return "", false
}

// View implements tea.Model.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}

	background := m.renderBackground(w, h)
	return m.view.Overlay(background, m.snap.Records, m.snap.Anchor, w, h)
}

func (m Model) renderBackground(w, h int) string {
	lines := []string{
		styles.ToastTitleStyle.Render("toast demo"),
		styles.StatusStyle.Render(fmt.Sprintf(
			"active: %d  anchor: %s  version: %d",
			len(m.snap.Records), m.snap.Anchor, m.snap.Version,
		)),
	}
	if m.status != "" {
		lines = append(lines, styles.StatusStyle.Render(m.status))
	}

	helpView := styles.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))

	body := strings.Join(lines, "\n")
	pad := max(h-lipgloss.Height(body)-lipgloss.Height(helpView), 0)

	return lipgloss.NewStyle().Width(w).Render(
		body + strings.Repeat("\n", pad+1) + helpView,
	)
}
