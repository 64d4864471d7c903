// Package logpanel provides an in-app log viewer that streams lines from the
// logger's broker without leaving the TUI.
package logpanel

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/ui/overlay"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

const (
	// Capacity is the number of lines retained; older lines are dropped.
	Capacity = 500

	viewportMaxHeight = 20
	viewportMinHeight = 5
	boxMaxWidth       = 140
	boxMinWidth       = 40
)

// CloseMsg is sent when the panel closes itself.
type CloseMsg struct{}

// Model is the log panel state.
type Model struct {
	visible  bool
	minLevel log.Level
	lines    []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden panel showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records a line, evicting the oldest past Capacity.
func (m Model) Append(line string) Model {
	m.lines = append(m.lines, line)
	if over := len(m.lines) - Capacity; over > 0 {
		m.lines = append([]string(nil), m.lines[over:]...)
	}
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Lines returns the retained lines that pass the level filter.
func (m Model) Lines() []string {
	var out []string
	for _, l := range m.lines {
		if matchesLevel(l, m.minLevel) {
			out = append(out, l)
		}
	}
	return out
}

// Visible reports whether the panel is shown.
func (m Model) Visible() bool { return m.visible }

// Toggle shows or hides the panel.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize updates the screen dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.refresh()
	return m
}

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "c":
		m.lines = nil
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	case "up", "k":
		m.viewport.ScrollUp(1)
		return m, nil
	case "down", "j":
		m.viewport.ScrollDown(1)
		return m, nil
	case "ctrl+x", "esc":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// View renders the panel box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", width))

	var b strings.Builder
	b.WriteString(styles.TitleStyle.PaddingLeft(1).Render("Logs"))
	b.WriteString("\n" + divider + "\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n" + divider + "\n")
	b.WriteString(m.filterHint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(width).
		Render(b.String())
}

// Overlay centers the panel on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header, footer and border take six rows
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(m.boxWidth()-2, height)
	m.viewport.SetContent(m.content(m.boxWidth() - 2))
}

func (m Model) content(width int) string {
	lines := m.Lines()
	if len(lines) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, colorize(l, width))
	}
	return strings.Join(out, "\n")
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

func levelOf(line string) (log.Level, bool) {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return log.LevelError, true
	case strings.Contains(line, "[WARN]"):
		return log.LevelWarn, true
	case strings.Contains(line, "[INFO]"):
		return log.LevelInfo, true
	case strings.Contains(line, "[DEBUG]"):
		return log.LevelDebug, true
	}
	return 0, false
}

// matchesLevel shows lines at or above floor. Lines without a level tag are
// always shown.
func matchesLevel(line string, floor log.Level) bool {
	level, ok := levelOf(line)
	return !ok || level >= floor
}

func colorize(line string, width int) string {
	line = strings.TrimSuffix(line, "\n")
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width, "…")
	}

	color := styles.TextPrimaryColor
	if level, ok := levelOf(line); ok {
		switch level {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.TrackProvisionalColor
		case log.LevelInfo:
			color = styles.ToastInfoColor
		case log.LevelDebug:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}
