// Package recentlist renders the recently processed tracks.
package recentlist

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/recent"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

const (
	Title       = "Recent tracks"
	LoadingText = "Loading recent tracks…"
	RetryHint   = "Press ctrl+r to retry."
)

// Model renders a recent.View.
type Model struct {
	view    recent.View
	spinner spinner.Model
	clock   Clock
	width   int
}

// New creates a list in the loading state.
func New(clock Clock) Model {
	if clock == nil {
		clock = RealClock{}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)
	return Model{spinner: sp, clock: clock, width: 60, view: recent.View{State: recent.Loading}}
}

// SetView replaces the displayed snapshot. Entering Loading starts the
// spinner.
func (m Model) SetView(v recent.View) (Model, tea.Cmd) {
	starting := v.State == recent.Loading && m.view.State != recent.Loading
	m.view = v
	if starting {
		return m, m.spinner.Tick
	}
	return m, nil
}

// SetWidth sets the render width.
func (m Model) SetWidth(w int) Model {
	m.width = max(w, 20)
	return m
}

// Init starts the spinner for the initial load.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the spinner while loading.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok && m.view.State == recent.Loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

// View renders the list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(Title))
	b.WriteString("\n")

	switch m.view.State {
	case recent.Loading:
		b.WriteString(m.spinner.View() + " " + styles.MutedStyle.Render(LoadingText))
	case recent.Error:
		b.WriteString(styles.ErrorStyle.Render(m.view.Message))
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(RetryHint))
	case recent.Empty:
		b.WriteString(styles.MutedStyle.Render(recent.EmptyText))
	case recent.Loaded:
		rows := make([]string, 0, len(m.view.Items))
		for _, item := range m.view.Items {
			rows = append(rows, m.renderItem(item))
		}
		b.WriteString(strings.Join(rows, "\n"))
	}
	return b.String()
}

// renderItem draws two lines: title with status badge, then artists, ISRC
// and submission time.
func (m Model) renderItem(item recent.Item) string {
	badge := Badge(item.Status)
	titleWidth := m.width - lipgloss.Width(badge) - 1

	title := item.Title
	if title == "" {
		title = item.ISRC
	}
	title = runewidth.Truncate(title, titleWidth, "…")
	pad := max(1, m.width-runewidth.StringWidth(title)-lipgloss.Width(badge))
	first := styles.TitleStyle.Render(title) + strings.Repeat(" ", pad) + badge

	meta := []string{
		strings.Join(item.Artists, ", "),
		isrc.Format(item.ISRC),
		FormatRelativeTimeFrom(item.SubmittedAt, m.clock.Now()),
	}
	if len(item.Artists) == 0 {
		meta = meta[1:]
	}
	second := ansi.Truncate(styles.MutedStyle.Render("  "+strings.Join(meta, " · ")), m.width, "…")

	return first + "\n" + second
}

// Badge renders the presentation status.
func Badge(s recent.PresentationStatus) string {
	color := styles.TrackProvisionalColor
	if s == recent.Verified {
		color = styles.TrackVerifiedColor
	}
	return lipgloss.NewStyle().Foreground(color).Render("[" + string(s) + "]")
}
