// Package isrcform renders the ISRC entry form: the raw input, its
// normalized form, the Validate button and the inline outcome messages.
//
// The form owns no submission state. The app pushes a State after every
// controller change and reacts to SubmitMsg.
package isrcform

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

const (
	InvalidHint = "Please enter a valid 12-character ISRC (e.g., FRLA12400001)."
	Placeholder = "e.g. FR-LA1-24-00001"

	zoneSubmitButton = "isrcform-submit"
	zoneInput        = "isrcform-input"
)

// SubmitMsg is emitted when the Validate button is clicked while enabled.
type SubmitMsg struct{}

// State is what the form displays besides the input itself.
type State struct {
	CanSubmit  bool
	Submitting bool
	Message    string // inline success
	Error      string // inline error
	Known      string // known-track hint, already formatted
}

// Model is the form component.
type Model struct {
	input   textinput.Model
	spinner spinner.Model
	state   State
	width   int
}

// New creates a focused, empty form.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	return Model{input: ti, spinner: sp, width: 40}
}

// Value returns the raw input.
func (m Model) Value() string { return m.input.Value() }

// SetValue replaces the raw input.
func (m Model) SetValue(v string) Model {
	m.input.SetValue(v)
	return m
}

// SetState updates the displayed submission state. Entering the submitting
// state starts the spinner.
func (m Model) SetState(s State) (Model, tea.Cmd) {
	starting := s.Submitting && !m.state.Submitting
	m.state = s
	if starting {
		return m, m.spinner.Tick
	}
	return m, nil
}

// State returns the displayed submission state.
func (m Model) State() State { return m.state }

// SetWidth sets the outer width of the input box.
func (m Model) SetWidth(w int) Model {
	m.width = max(w, 24)
	// border (2) + padding (2) + prompt
	m.input.Width = m.width - 4 - lipgloss.Width(m.input.Prompt) - 1
	return m
}

// Update handles typing, spinner ticks and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.state.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(zoneSubmitButton); z != nil && z.InBounds(msg) && m.state.CanSubmit {
			return m, func() tea.Msg { return SubmitMsg{} }
		}
		if z := zone.Get(zoneInput); z != nil && z.InBounds(msg) {
			return m, m.input.Focus()
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("ISRC"))
	b.WriteString("\n")

	box := styles.InputBorderStyle
	if m.input.Focused() {
		box = styles.InputFocusedBorderStyle
	}
	b.WriteString(zone.Mark(zoneInput, box.Width(m.width-2).Render(m.input.View())))
	b.WriteString("\n")

	b.WriteString(styles.MutedStyle.Render("Normalized: " + normalizedLine(m.input.Value())))
	b.WriteString("\n")

	raw := m.input.Value()
	if strings.TrimSpace(raw) != "" && !isrc.IsValid(raw) {
		b.WriteString(styles.ErrorStyle.Render(InvalidHint))
		b.WriteString("\n")
	}
	if m.state.Known != "" {
		b.WriteString(styles.SuccessStyle.Render(m.state.Known))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.buttonView())

	if m.state.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.SuccessBoxStyle.Width(m.width - 2).Render(m.state.Message))
	}
	if m.state.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorBoxStyle.Width(m.width - 2).Render(m.state.Error))
	}
	return b.String()
}

func (m Model) buttonView() string {
	if m.state.Submitting {
		return zone.Mark(zoneSubmitButton, styles.DisabledButtonStyle.Render(m.spinner.View()+" Validating…"))
	}
	style := styles.PrimaryButtonStyle
	if !m.state.CanSubmit {
		style = styles.DisabledButtonStyle
	}
	return zone.Mark(zoneSubmitButton, style.Render("Validate"))
}

// normalizedLine shows the dashed normalized code, or a dash when there is
// nothing to normalize.
func normalizedLine(raw string) string {
	norm := isrc.Normalize(raw)
	if norm == "" {
		return "—"
	}
	if isrc.IsValid(norm) {
		return norm + "  (" + isrc.Format(norm) + ")"
	}
	return norm
}
