package isrcform

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func render(m Model) string {
	return ansi.Strip(zone.Scan(m.View()))
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestView_EmptyInput(t *testing.T) {
	view := render(New())

	require.Contains(t, view, "Normalized: —")
	require.NotContains(t, view, InvalidHint)
	require.Contains(t, view, "Validate")
}

func TestView_ValidInputShowsNormalizedForms(t *testing.T) {
	m := typeText(New(), "fr-la1-24-00001")

	require.Equal(t, "fr-la1-24-00001", m.Value())
	view := render(m)
	require.Contains(t, view, "Normalized: FRLA12400001  (FR-LA1-24-00001)")
	require.NotContains(t, view, InvalidHint)
}

func TestView_InvalidInputShowsHint(t *testing.T) {
	view := render(New().SetValue("INVALID"))

	require.Contains(t, view, "Normalized: INVALID")
	require.Contains(t, view, InvalidHint)
}

func TestView_InlineMessages(t *testing.T) {
	m, _ := New().SetState(State{Message: "Accepted (202): track registration in progress."})
	require.Contains(t, render(m), "Accepted (202)")

	m, _ = New().SetState(State{Error: "Invalid ISRC format (400). Please check and try again."})
	require.Contains(t, render(m), "Invalid ISRC format (400)")
}

func TestView_KnownTrackHint(t *testing.T) {
	m, _ := New().SetValue("GBUM71029604").SetState(State{Known: "Known track: Bohemian Rhapsody — Queen"})
	require.Contains(t, render(m), "Known track: Bohemian Rhapsody — Queen")
}

func TestSetState_SubmittingStartsSpinner(t *testing.T) {
	m, cmd := New().SetState(State{Submitting: true})
	require.NotNil(t, cmd)
	require.Contains(t, render(m), "Validating")

	_, cmd = m.SetState(State{Submitting: true})
	require.Nil(t, cmd, "already spinning")
}

func TestUpdate_SpinnerStopsWhenIdle(t *testing.T) {
	m := New()
	_, cmd := m.Update(m.spinner.Tick())
	require.Nil(t, cmd)
}

func TestSetWidth_HasFloor(t *testing.T) {
	m := New().SetWidth(4)
	require.Equal(t, 24, m.width)
}
