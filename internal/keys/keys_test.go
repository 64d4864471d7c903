package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_KeyAssignments(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Submit uses enter", k.Submit, []string{"enter"}},
		{"Retry uses ctrl+r", k.Retry, []string{"ctrl+r"}},
		{"Clear uses ctrl+l", k.Clear, []string{"ctrl+l"}},
		{"Dismiss uses esc", k.Dismiss, []string{"esc"}},
		{"DismissAll uses ctrl+g", k.DismissAll, []string{"ctrl+g"}},
		{"ToggleLog uses ctrl+x", k.ToggleLog, []string{"ctrl+x"}},
		{"Quit uses ctrl+c", k.Quit, []string{"ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

// Printable keys would be swallowed by the ISRC input.
func TestDefaultKeyMap_NoPrintableBindings(t *testing.T) {
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				require.NotEqual(t, 1, len([]rune(k)), "binding %q is printable", k)
			}
		}
	}
}

func TestDefaultKeyMap_Matches(t *testing.T) {
	k := DefaultKeyMap()
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, k.Submit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlR}, k.Retry))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, k.Dismiss))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, k.Quit))
}

func TestKeyMap_ImplementsHelp(t *testing.T) {
	var _ help.KeyMap = DefaultKeyMap()

	view := help.New().View(DefaultKeyMap())
	require.Contains(t, view, "validate")
	require.Contains(t, view, "quit")
}
