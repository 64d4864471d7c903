package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

// snapshot saves every themeable color and restores it after the test.
func snapshot(t *testing.T) {
	t.Helper()
	saved := make(map[ColorToken]lipgloss.AdaptiveColor)
	for token, target := range colorTargets() {
		saved[token] = *target
	}
	t.Cleanup(func() {
		for token, target := range colorTargets() {
			*target = saved[token]
		}
		rebuildStyles()
	})
}

func TestEveryTokenHasATarget(t *testing.T) {
	targets := colorTargets()
	for _, token := range AllTokens() {
		require.Contains(t, targets, token)
	}
}

func TestEveryPresetCoversEveryToken(t *testing.T) {
	for name, preset := range Presets {
		for _, token := range AllTokens() {
			hex, ok := preset.Colors[token]
			require.True(t, ok, "%s missing %s", name, token)
			require.True(t, isValidHexColor(hex), "%s has invalid %s", name, token)
		}
	}
}

func TestApplyTheme_Preset(t *testing.T) {
	snapshot(t)

	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "nord"}))
	require.Equal(t, "#A3BE8C", StatusSuccessColor.Dark)
	require.Equal(t, "#A3BE8C", StatusSuccessColor.Light)
}

func TestApplyTheme_Overrides(t *testing.T) {
	snapshot(t)

	require.NoError(t, ApplyTheme(ThemeConfig{
		Preset: "dracula",
		Colors: map[string]string{"toast.destructive": "#ABC"},
	}))
	require.Equal(t, "#ABC", ToastDestructiveColor.Dark)
	require.Equal(t, "#50FA7B", ToastSuccessColor.Dark)
}

func TestApplyTheme_Errors(t *testing.T) {
	snapshot(t)

	require.ErrorContains(t, ApplyTheme(ThemeConfig{Preset: "solarized"}), "unknown theme preset")
	require.ErrorContains(t, ApplyTheme(ThemeConfig{Colors: map[string]string{"bogus": "#FFF"}}), "unknown color token")
	require.ErrorContains(t, ApplyTheme(ThemeConfig{Colors: map[string]string{"spinner": "red"}}), "invalid hex color")
}

func TestApplyTheme_EmptyKeepsAdaptiveDefaults(t *testing.T) {
	snapshot(t)
	before := StatusErrorColor

	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "default"}))
	require.Equal(t, before, StatusErrorColor)
}

func TestIsValidHexColor(t *testing.T) {
	require.True(t, isValidHexColor("#fff"))
	require.True(t, isValidHexColor("#1A5276"))
	require.False(t, isValidHexColor("1A5276"))
	require.False(t, isValidHexColor("#12345"))
	require.False(t, isValidHexColor("#GGGGGG"))
}

func TestResetTheme_RestoresAdaptiveDefaults(t *testing.T) {
	snapshot(t)
	original := TextPrimaryColor

	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "dracula"}))
	require.NotEqual(t, original, TextPrimaryColor)

	ResetTheme()
	require.Equal(t, original, TextPrimaryColor)
}
