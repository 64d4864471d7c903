package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig without importing it.
type ThemeConfig struct {
	Preset string
	Mode   string
	Colors map[string]string
}

// colorTargets maps each token to the variable it sets.
func colorTargets() map[ColorToken]*lipgloss.AdaptiveColor {
	return map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:      &TextPrimaryColor,
		TokenTextSecondary:    &TextSecondaryColor,
		TokenTextMuted:        &TextMutedColor,
		TokenTextPlaceholder:  &TextPlaceholderColor,
		TokenBorderDefault:    &BorderDefaultColor,
		TokenBorderFocus:      &BorderFocusColor,
		TokenStatusSuccess:    &StatusSuccessColor,
		TokenStatusError:      &StatusErrorColor,
		TokenButtonText:       &ButtonTextColor,
		TokenButtonPrimaryBg:  &ButtonPrimaryBgColor,
		TokenButtonDisabledBg: &ButtonDisabledBgColor,
		TokenToastSuccess:     &ToastSuccessColor,
		TokenToastError:       &ToastErrorColor,
		TokenToastInfo:        &ToastInfoColor,
		TokenToastDestructive: &ToastDestructiveColor,
		TokenTrackProvisional: &TrackProvisionalColor,
		TokenTrackVerified:    &TrackVerifiedColor,
		TokenSpinner:          &SpinnerColor,
	}
}

// builtin holds the adaptive colors the package starts with.
var builtin = currentColors()

func currentColors() map[ColorToken]lipgloss.AdaptiveColor {
	colors := make(map[ColorToken]lipgloss.AdaptiveColor)
	for token, target := range colorTargets() {
		colors[token] = *target
	}
	return colors
}

// ResetTheme restores the built-in adaptive colors. A forced light or dark
// mode stays in effect.
func ResetTheme() {
	for token, target := range colorTargets() {
		*target = builtin[token]
	}
	rebuildStyles()
}

// ApplyTheme applies a theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
//
// An empty config leaves the adaptive defaults untouched.
func ApplyTheme(cfg ThemeConfig) error {
	if (cfg.Preset == "" || cfg.Preset == "default") && len(cfg.Colors) == 0 && cfg.Mode == "" {
		return nil
	}

	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !slices.Contains(AllTokens(), token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	switch cfg.Mode {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	targets := colorTargets()
	for token, hex := range colors {
		if target, ok := targets[token]; ok {
			*target = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
	rebuildStyles()
	return nil
}

func isValidHexColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 3 && len(hex) != 6) {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
