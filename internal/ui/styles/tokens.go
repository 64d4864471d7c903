// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override under theme.colors.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusError   ColorToken = "status.error"

	// Buttons
	TokenButtonText       ColorToken = "button.text"
	TokenButtonPrimaryBg  ColorToken = "button.primary.bg"
	TokenButtonDisabledBg ColorToken = "button.disabled.bg"

	// Toast notifications
	TokenToastSuccess     ColorToken = "toast.success"
	TokenToastError       ColorToken = "toast.error"
	TokenToastInfo        ColorToken = "toast.info"
	TokenToastDestructive ColorToken = "toast.destructive"

	// Track status badges
	TokenTrackProvisional ColorToken = "track.provisional"
	TokenTrackVerified    ColorToken = "track.verified"

	// Misc
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextPlaceholder,
		TokenBorderDefault,
		TokenBorderFocus,
		TokenStatusSuccess,
		TokenStatusError,
		TokenButtonText,
		TokenButtonPrimaryBg,
		TokenButtonDisabledBg,
		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastDestructive,
		TokenTrackProvisional,
		TokenTrackVerified,
		TokenSpinner,
	}
}
