package styles

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"} // Hints, help text
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#777777"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#FFFFFF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}

	ButtonTextColor       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonDisabledBgColor = lipgloss.AdaptiveColor{Light: "#AFB8C1", Dark: "#2D2D2D"}

	ToastSuccessColor     = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	ToastErrorColor       = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}
	ToastInfoColor        = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	ToastDestructiveColor = lipgloss.AdaptiveColor{Light: "#A40E26", Dark: "#E74C3C"}

	TrackProvisionalColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FECA57"}
	TrackVerifiedColor    = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}

	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFFFFF"}

	TitleStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	// Bordered boxes for the inline success/error messages.
	SuccessBoxStyle lipgloss.Style
	ErrorBoxStyle   lipgloss.Style

	PrimaryButtonStyle  lipgloss.Style
	DisabledButtonStyle lipgloss.Style

	InputBorderStyle        lipgloss.Style
	InputFocusedBorderStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all Style objects from the current colors.
// Needed because lipgloss.Style captures colors at creation time.
func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	SuccessBoxStyle = box.BorderForeground(StatusSuccessColor).Foreground(StatusSuccessColor)
	ErrorBoxStyle = box.BorderForeground(StatusErrorColor).Foreground(StatusErrorColor)

	button := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	PrimaryButtonStyle = button.Background(ButtonPrimaryBgColor)
	DisabledButtonStyle = button.Background(ButtonDisabledBgColor).Faint(true)

	input := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	InputBorderStyle = input.BorderForeground(BorderDefaultColor)
	InputFocusedBorderStyle = input.BorderForeground(BorderFocusColor)
}
