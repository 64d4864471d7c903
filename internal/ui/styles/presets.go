package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"dracula":       DraculaPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// DefaultPreset matches the dark values of the built-in adaptive colors.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default musichub theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:      "#CCCCCC",
		TokenTextSecondary:    "#BBBBBB",
		TokenTextMuted:        "#696969",
		TokenTextPlaceholder:  "#777777",
		TokenBorderDefault:    "#696969",
		TokenBorderFocus:      "#FFFFFF",
		TokenStatusSuccess:    "#73F59F",
		TokenStatusError:      "#FF8787",
		TokenButtonText:       "#FFFFFF",
		TokenButtonPrimaryBg:  "#1A5276",
		TokenButtonDisabledBg: "#2D2D2D",
		TokenToastSuccess:     "#73F59F",
		TokenToastError:       "#FF8787",
		TokenToastInfo:        "#54A0FF",
		TokenToastDestructive: "#E74C3C",
		TokenTrackProvisional: "#FECA57",
		TokenTrackVerified:    "#73F59F",
		TokenSpinner:          "#FFFFFF",
	},
}

var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula dark theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:      "#F8F8F2",
		TokenTextSecondary:    "#BFBFBF",
		TokenTextMuted:        "#6272A4",
		TokenTextPlaceholder:  "#6272A4",
		TokenBorderDefault:    "#44475A",
		TokenBorderFocus:      "#BD93F9",
		TokenStatusSuccess:    "#50FA7B",
		TokenStatusError:      "#FF5555",
		TokenButtonText:       "#282A36",
		TokenButtonPrimaryBg:  "#BD93F9",
		TokenButtonDisabledBg: "#44475A",
		TokenToastSuccess:     "#50FA7B",
		TokenToastError:       "#FF5555",
		TokenToastInfo:        "#8BE9FD",
		TokenToastDestructive: "#FF5555",
		TokenTrackProvisional: "#F1FA8C",
		TokenTrackVerified:    "#50FA7B",
		TokenSpinner:          "#FF79C6",
	},
}

var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:      "#ECEFF4",
		TokenTextSecondary:    "#D8DEE9",
		TokenTextMuted:        "#4C566A",
		TokenTextPlaceholder:  "#616E88",
		TokenBorderDefault:    "#4C566A",
		TokenBorderFocus:      "#88C0D0",
		TokenStatusSuccess:    "#A3BE8C",
		TokenStatusError:      "#BF616A",
		TokenButtonText:       "#2E3440",
		TokenButtonPrimaryBg:  "#88C0D0",
		TokenButtonDisabledBg: "#3B4252",
		TokenToastSuccess:     "#A3BE8C",
		TokenToastError:       "#BF616A",
		TokenToastInfo:        "#81A1C1",
		TokenToastDestructive: "#BF616A",
		TokenTrackProvisional: "#EBCB8B",
		TokenTrackVerified:    "#A3BE8C",
		TokenSpinner:          "#88C0D0",
	},
}

var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "Maximum contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:      "#FFFFFF",
		TokenTextSecondary:    "#FFFFFF",
		TokenTextMuted:        "#C0C0C0",
		TokenTextPlaceholder:  "#C0C0C0",
		TokenBorderDefault:    "#FFFFFF",
		TokenBorderFocus:      "#FFFF00",
		TokenStatusSuccess:    "#00FF00",
		TokenStatusError:      "#FF0000",
		TokenButtonText:       "#000000",
		TokenButtonPrimaryBg:  "#FFFF00",
		TokenButtonDisabledBg: "#808080",
		TokenToastSuccess:     "#00FF00",
		TokenToastError:       "#FF0000",
		TokenToastInfo:        "#00FFFF",
		TokenToastDestructive: "#FF0000",
		TokenTrackProvisional: "#FFFF00",
		TokenTrackVerified:    "#00FF00",
		TokenSpinner:          "#FFFFFF",
	},
}
