// Package overlay draws foreground blocks over a rendered background without
// clearing it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	Center Position = iota
	Top
	Bottom
	TopRight
	BottomRight
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadX is the gap from the right edge for the *Right positions.
	PadX int
	// PadY is the gap from the top or bottom edge.
	PadY int
}

// Place renders fg on top of bg. Styling in both is preserved.
func Place(cfg Config, fg, bg string) string {
	if fg == "" {
		return bg
	}
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := position(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		y := startY + i
		if y >= len(bgLines) {
			break
		}
		bgLines[y] = splice(bgLines[y], fgLine, startX)
	}

	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at column x with fg.
func splice(line, fg string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(fg)
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + fg + right
}

func position(cfg Config, fgWidth, fgHeight int) (x, y int) {
	centerX := (cfg.Width - fgWidth) / 2
	rightX := cfg.Width - fgWidth - cfg.PadX

	switch cfg.Position {
	case Top:
		x, y = centerX, cfg.PadY
	case Bottom:
		x, y = centerX, cfg.Height-fgHeight-cfg.PadY
	case TopRight:
		x, y = rightX, cfg.PadY
	case BottomRight:
		x, y = rightX, cfg.Height-fgHeight-cfg.PadY
	default:
		x, y = centerX, (cfg.Height-fgHeight)/2
	}
	return max(x, 0), max(y, 0)
}
