// Package toaster renders queued notifications as a stack of toasts.
package toaster

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/ui/overlay"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

const (
	// MaxWidth is the outer width of a toast, border included.
	MaxWidth = 48
	// MaxVisible caps the stack; older entries stay queued but hidden.
	MaxVisible = 4
)

// DismissMsg asks for the notification with ID to be removed.
type DismissMsg struct {
	ID int64
}

// ZoneID is the click target of a toast.
func ZoneID(id int64) string {
	return fmt.Sprintf("toast-%d", id)
}

// Model holds the toasts currently on screen.
type Model struct {
	entries []notify.Entry
	width   int
	height  int
}

// New creates an empty toaster.
func New() Model {
	return Model{}
}

// SetEntries replaces the displayed entries with a queue snapshot.
func (m Model) SetEntries(entries []notify.Entry) Model {
	m.entries = entries
	return m
}

// SetSize updates the viewport dimensions for overlay positioning.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Visible reports whether any toast is showing.
func (m Model) Visible() bool {
	return len(m.entries) > 0
}

// Update turns a click on a toast into a DismissMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || mouse.Button != tea.MouseButtonLeft || mouse.Action != tea.MouseActionRelease {
		return m, nil
	}
	for _, e := range m.entries {
		if z := zone.Get(ZoneID(e.ID)); z != nil && z.InBounds(mouse) {
			id := e.ID
			return m, func() tea.Msg { return DismissMsg{ID: id} }
		}
	}
	return m, nil
}

// View renders the visible toasts, newest at the bottom.
func (m Model) View() string {
	if len(m.entries) == 0 {
		return ""
	}
	shown := m.entries
	if len(shown) > MaxVisible {
		shown = shown[len(shown)-MaxVisible:]
	}

	toasts := make([]string, 0, len(shown))
	for _, e := range shown {
		toasts = append(toasts, zone.Mark(ZoneID(e.ID), renderToast(e)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

// Overlay renders the stack at the bottom-right of bg.
func (m Model) Overlay(bg string) string {
	if len(m.entries) == 0 {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.BottomRight,
		PadX:     1,
		PadY:     1,
	}, m.View(), bg)
}

func renderToast(e notify.Entry) string {
	color, icon := variantLook(e.Variant)

	// border (2) + padding (2)
	inner := MaxWidth - 4

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(icon + " " + e.Title)
	closeMark := styles.MutedStyle.Render("×")
	header := title + strings.Repeat(" ", max(1, inner-lipgloss.Width(title)-1)) + closeMark

	lines := []string{header}
	if e.Description != "" {
		lines = append(lines, wordwrap.String(e.Description, inner))
	}
	if e.Message != "" {
		lines = append(lines, styles.MutedStyle.Render(wordwrap.String(e.Message, inner)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(MaxWidth - 2).
		Render(strings.Join(lines, "\n"))
}

func variantLook(v notify.Variant) (lipgloss.AdaptiveColor, string) {
	switch v {
	case notify.VariantSuccess:
		return styles.ToastSuccessColor, "✓"
	case notify.VariantError:
		return styles.ToastErrorColor, "!"
	case notify.VariantDestructive:
		return styles.ToastDestructiveColor, "✗"
	default:
		return styles.ToastInfoColor, "i"
	}
}
