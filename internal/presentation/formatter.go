package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool
}

// NewFormatter creates a new formatter. asJSON selects indented JSON over
// human-readable text.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		json:   asJSON,
	}
}

// FormatValidations prints one verdict per input.
func (f *Formatter) FormatValidations(dtos []ValidationDTO) error {
	if f.json {
		return f.encode(dtos)
	}
	rows := make([][]string, 0, len(dtos))
	for _, d := range dtos {
		verdict := "valid"
		if !d.Valid {
			verdict = "invalid"
		}
		rows = append(rows, []string{d.Input, orDash(d.Normalized), orDash(d.Formatted), verdict})
	}
	return f.table([]string{"INPUT", "NORMALIZED", "FORMATTED", "VERDICT"}, rows)
}

// FormatOutcome prints a registration result.
func (f *Formatter) FormatOutcome(dto OutcomeDTO) error {
	if f.json {
		return f.encode(dto)
	}
	style := styles.SuccessStyle
	if dto.State != "succeeded" {
		style = styles.ErrorStyle
	}
	_, err := fmt.Fprintf(f.writer, "%s\n%s: %s\n",
		style.Render(dto.Message),
		lipgloss.NewStyle().Bold(true).Render(dto.Title),
		dto.Description,
	)
	return err
}

// FormatTracks prints the recent-tracks list. An empty list prints empty.
func (f *Formatter) FormatTracks(dtos []TrackDTO, empty string) error {
	if f.json {
		return f.encode(dtos)
	}
	if len(dtos) == 0 {
		_, err := fmt.Fprintln(f.writer, empty)
		return err
	}
	rows := make([][]string, 0, len(dtos))
	for _, d := range dtos {
		submitted := "-"
		if d.SubmittedAt != nil {
			submitted = d.SubmittedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			isrc.Format(d.ISRC),
			orDash(d.Title),
			orDash(strings.Join(d.Artists, ", ")),
			d.Status,
			submitted,
		})
	}
	return f.table([]string{"ISRC", "TITLE", "ARTISTS", "STATUS", "SUBMITTED"}, rows)
}

// FormatJSON writes any value as indented JSON.
func (f *Formatter) FormatJSON(v any) error {
	return f.encode(v)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TitleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
