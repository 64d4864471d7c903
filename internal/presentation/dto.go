package presentation

import (
	"time"

	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/recent"
	"github.com/zjrosen/musichub/internal/submission"
)

// ValidationDTO is the verdict for one raw input.
type ValidationDTO struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Valid      bool   `json:"valid"`
	Formatted  string `json:"formatted,omitempty"`
}

// OutcomeDTO is the result of one registration.
type OutcomeDTO struct {
	ISRC        string        `json:"isrc"`
	State       string        `json:"state"`
	Message     string        `json:"message"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Variant     string        `json:"variant"`
	Track       *TrackInfoDTO `json:"track,omitempty"`
}

// TrackInfoDTO is the track reported by an accepted registration.
type TrackInfoDTO struct {
	Title   string `json:"title"`
	Artists string `json:"artists"`
}

// TrackDTO is one entry of the recent-tracks list.
type TrackDTO struct {
	ISRC        string     `json:"isrc"`
	Title       string     `json:"title"`
	Artists     []string   `json:"artists"`
	Status      string     `json:"status"`
	RawStatus   string     `json:"rawStatus"`
	Source      string     `json:"source,omitempty"`
	Producer    string     `json:"producer,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// FromInputs validates each raw input.
func FromInputs(raws []string) []ValidationDTO {
	dtos := make([]ValidationDTO, 0, len(raws))
	for _, raw := range raws {
		dto := ValidationDTO{
			Input:      raw,
			Normalized: isrc.Normalize(raw),
			Valid:      isrc.IsValid(raw),
		}
		if dto.Valid {
			dto.Formatted = isrc.Format(raw)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

// FromOutcome converts a settled submission.
func FromOutcome(out submission.Outcome) OutcomeDTO {
	dto := OutcomeDTO{
		ISRC:        out.Code,
		State:       out.State.String(),
		Message:     out.Inline,
		Title:       out.Notification.Title,
		Description: out.Notification.Description,
		Variant:     string(out.Notification.Variant),
	}
	if out.TrackInfo != nil {
		dto.Track = &TrackInfoDTO{Title: out.TrackInfo.Title, Artists: out.TrackInfo.Artists}
	}
	return dto
}

// FromItems converts recent-list items, keeping server order.
func FromItems(items []recent.Item) []TrackDTO {
	dtos := make([]TrackDTO, 0, len(items))
	for _, item := range items {
		dto := TrackDTO{
			ISRC:      item.ISRC,
			Title:     item.Title,
			Artists:   item.Artists,
			Status:    string(item.Status),
			RawStatus: string(item.Raw),
			Source:    item.Source,
			Producer:  item.Producer,
		}
		if !item.SubmittedAt.IsZero() {
			at := item.SubmittedAt
			dto.SubmittedAt = &at
		}
		dtos = append(dtos, dto)
	}
	return dtos
}
