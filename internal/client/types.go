package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Envelope is the uniform result of every API call. Failures of any kind,
// including transport errors, are reported through OK/Status/Error/Message
// rather than a Go error.
type Envelope[T any] struct {
	OK      bool
	Status  int
	Data    *T
	Error   string
	Message string
}

// Error codes set by the client itself (servers supply their own).
const (
	ErrorNetwork = "NetworkError"
	ErrorDecode  = "DecodeError"
)

// IsNetworkError reports whether the request never produced a response.
func (e Envelope[T]) IsNetworkError() bool {
	return !e.OK && e.Status == 0 && e.Error == ErrorNetwork
}

// TrackInfo summarizes the first track of a registration response.
type TrackInfo struct {
	Title   string
	Artists string // artist names joined with ", "
}

// Registration is the result of SubmitRegistration.
type Registration struct {
	Envelope[Producer]

	// TrackInfo is set only when the response carried a usable first track.
	TrackInfo *TrackInfo
}

// Producer is the record returned when a registration is accepted.
type Producer struct {
	ID           string          `json:"id"`
	ProducerCode string          `json:"producerCode"`
	Name         string          `json:"name,omitempty"`
	Tracks       []ProducerTrack `json:"tracks"`
}

// ProducerTrack is one entry of Producer.Tracks. The backend may send either a
// full track object or just the ISRC string; both decode.
type ProducerTrack struct {
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	ISRC    string   `json:"isrc"`
	Status  string   `json:"status,omitempty"`
}

// UnmarshalJSON accepts a bare ISRC string as well as a track object.
func (t *ProducerTrack) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		var code string
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return err
		}
		*t = ProducerTrack{ISRC: code}
		return nil
	}
	type plain ProducerTrack
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = ProducerTrack(p)
	return nil
}

// trackInfo derives the summary from the first track, or nil when it lacks a
// title or artists.
func (p *Producer) trackInfo() *TrackInfo {
	if p == nil || len(p.Tracks) == 0 {
		return nil
	}
	first := p.Tracks[0]
	if strings.TrimSpace(first.Title) == "" {
		return nil
	}
	var artists []string
	for _, a := range first.Artists {
		if strings.TrimSpace(a) != "" {
			artists = append(artists, a)
		}
	}
	if len(artists) == 0 {
		return nil
	}
	return &TrackInfo{Title: first.Title, Artists: strings.Join(artists, ", ")}
}

// TrackStatus is the server-side lifecycle status of a track.
type TrackStatus string

const (
	StatusProvisional TrackStatus = "PROVISIONAL"
	StatusValidated   TrackStatus = "VALIDATED"
	StatusRejected    TrackStatus = "REJECTED"
)

// RecentTrack is one entry of the recent-tracks list.
type RecentTrack struct {
	ID             string      `json:"id"`
	ISRC           string      `json:"isrc"`
	Title          string      `json:"title"`
	ArtistNames    []string    `json:"artistNames"`
	Source         *Source     `json:"source,omitempty"`
	Status         TrackStatus `json:"status"`
	SubmissionDate Timestamp   `json:"submissionDate"`
	Producer       ProducerRef `json:"producer"`
}

// Key identifies the track for display; the ISRC stands in when the server
// sends no id.
func (r RecentTrack) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.ISRC
}

// Source names the platform a track's metadata came from.
type Source struct {
	Name       string `json:"name"`
	ExternalID string `json:"externalId"`
}

// ProducerRef is the producer attached to a recent track, sent either as a
// plain code string or as an object.
type ProducerRef struct {
	Code string `json:"producerCode"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts a string, an object or null.
func (p *ProducerRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*p = ProducerRef{}
		return nil
	case trimmed[0] == '"':
		var code string
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return err
		}
		*p = ProducerRef{Code: code}
		return nil
	}
	type plain ProducerRef
	var v plain
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*p = ProducerRef(v)
	return nil
}

// Timestamp decodes the backend's submission dates, which may or may not
// carry a zone. Unparseable values decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	ts.Time = time.Time{}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

type registerRequest struct {
	ISRC string `json:"isrc"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
