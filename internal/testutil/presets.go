package testutil

import (
	"fmt"
	"net/http"
	"time"
)

// TrackOption customizes a recent-track fixture.
type TrackOption func(map[string]any)

// Title sets the track title.
func Title(title string) TrackOption {
	return func(m map[string]any) { m["title"] = title }
}

// Artists sets the ordered artist names.
func Artists(names ...string) TrackOption {
	return func(m map[string]any) { m["artistNames"] = names }
}

// Status sets the server status (PROVISIONAL, VALIDATED, REJECTED).
func Status(status string) TrackOption {
	return func(m map[string]any) { m["status"] = status }
}

// SubmittedAt sets the submission date in the backend's zone-less format.
func SubmittedAt(t time.Time) TrackOption {
	return func(m map[string]any) { m["submissionDate"] = t.UTC().Format("2006-01-02T15:04:05") }
}

// WithoutID drops the id field, as the current backend does.
func WithoutID() TrackOption {
	return func(m map[string]any) { delete(m, "id") }
}

// RecentTrack builds one entry of the recent-tracks response.
func RecentTrack(code string, opts ...TrackOption) map[string]any {
	m := map[string]any{
		"id":             "id-" + code,
		"isrc":           code,
		"title":          "Track " + code,
		"artistNames":    []string{"Artist " + code},
		"source":         map[string]any{"name": "SPOTIFY", "externalId": "spotify:" + code},
		"status":         "PROVISIONAL",
		"submissionDate": "2026-10-15T09:30:00",
		"producer":       code[:5],
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RecentTracks builds n tracks with distinct, valid ISRCs FRLA124000001..n.
func RecentTracks(n int) []map[string]any {
	tracks := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		tracks = append(tracks, RecentTrack(fmt.Sprintf("FRLA124%05d", i)))
	}
	return tracks
}

// Accepted is a 202 reply whose first track carries title and artists.
func Accepted(code, title string, artists ...string) Response {
	return Response{
		Status: http.StatusAccepted,
		Body: map[string]any{
			"id":           "f36e54fa-ce8b-5498-9713-c231236ef2e8",
			"producerCode": code[:5],
			"name":         "Universal Music France",
			"tracks": []map[string]any{{
				"isrc":    code,
				"title":   title,
				"artists": artists,
				"status":  "PROVISIONAL",
			}},
		},
	}
}

// Rejected is an error reply with a structured body.
func Rejected(status int, code, message string) Response {
	return Response{Status: status, Body: map[string]string{"error": code, "message": message}}
}
