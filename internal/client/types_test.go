package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "rfc3339", raw: `"2026-10-15T09:30:00Z"`, want: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)},
		{name: "local date time", raw: `"2026-10-15T09:30:00.123"`, want: time.Date(2026, 10, 15, 9, 30, 0, 123000000, time.UTC)},
		{name: "date only", raw: `"2026-10-15"`, want: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", raw: `"yesterday"`},
		{name: "array form", raw: `[2026,10,15,9,30]`},
		{name: "null", raw: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			require.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestProducerRef_Shapes(t *testing.T) {
	var fromString, fromObject, fromNull ProducerRef
	require.NoError(t, json.Unmarshal([]byte(`"FRLA1"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"producerCode":"FRLA1","name":"Universal"}`), &fromObject))
	require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))

	require.Equal(t, ProducerRef{Code: "FRLA1"}, fromString)
	require.Equal(t, ProducerRef{Code: "FRLA1", Name: "Universal"}, fromObject)
	require.Equal(t, ProducerRef{}, fromNull)
}

func TestProducer_TrackInfoUsesFirstTrackOnly(t *testing.T) {
	p := &Producer{Tracks: []ProducerTrack{
		{Title: "Bohemian Rhapsody", Artists: []string{"Queen"}},
		{Title: "Other", Artists: []string{"Someone"}},
	}}
	require.Equal(t, &TrackInfo{Title: "Bohemian Rhapsody", Artists: "Queen"}, p.trackInfo())

	p = &Producer{Tracks: []ProducerTrack{
		{ISRC: "FRLA12400001"},
		{Title: "Other", Artists: []string{"Someone"}},
	}}
	require.Nil(t, p.trackInfo(), "a later usable track is not promoted")

	var nilProducer *Producer
	require.Nil(t, nilProducer.trackInfo())
}
