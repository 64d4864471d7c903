package recent

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/testutil"
)

type stubFetcher struct {
	envs  []client.Envelope[[]client.RecentTrack]
	calls int
	ctxs  []context.Context
}

func (s *stubFetcher) FetchRecent(ctx context.Context) client.Envelope[[]client.RecentTrack] {
	s.ctxs = append(s.ctxs, ctx)
	env := s.envs[min(s.calls, len(s.envs)-1)]
	s.calls++
	return env
}

func loaded(tracks ...client.RecentTrack) client.Envelope[[]client.RecentTrack] {
	return client.Envelope[[]client.RecentTrack]{OK: true, Status: http.StatusOK, Data: &tracks}
}

func failed(status int, msg string) client.Envelope[[]client.RecentTrack] {
	return client.Envelope[[]client.RecentTrack]{Status: status, Error: "Internal Server Error", Message: msg}
}

func tracks(n int) []client.RecentTrack {
	out := make([]client.RecentTrack, 0, n)
	for i := 1; i <= n; i++ {
		code := fmt.Sprintf("FRLA124%05d", i)
		out = append(out, client.RecentTrack{ISRC: code, Title: "Track " + code, Status: client.StatusProvisional})
	}
	return out
}

func TestNew_StartsLoading(t *testing.T) {
	c := New(&stubFetcher{})
	require.Equal(t, Loading, c.State())
	require.Empty(t, c.Snapshot().Items)
}

func TestLoad_TruncatesToTen(t *testing.T) {
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded(tracks(11)...)}})

	view := c.Load(context.Background())

	require.Equal(t, Loaded, view.State)
	require.Len(t, view.Items, MaxItems)
	for i, item := range view.Items {
		require.Equal(t, fmt.Sprintf("FRLA124%05d", i+1), item.ISRC)
	}
	for _, item := range view.Items {
		require.NotEqual(t, "FRLA12400011", item.ISRC)
	}
}

func TestLoad_Empty(t *testing.T) {
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded()}})

	view := c.Load(context.Background())

	require.Equal(t, Empty, view.State)
	require.Empty(t, view.Items)
}

func TestLoad_NilDataIsEmpty(t *testing.T) {
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{{OK: true, Status: 200}}})
	require.Equal(t, Empty, c.Load(context.Background()).State)
}

func TestLoad_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		env  client.Envelope[[]client.RecentTrack]
		want string
	}{
		{"server message", failed(500, "database unavailable"), "database unavailable"},
		{"no message", failed(500, ""), FallbackError},
		{"network", client.Envelope[[]client.RecentTrack]{Error: client.ErrorNetwork}, FallbackError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{tt.env}})
			view := c.Load(context.Background())
			require.Equal(t, Error, view.State)
			require.Equal(t, tt.want, view.Message)
			require.Empty(t, view.Items)
		})
	}
}

func TestPresent(t *testing.T) {
	require.Equal(t, Verified, Present(client.StatusValidated))
	require.Equal(t, Provisional, Present(client.StatusProvisional))
	require.Equal(t, Provisional, Present(client.StatusRejected))
	require.Equal(t, Provisional, Present("SOMETHING_NEW"))
}

func TestLoad_MapsItems(t *testing.T) {
	tr := client.RecentTrack{
		ISRC:        "GBUM71029604",
		Title:       "Bohemian Rhapsody",
		ArtistNames: []string{"Queen"},
		Status:      client.StatusValidated,
		Source:      &client.Source{Name: "SPOTIFY"},
		Producer:    client.ProducerRef{Code: "GBUM7"},
	}
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded(tr)}})

	item := c.Load(context.Background()).Items[0]

	require.Equal(t, "GBUM71029604", item.Key)
	require.Equal(t, Verified, item.Status)
	require.Equal(t, client.StatusValidated, item.Raw)
	require.Equal(t, "SPOTIFY", item.Source)
	require.Equal(t, "GBUM7", item.Producer)
	require.Equal(t, []string{"Queen"}, item.Artists)
}

func TestRetry_OnlyFromError(t *testing.T) {
	f := &stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{failed(500, ""), loaded(tracks(2)...)}}
	c := New(f)

	_, ok := c.Retry()
	require.False(t, ok, "not available while loading")

	c.Load(context.Background())
	require.True(t, c.CanRetry())

	ticket, ok := c.Retry()
	require.True(t, ok)
	require.Equal(t, Loading, c.State())
	require.Empty(t, c.Snapshot().Message)

	require.True(t, c.Settle(ticket, c.Execute(ticket)))
	require.Equal(t, Loaded, c.State())
	require.Equal(t, 2, f.calls)

	_, ok = c.Retry()
	require.False(t, ok, "not available once loaded")
}

func TestSettle_DiscardsSupersededFetch(t *testing.T) {
	f := &stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded(tracks(3)...), loaded(tracks(1)...)}}
	c := New(f)

	first := c.Start()
	firstEnv := c.Execute(first)
	second := c.Start()

	require.ErrorIs(t, f.ctxs[0].Err(), context.Canceled)

	require.False(t, c.Settle(first, firstEnv))
	require.Equal(t, Loading, c.State())

	require.True(t, c.Settle(second, c.Execute(second)))
	require.Len(t, c.Snapshot().Items, 1)

	require.False(t, c.Settle(second, loaded(tracks(5)...)), "already settled")
}

func TestClose_DiscardsInFlight(t *testing.T) {
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded(tracks(1)...)}})

	ticket := c.Start()
	c.Close()

	require.False(t, c.Settle(ticket, c.Execute(ticket)))
}

func TestController_AgainstBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.QueueRecent(testutil.Response{Status: http.StatusOK, Body: testutil.RecentTracks(11)})

	c := New(client.New(backend.URL()))
	view := c.Load(context.Background())

	require.Equal(t, Loaded, view.State)
	require.Len(t, view.Items, 10)
	require.Equal(t, "id-FRLA12400001", view.Items[0].Key)
	require.Equal(t, 1, backend.RecentCalls())
}

func TestSnapshot_IsCopy(t *testing.T) {
	c := New(&stubFetcher{envs: []client.Envelope[[]client.RecentTrack]{loaded(tracks(2)...)}})
	view := c.Load(context.Background())
	view.Items[0].Title = "mutated"

	require.Equal(t, "Track FRLA12400001", c.Snapshot().Items[0].Title)
}
