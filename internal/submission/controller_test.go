package submission

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/testutil"
)

type stubRegistrar struct {
	reg   client.Registration
	err   error
	codes []string
	ctxs  []context.Context
}

func (s *stubRegistrar) SubmitRegistration(ctx context.Context, code string) (client.Registration, error) {
	s.codes = append(s.codes, code)
	s.ctxs = append(s.ctxs, ctx)
	return s.reg, s.err
}

// recordingNotifier captures enqueued notifications along with the controller
// state visible at enqueue time.
type recordingNotifier struct {
	ctrl    *Controller
	entries []notify.Options
	seen    []observed
}

type observed struct {
	state     State
	message   string
	errMsg    string
	canSubmit bool
}

func (n *recordingNotifier) Enqueue(opts notify.Options) int64 {
	n.entries = append(n.entries, opts)
	if n.ctrl != nil {
		n.seen = append(n.seen, observed{n.ctrl.State(), n.ctrl.Message(), n.ctrl.Error(), n.ctrl.CanSubmit()})
	}
	return int64(len(n.entries))
}

func newController(reg *stubRegistrar) (*Controller, *recordingNotifier) {
	n := &recordingNotifier{}
	c := New(reg, n)
	n.ctrl = c
	return c, n
}

func envelope(ok bool, status int, errCode, msg string) client.Registration {
	return client.Registration{Envelope: client.Envelope[client.Producer]{OK: ok, Status: status, Error: errCode, Message: msg}}
}

func TestCanSubmit_RequiresValidInput(t *testing.T) {
	c, _ := newController(&stubRegistrar{})

	require.False(t, c.CanSubmit())

	c.SetInput("INVALID")
	require.False(t, c.CanSubmit())
	_, ok := c.Begin()
	require.False(t, ok)
	require.Equal(t, Idle, c.State())

	c.SetInput("fr-la1-24-00001")
	require.True(t, c.CanSubmit())
	require.Equal(t, "FRLA12400001", c.Normalized())
}

func TestBegin_SendsNormalizedCodeAndBlocksSecondSubmit(t *testing.T) {
	reg := &stubRegistrar{reg: envelope(true, http.StatusAccepted, "", "")}
	c, _ := newController(reg)
	c.SetInput("FR-LA1-24-00001")

	ticket, ok := c.Begin()
	require.True(t, ok)
	require.Equal(t, Submitting, c.State())
	require.False(t, c.CanSubmit())

	_, ok = c.Begin()
	require.False(t, ok)

	c.Execute(ticket)
	require.Equal(t, []string{"FRLA12400001"}, reg.codes)
}

func TestBegin_ClearsPreviousMessages(t *testing.T) {
	reg := &stubRegistrar{reg: envelope(false, http.StatusBadRequest, "Bad Request", "")}
	c, _ := newController(reg)
	c.SetInput("FRLA12400001")

	_, ok := c.Submit(context.Background())
	require.True(t, ok)
	require.NotEmpty(t, c.Error())

	_, ok = c.Begin()
	require.True(t, ok)
	require.Empty(t, c.Error())
	require.Empty(t, c.Message())
}

func TestSettle_SuccessWithTrackInfo(t *testing.T) {
	reg := &stubRegistrar{reg: client.Registration{
		Envelope:  client.Envelope[client.Producer]{OK: true, Status: http.StatusAccepted},
		TrackInfo: &client.TrackInfo{Title: "Bohemian Rhapsody", Artists: "Queen"},
	}}
	c, n := newController(reg)
	c.SetInput("GBUM71029604")

	out, ok := c.Submit(context.Background())
	require.True(t, ok)

	require.Equal(t, Succeeded, out.State)
	require.Equal(t, Succeeded, c.State())
	require.Equal(t, MsgAccepted, c.Message())
	require.Empty(t, c.Error())
	require.Len(t, n.entries, 1)

	got := n.entries[0]
	require.Equal(t, "Track Registered Successfully", got.Title)
	require.Contains(t, got.Description, "Bohemian Rhapsody")
	require.Contains(t, got.Description, "Queen")
	require.Equal(t, notify.VariantSuccess, got.Variant)
	require.Equal(t, DefaultNotifyDuration, got.Duration)
	require.Equal(t, int64(1), out.NotificationID)
}

func TestSettle_SuccessWithoutTrackInfo(t *testing.T) {
	c, n := newController(&stubRegistrar{reg: envelope(true, http.StatusAccepted, "", "")})
	c.SetInput("FRLA12400001")

	out, _ := c.Submit(context.Background())

	require.Nil(t, out.TrackInfo)
	require.Equal(t, "Track Registered", n.entries[0].Title)
	require.Equal(t, "Track registration accepted and is being processed.", n.entries[0].Description)
	require.Equal(t, DefaultNotifyDuration, n.entries[0].Duration)
}

func TestSettle_Failures(t *testing.T) {
	tests := []struct {
		name     string
		reg      client.Registration
		err      error
		inline   string
		title    string
		desc     string
		duration int64
	}{
		{
			name:     "400 without message",
			reg:      envelope(false, 400, "Bad Request", ""),
			inline:   "Invalid ISRC format (400). Please check and try again.",
			title:    "Invalid ISRC Format",
			desc:     "The ISRC format is invalid. Please check and try again.",
			duration: 5000,
		},
		{
			name:     "400 with server message",
			reg:      envelope(false, 400, "Bad Request", "ISRC must be 12 characters"),
			inline:   MsgInvalidISRC,
			title:    "Invalid ISRC Format",
			desc:     "ISRC must be 12 characters",
			duration: 5000,
		},
		{
			name:     "422 with server message",
			reg:      envelope(false, 422, "Unprocessable Entity", "Spotify could not find this ISRC"),
			inline:   "ISRC valid but unresolvable upstream (422).",
			title:    "External Service Error",
			desc:     "Spotify could not find this ISRC",
			duration: 7000,
		},
		{
			name:     "422 without message",
			reg:      envelope(false, 422, "", ""),
			inline:   MsgUnresolvable,
			title:    "External Service Error",
			desc:     "The ISRC is valid but could not be resolved by external services.",
			duration: 7000,
		},
		{
			name:     "other status",
			reg:      envelope(false, 503, "Service Unavailable", "down"),
			inline:   "Request failed (503).",
			title:    "Request Failed",
			desc:     "Server responded with status 503. Please try again later.",
			duration: 5000,
		},
		{
			name:     "network envelope",
			reg:      envelope(false, 0, client.ErrorNetwork, "connection refused"),
			inline:   "Network or server error. Please try again later.",
			title:    "Network Error",
			desc:     "Unable to connect to server. Please check your connection and try again.",
			duration: 5000,
		},
		{
			name:     "registrar error",
			err:      errors.New("boom"),
			inline:   MsgNetwork,
			title:    "Network Error",
			desc:     "Unable to connect to server. Please check your connection and try again.",
			duration: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, n := newController(&stubRegistrar{reg: tt.reg, err: tt.err})
			c.SetInput("FRLA12400001")

			out, ok := c.Submit(context.Background())
			require.True(t, ok)

			require.Equal(t, Failed, out.State)
			require.Equal(t, Failed, c.State())
			require.Equal(t, tt.inline, c.Error())
			require.Empty(t, c.Message())
			require.Len(t, n.entries, 1)
			require.Equal(t, tt.title, n.entries[0].Title)
			require.Equal(t, tt.desc, n.entries[0].Description)
			require.Equal(t, notify.VariantDestructive, n.entries[0].Variant)
			require.Equal(t, tt.duration, n.entries[0].Duration.Milliseconds())
		})
	}
}

func TestSettle_OrdersSideEffects(t *testing.T) {
	c, n := newController(&stubRegistrar{reg: envelope(false, 400, "", "")})
	c.SetInput("FRLA12400001")

	_, ok := c.Submit(context.Background())
	require.True(t, ok)

	// At enqueue time the inline error is already set but the trigger is
	// still disabled.
	require.Len(t, n.seen, 1)
	require.Equal(t, MsgInvalidISRC, n.seen[0].errMsg)
	require.Equal(t, Submitting, n.seen[0].state)
	require.False(t, n.seen[0].canSubmit)

	require.True(t, c.CanSubmit())
}

func TestSettle_AllowsResubmitAfterSettle(t *testing.T) {
	reg := &stubRegistrar{reg: envelope(true, http.StatusAccepted, "", "")}
	c, n := newController(reg)
	c.SetInput("FRLA12400001")

	_, ok := c.Submit(context.Background())
	require.True(t, ok)
	_, ok = c.Submit(context.Background())
	require.True(t, ok)

	require.Len(t, reg.codes, 2)
	require.Len(t, n.entries, 2)
}

func TestSettle_ReportsSubmittedCodeAfterInputChanges(t *testing.T) {
	reg := &stubRegistrar{reg: client.Registration{
		Envelope:  client.Envelope[client.Producer]{OK: true, Status: http.StatusAccepted},
		TrackInfo: &client.TrackInfo{Title: "Bohemian Rhapsody", Artists: "Queen"},
	}}
	c, _ := newController(reg)
	c.SetInput("gbum7-10-29604")

	ticket, ok := c.Begin()
	require.True(t, ok)
	require.Equal(t, "GBUM71029604", ticket.Code)

	c.SetInput("FRLA12400001")
	out, ok := c.Settle(ticket.Execute())
	require.True(t, ok)

	require.Equal(t, ticket.Code, out.Code)
	require.Equal(t, []string{"GBUM71029604"}, reg.codes)
	require.Equal(t, "FRLA12400001", c.Normalized())
}

func TestSettle_DiscardsStaleResult(t *testing.T) {
	reg := &stubRegistrar{reg: envelope(true, http.StatusAccepted, "", "")}
	c, n := newController(reg)
	c.SetInput("FRLA12400001")

	first, ok := c.Begin()
	require.True(t, ok)
	stale := c.Execute(first)
	c.Abandon()
	require.Equal(t, Idle, c.State())

	second, ok := c.Begin()
	require.True(t, ok)
	require.Greater(t, second.Generation, first.Generation)

	_, applied := c.Settle(stale)
	require.False(t, applied)
	require.Equal(t, Submitting, c.State())
	require.Empty(t, n.entries)

	_, applied = c.Settle(c.Execute(second))
	require.True(t, applied)
	require.Equal(t, Succeeded, c.State())
}

func TestAbandon_CancelsTicketContext(t *testing.T) {
	reg := &stubRegistrar{reg: envelope(true, http.StatusAccepted, "", "")}
	c, _ := newController(reg)
	c.SetInput("FRLA12400001")

	ticket, _ := c.Begin()
	c.Abandon()
	c.Execute(ticket)

	require.Len(t, reg.ctxs, 1)
	require.ErrorIs(t, reg.ctxs[0].Err(), context.Canceled)
}

func TestAbandon_NoopWhenIdle(t *testing.T) {
	c, _ := newController(&stubRegistrar{})
	c.Abandon()
	require.Equal(t, Idle, c.State())
}

func TestSettle_IgnoresResultWhenNotSubmitting(t *testing.T) {
	c, n := newController(&stubRegistrar{})
	_, ok := c.Settle(Result{Generation: 0})
	require.False(t, ok)
	require.Empty(t, n.entries)
}

func TestController_AgainstBackend(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.QueueRegister(testutil.Accepted("GBUM71029604", "Bohemian Rhapsody", "Queen"))

	queue := notify.NewQueue()
	defer queue.Close()
	c := New(client.New(backend.URL()), queue)
	c.SetInput("gb-um7-10-29604")

	out, ok := c.Submit(context.Background())
	require.True(t, ok)
	require.Equal(t, Succeeded, out.State)
	require.Equal(t, "Queen", out.TrackInfo.Artists)

	entry, found := queue.Get(out.NotificationID)
	require.True(t, found)
	require.Contains(t, entry.Description, "Bohemian Rhapsody")
	require.Equal(t, []string{"GBUM71029604"}, backend.Registrations())
}
