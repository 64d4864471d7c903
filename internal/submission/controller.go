// Package submission drives a single ISRC registration from keystrokes to
// settled outcome.
//
// The controller is not safe for concurrent use. In the TUI it is only touched
// from the Bubble Tea update loop; Execute is the one method meant to run on a
// command goroutine, and it reads nothing but its ticket.
package submission

import (
	"context"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/isrc"
	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/notify"
)

// State is the submission lifecycle state.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Registrar submits a normalized ISRC. *client.Client implements it.
type Registrar interface {
	SubmitRegistration(ctx context.Context, code string) (client.Registration, error)
}

// Notifier receives outcome notifications. *notify.Queue implements it.
type Notifier interface {
	Enqueue(opts notify.Options) int64
}

// Ticket identifies one in-flight submission.
type Ticket struct {
	Generation uint64
	Code       string

	ctx       context.Context
	registrar Registrar
}

// Result is what Execute produced for a ticket.
type Result struct {
	Generation   uint64
	Code         string
	Registration client.Registration
	Err          error
}

// Outcome describes how a settled submission changed the controller.
type Outcome struct {
	State          State
	Code           string
	Inline         string
	Notification   notify.Options
	NotificationID int64
	TrackInfo      *client.TrackInfo
}

// Controller owns the raw input and the submission state machine.
type Controller struct {
	registrar Registrar
	notifier  Notifier

	raw     string
	state   State
	message string
	errMsg  string

	generation uint64
	cancel     context.CancelFunc
	parent     context.Context
}

// New creates an idle controller.
func New(registrar Registrar, notifier Notifier) *Controller {
	return &Controller{
		registrar: registrar,
		notifier:  notifier,
		parent:    context.Background(),
	}
}

// WithContext sets the parent of every ticket context, typically the
// program's lifetime.
func (c *Controller) WithContext(ctx context.Context) *Controller {
	c.parent = ctx
	return c
}

// SetInput replaces the raw input.
func (c *Controller) SetInput(raw string) {
	c.raw = raw
}

// Input returns the raw input as typed.
func (c *Controller) Input() string { return c.raw }

// Normalized returns the normalized form of the input.
func (c *Controller) Normalized() string { return isrc.Normalize(c.raw) }

// Valid reports whether the input is a valid ISRC.
func (c *Controller) Valid() bool { return isrc.IsValid(c.raw) }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Message returns the inline success message, if any.
func (c *Controller) Message() string { return c.message }

// Error returns the inline error message, if any.
func (c *Controller) Error() string { return c.errMsg }

// CanSubmit reports whether the trigger is enabled.
func (c *Controller) CanSubmit() bool {
	return c.state != Submitting && c.Valid()
}

// Begin moves to Submitting and clears the inline messages. It returns false
// without changing anything when the trigger is disabled.
func (c *Controller) Begin() (Ticket, bool) {
	if !c.CanSubmit() {
		return Ticket{}, false
	}

	c.message = ""
	c.errMsg = ""
	c.state = Submitting
	c.generation++

	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel

	code := c.Normalized()
	log.Info(log.CatSubmit, "submission started", "isrc", code, "generation", c.generation)
	return Ticket{
		Generation: c.generation,
		Code:       code,
		ctx:        ctx,
		registrar:  c.registrar,
	}, true
}

// Execute performs the registration for t. It touches no controller state.
func (t Ticket) Execute() Result {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	reg, err := t.registrar.SubmitRegistration(ctx, t.Code)
	return Result{Generation: t.Generation, Code: t.Code, Registration: reg, Err: err}
}

// Execute performs the registration for t.
func (c *Controller) Execute(t Ticket) Result {
	if t.registrar == nil {
		t.registrar = c.registrar
	}
	return t.Execute()
}

// Settle applies res. The inline message is set first, then the notification
// is enqueued, then the trigger is re-enabled. Results from a superseded
// ticket are discarded and Settle reports false.
func (c *Controller) Settle(res Result) (Outcome, bool) {
	if c.state != Submitting || res.Generation != c.generation {
		log.Debug(log.CatSubmit, "discarding stale submission result",
			"generation", res.Generation, "current", c.generation)
		return Outcome{}, false
	}

	out := Outcome{Code: res.Code}
	switch {
	case res.Err != nil:
		log.ErrorErr(log.CatSubmit, "registrar failed", res.Err, "generation", res.Generation)
		out.State = Failed
		out.Inline = MsgNetwork
		out.Notification = networkError()
	case res.Registration.OK:
		out.State = Succeeded
		out.Inline = MsgAccepted
		out.TrackInfo = res.Registration.TrackInfo
		out.Notification = accepted(res.Registration.TrackInfo)
	default:
		out.State = Failed
		out.Inline, out.Notification = rejected(res.Registration.Envelope)
	}

	if out.State == Succeeded {
		c.message = out.Inline
	} else {
		c.errMsg = out.Inline
	}
	if c.notifier != nil {
		out.NotificationID = c.notifier.Enqueue(out.Notification)
	}
	c.release()
	c.state = out.State

	log.Info(log.CatSubmit, "submission settled", "state", out.State, "status", res.Registration.Status)
	return out, true
}

// Submit runs a whole submission synchronously. It reports false when the
// trigger was disabled.
func (c *Controller) Submit(ctx context.Context) (Outcome, bool) {
	if ctx != nil {
		c.parent = ctx
	}
	t, ok := c.Begin()
	if !ok {
		return Outcome{}, false
	}
	return c.Settle(c.Execute(t))
}

// Abandon cancels the in-flight submission so its result will be discarded,
// and returns to Idle.
func (c *Controller) Abandon() {
	if c.state != Submitting {
		return
	}
	log.Debug(log.CatSubmit, "submission abandoned", "generation", c.generation)
	c.release()
	c.generation++
	c.state = Idle
}

func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
