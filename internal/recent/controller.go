// Package recent manages the fetch lifecycle of the recently processed tracks
// list.
package recent

import (
	"context"
	"time"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/log"
)

// MaxItems is the number of tracks shown; later entries are never displayed.
const MaxItems = 10

const (
	FallbackError = "Unable to load recent tracks."
	EmptyText     = "No recent tracks yet. Tracks you validate will appear here."
)

// State is the list lifecycle state.
type State int

const (
	Loading State = iota
	Error
	Empty
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// PresentationStatus is the two-value label shown for a track.
type PresentationStatus string

const (
	Provisional PresentationStatus = "Provisional"
	Verified    PresentationStatus = "Verified"
)

// Present maps a server status. Only VALIDATED is Verified; REJECTED and
// unknown values display as Provisional.
func Present(s client.TrackStatus) PresentationStatus {
	if s == client.StatusValidated {
		return Verified
	}
	return Provisional
}

// Item is one displayed track.
type Item struct {
	Key         string
	ISRC        string
	Title       string
	Artists     []string
	Status      PresentationStatus
	Raw         client.TrackStatus
	Source      string
	Producer    string
	SubmittedAt time.Time
}

// View is a snapshot of the list for rendering.
type View struct {
	State   State
	Items   []Item
	Message string
}

// Fetcher reads the recent tracks. *client.Client implements it.
type Fetcher interface {
	FetchRecent(ctx context.Context) client.Envelope[[]client.RecentTrack]
}

// Ticket identifies one fetch.
type Ticket struct {
	Generation uint64

	ctx     context.Context
	fetcher Fetcher
}

// Execute performs the fetch for t. It touches no controller state.
func (t Ticket) Execute() client.Envelope[[]client.RecentTrack] {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return t.fetcher.FetchRecent(ctx)
}

// Controller is the list state machine. It is not safe for concurrent use.
type Controller struct {
	fetcher Fetcher
	parent  context.Context

	state   State
	items   []Item
	message string

	generation uint64
	cancel     context.CancelFunc
}

// New creates a controller in the Loading state. Nothing is fetched until
// Start or Load.
func New(fetcher Fetcher) *Controller {
	return &Controller{fetcher: fetcher, parent: context.Background()}
}

// WithContext sets the parent of every fetch context.
func (c *Controller) WithContext(ctx context.Context) *Controller {
	c.parent = ctx
	return c
}

// Start enters Loading, drops any previous items or error, and cancels the
// previous fetch if it is still running.
func (c *Controller) Start() Ticket {
	c.release()
	c.state = Loading
	c.items = nil
	c.message = ""
	c.generation++

	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel

	log.Debug(log.CatRecent, "loading recent tracks", "generation", c.generation)
	return Ticket{Generation: c.generation, ctx: ctx, fetcher: c.fetcher}
}

// Execute performs the fetch for t.
func (c *Controller) Execute(t Ticket) client.Envelope[[]client.RecentTrack] {
	if t.fetcher == nil {
		t.fetcher = c.fetcher
	}
	return t.Execute()
}

// Settle applies env if t is still current, reporting whether it did.
func (c *Controller) Settle(t Ticket, env client.Envelope[[]client.RecentTrack]) bool {
	if c.state != Loading || t.Generation != c.generation {
		log.Debug(log.CatRecent, "discarding stale recent tracks",
			"generation", t.Generation, "current", c.generation)
		return false
	}
	c.release()

	if !env.OK {
		c.state = Error
		c.message = env.Message
		if c.message == "" {
			c.message = FallbackError
		}
		log.Warn(log.CatRecent, "recent tracks failed", "status", env.Status, "error", env.Error)
		return true
	}

	var tracks []client.RecentTrack
	if env.Data != nil {
		tracks = *env.Data
	}
	if len(tracks) == 0 {
		c.state = Empty
		log.Debug(log.CatRecent, "recent tracks empty")
		return true
	}
	if len(tracks) > MaxItems {
		tracks = tracks[:MaxItems]
	}

	c.items = make([]Item, 0, len(tracks))
	for _, tr := range tracks {
		c.items = append(c.items, toItem(tr))
	}
	c.state = Loaded
	log.Debug(log.CatRecent, "recent tracks loaded", "count", len(c.items))
	return true
}

// Load runs a whole fetch synchronously.
func (c *Controller) Load(ctx context.Context) View {
	if ctx != nil {
		c.parent = ctx
	}
	t := c.Start()
	c.Settle(t, c.Execute(t))
	return c.Snapshot()
}

// Retry restarts the fetch. It is only available from Error.
func (c *Controller) Retry() (Ticket, bool) {
	if c.state != Error {
		return Ticket{}, false
	}
	log.Info(log.CatRecent, "retrying recent tracks")
	return c.Start(), true
}

// CanRetry reports whether Retry would start a fetch.
func (c *Controller) CanRetry() bool {
	return c.state == Error
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Snapshot returns the current view. Items is a copy.
func (c *Controller) Snapshot() View {
	return View{
		State:   c.state,
		Items:   append([]Item(nil), c.items...),
		Message: c.message,
	}
}

// Close cancels any in-flight fetch.
func (c *Controller) Close() {
	c.release()
	c.generation++
}

func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func toItem(tr client.RecentTrack) Item {
	item := Item{
		Key:         tr.Key(),
		ISRC:        tr.ISRC,
		Title:       tr.Title,
		Artists:     tr.ArtistNames,
		Status:      Present(tr.Status),
		Raw:         tr.Status,
		Producer:    tr.Producer.Name,
		SubmittedAt: tr.SubmissionDate.Time,
	}
	if item.Producer == "" {
		item.Producer = tr.Producer.Code
	}
	if tr.Source != nil {
		item.Source = tr.Source.Name
	}
	return item
}
