// Package notify holds the queue of transient notifications shown over the UI.
//
// Entries keep insertion order, get ids from a monotonic Counter that is never
// reset, and expire on their own scheduled task. Removing an entry cancels its
// task; removing it twice is a no-op.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/pubsub"
)

// DefaultDuration is how long an entry lives when Options.Duration is zero.
const DefaultDuration = 3200 * time.Millisecond

// Variant selects how an entry is presented.
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantError       Variant = "error"
	VariantInfo        Variant = "info"
	VariantDestructive Variant = "destructive"
)

// Alert reports whether the variant should be announced as an alert rather
// than a polite status.
func (v Variant) Alert() bool {
	return v == VariantError || v == VariantDestructive
}

// Options describes a notification to enqueue.
type Options struct {
	Title       string
	Description string
	Message     string
	Variant     Variant       // VariantInfo when empty
	Duration    time.Duration // DefaultDuration when zero or negative
}

// Entry is a queued notification. Entries are never mutated after creation.
type Entry struct {
	ID          int64
	Title       string
	Description string
	Message     string
	Variant     Variant
	Duration    time.Duration
	CreatedAt   time.Time
}

// Event is published on every queue change.
type Event = pubsub.Event[Entry]

// Counter hands out notification ids. The zero value starts at 1.
type Counter struct {
	last atomic.Int64
}

// Next returns the next id.
func (c *Counter) Next() int64 {
	return c.last.Add(1)
}

// Task is a pending expiry.
type Task interface {
	// Stop cancels the task, reporting whether it had not run yet.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// Queue is an ordered, self-expiring collection of notifications.
// It is safe for concurrent use; expiry tasks run on their own goroutines.
type Queue struct {
	mu       sync.Mutex
	entries  []Entry
	tasks    map[int64]Task
	counter  *Counter
	sched    Scheduler
	now      func() time.Time
	fallback time.Duration
	broker   *pubsub.Broker[Entry]
}

// Option configures a Queue.
type Option func(*Queue)

// WithCounter shares an id counter between queues.
func WithCounter(c *Counter) Option {
	return func(q *Queue) { q.counter = c }
}

// WithScheduler replaces the time.AfterFunc scheduler.
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithDefaultDuration overrides DefaultDuration for this queue.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.fallback = d
		}
	}
}

// WithClock sets the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// NewQueue creates an empty queue with its own counter unless one is given.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		tasks:    make(map[int64]Task),
		counter:  &Counter{},
		sched:    timerScheduler{},
		now:      time.Now,
		fallback: DefaultDuration,
		broker:   pubsub.NewBroker[Entry](),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetDefaultDuration changes the duration applied to later notifications
// that do not set their own. Non-positive values are ignored.
func (q *Queue) SetDefaultDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	q.mu.Lock()
	q.fallback = d
	q.mu.Unlock()
}

// Enqueue appends a notification and schedules its expiry. Returns its id.
func (q *Queue) Enqueue(opts Options) int64 {
	entry := Entry{
		Title:       opts.Title,
		Description: opts.Description,
		Message:     opts.Message,
		Variant:     opts.Variant,
		Duration:    opts.Duration,
	}
	if entry.Variant == "" {
		entry.Variant = VariantInfo
	}

	q.mu.Lock()
	if entry.Duration <= 0 {
		entry.Duration = q.fallback
	}
	entry.ID = q.counter.Next()
	entry.CreatedAt = q.now()
	q.entries = append(q.entries, entry)

	id := entry.ID
	q.tasks[id] = q.sched.AfterFunc(entry.Duration, func() {
		if q.remove(id, false) {
			log.Debug(log.CatNotify, "notification expired", "id", id)
		}
	})
	q.mu.Unlock()

	log.Debug(log.CatNotify, "notification enqueued", "id", id, "variant", entry.Variant, "duration", entry.Duration)
	q.broker.Publish(pubsub.AddedEvent, entry)
	return id
}

// Remove deletes the entry with id and cancels its expiry.
// It reports whether an entry was removed.
func (q *Queue) Remove(id int64) bool {
	return q.remove(id, true)
}

func (q *Queue) remove(id int64, cancel bool) bool {
	q.mu.Lock()
	idx := -1
	for i, e := range q.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}

	removed := q.entries[idx]
	q.entries = append(q.entries[:idx:idx], q.entries[idx+1:]...)
	if task, ok := q.tasks[id]; ok {
		if cancel {
			task.Stop()
		}
		delete(q.tasks, id)
	}
	q.mu.Unlock()

	q.broker.Publish(pubsub.RemovedEvent, removed)
	return true
}

// Clear removes every entry, cancelling all pending expiries.
func (q *Queue) Clear() {
	q.mu.Lock()
	ids := make([]int64, 0, len(q.entries))
	for _, e := range q.entries {
		ids = append(ids, e.ID)
	}
	q.mu.Unlock()

	for _, id := range ids {
		q.Remove(id)
	}
}

// Entries returns a snapshot in display (insertion) order.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Entry(nil), q.entries...)
}

// Get returns the entry with id, if still queued.
func (q *Queue) Get(id int64) (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Newest returns the most recently enqueued entry still queued.
func (q *Queue) Newest() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[len(q.entries)-1], true
}

// Broker publishes AddedEvent and RemovedEvent for every change.
func (q *Queue) Broker() *pubsub.Broker[Entry] {
	return q.broker
}

// Close cancels every pending expiry and closes the broker. Entries remain
// readable.
func (q *Queue) Close() {
	q.mu.Lock()
	for id, task := range q.tasks {
		task.Stop()
		delete(q.tasks, id)
	}
	q.mu.Unlock()
	q.broker.Close()
}
