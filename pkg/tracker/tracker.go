// Package tracker is the in-memory dedup record of which workouts have
// been processed or are in flight. It is the only shared mutable state in
// the service and the sole guard against double-processing a workout
// observed by both the webhook and the poll sweep.
package tracker

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Status is the lifecycle state of a processing record. A record moves
// InFlight -> Succeeded | Failed and is never re-entered while present.
type Status int

const (
	StatusInFlight Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is the per-workout processing state. Process-lifetime only; not
// persisted across restarts.
type Record struct {
	WorkoutID     string
	Status        Status
	LastAttemptAt time.Time
	AttemptCount  int
}

// Options bound how long records are retained. Succeeded records keep the
// full retention window; Failed records expire sooner so a later poll
// sweep naturally retries them; an InFlight claim that never reports back
// expires after ClaimTimeout instead of blocking its id forever.
type Options struct {
	SuccessRetention time.Duration
	FailureRetention time.Duration
	ClaimTimeout     time.Duration
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	records *gocache.Cache
	opts    Options
}

func New(opts Options) *Tracker {
	if opts.SuccessRetention <= 0 {
		opts.SuccessRetention = 24 * time.Hour
	}
	if opts.FailureRetention <= 0 {
		opts.FailureRetention = time.Hour
	}
	if opts.ClaimTimeout <= 0 {
		opts.ClaimTimeout = 10 * time.Minute
	}
	return &Tracker{
		records: gocache.New(opts.SuccessRetention, opts.SuccessRetention/4),
		opts:    opts,
	}
}

// TryClaim atomically inserts an InFlight record for the workout and
// reports whether the caller won the claim. A false return means another
// trigger already owns (or finished) this workout; the caller must not
// process it.
func (t *Tracker) TryClaim(workoutID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, found := t.records.Get(workoutID); found {
		// Succeeded, Failed and InFlight records all block a re-claim
		// until retention evicts them.
		return false
	}

	t.records.Set(workoutID, Record{
		WorkoutID:     workoutID,
		Status:        StatusInFlight,
		LastAttemptAt: time.Now(),
		AttemptCount:  1,
	}, t.opts.ClaimTimeout)
	return true
}

// MarkResult records the terminal outcome for a claimed workout. Only the
// claim winner calls this; outcome must be Succeeded or Failed.
func (t *Tracker) MarkResult(workoutID string, outcome Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := Record{WorkoutID: workoutID, AttemptCount: 1}
	if existing, found := t.records.Get(workoutID); found {
		rec = existing.(Record)
	}
	rec.Status = outcome
	rec.LastAttemptAt = time.Now()

	ttl := t.opts.SuccessRetention
	if outcome == StatusFailed {
		ttl = t.opts.FailureRetention
	}
	t.records.Set(workoutID, rec, ttl)
}

// Known reports whether the workout is already InFlight or Succeeded. The
// poll scheduler uses this as a cheap precheck; Failed records return
// false so a sweep re-offers them to the orchestrator, where TryClaim
// still arbitrates.
func (t *Tracker) Known(workoutID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, found := t.records.Get(workoutID)
	if !found {
		return false
	}
	rec := existing.(Record)
	return rec.Status == StatusInFlight || rec.Status == StatusSucceeded
}

// Get returns a copy of the record for the workout, if present.
func (t *Tracker) Get(workoutID string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, found := t.records.Get(workoutID)
	if !found {
		return Record{}, false
	}
	return existing.(Record), true
}
