package batch

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultProgressInterval is the minimum gap between progress snapshots when
// Options.ProgressInterval is zero.
const DefaultProgressInterval = 100 * time.Millisecond

// Progress is a snapshot of a running batch.
type Progress struct {
	JobID     string
	Completed int
	Total     int
	Percent   float64
	Elapsed   time.Duration
	// Remaining is estimated from the average time per completed item.
	Remaining time.Duration
	// PerSecond is the throughput so far in items per second.
	PerSecond float64
}

func snapshot(jobID string, completed, total int, elapsed time.Duration) Progress {
	p := Progress{JobID: jobID, Completed: completed, Total: total, Elapsed: elapsed, Percent: 100}
	if total > 0 {
		p.Percent = float64(completed) * 100 / float64(total)
	}
	if completed > 0 {
		p.Remaining = elapsed / time.Duration(completed) * time.Duration(total-completed)
	}
	if s := elapsed.Seconds(); s > 0 {
		p.PerSecond = float64(completed) / s
	}
	return p
}

// progressEmitter bounds how often OnProgress runs. The final snapshot is
// always delivered.
type progressEmitter struct {
	fn       func(Progress)
	every    rate.Sometimes
	lastSent int
}

func newProgressEmitter(fn func(Progress), interval time.Duration) *progressEmitter {
	e := &progressEmitter{fn: fn, lastSent: -1}
	switch {
	case interval < 0:
		e.every = rate.Sometimes{Every: 1}
	case interval == 0:
		e.every = rate.Sometimes{First: 1, Interval: DefaultProgressInterval}
	default:
		e.every = rate.Sometimes{First: 1, Interval: interval}
	}
	return e
}

func (e *progressEmitter) emit(p Progress) {
	if e.fn == nil {
		return
	}
	e.every.Do(func() {
		e.fn(p)
		e.lastSent = p.Completed
	})
}

func (e *progressEmitter) final(p Progress) {
	if e.fn == nil || e.lastSent == p.Completed {
		return
	}
	e.fn(p)
	e.lastSent = p.Completed
}
