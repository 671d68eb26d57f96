// Package debounce coalesces rapid triggers into one delayed call.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the most recent scheduled function once no newer call
// has been scheduled for the configured delay. It is safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending *Call
	closed  bool
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Do schedules fn after the quiet period. Any previously scheduled call that
// has not fired yet is superseded: its timer is stopped and its Call resolves
// with fired=false. After Close, Do returns an already superseded Call.
func (d *Debouncer) Do(fn func() error) *Call {
	c := newCall()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		c.finish(false, nil)
		return c
	}
	d.supersedeLocked()

	d.pending = c
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending != c {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()

		c.finish(true, fn())
	})
	return c
}

// Cancel supersedes the pending call, if any, without scheduling a new one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}

// Close cancels the pending call and rejects further scheduling.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
	d.closed = true
}

// Pending reports whether a call is waiting for its quiet period to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		d.pending.finish(false, nil)
		d.pending = nil
	}
}

// Call is the outcome of one Do invocation.
type Call struct {
	done  chan struct{}
	once  sync.Once
	fired bool
	err   error
}

func newCall() *Call {
	return &Call{done: make(chan struct{})}
}

func (c *Call) finish(fired bool, err error) {
	c.once.Do(func() {
		c.fired = fired
		c.err = err
		close(c.done)
	})
}

// Done is closed once the call has either run or been superseded.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call resolves or ctx ends. fired reports whether the
// scheduled function ran; err is its result.
func (c *Call) Wait(ctx context.Context) (fired bool, err error) {
	select {
	case <-c.done:
		return c.fired, c.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
