package core

import (
	"sync"
	"time"
)

// Debouncer delays an action until no new call has arrived for delay.
// Only one invocation is ever pending and it carries the latest argument.
type Debouncer[T any] struct {
	delay  time.Duration
	action func(T)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending bool
	arg     T
}

// NewDebouncer wraps action.
func NewDebouncer[T any](delay time.Duration, action func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, action: action}
}

// Debounce returns a fire-and-forget wrapper around action.
func Debounce[T any](action func(T), delay time.Duration) func(T) {
	return NewDebouncer(delay, action).Call
}

// Call cancels any pending invocation and schedules a new one with arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.arg = arg
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire runs the action unless a newer call, Stop or Flush superseded seq.
func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	arg := d.take()
	d.mu.Unlock()
	d.action(arg)
}

// Flush runs a pending invocation now, on the calling goroutine.
// It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	arg := d.take()
	d.mu.Unlock()
	d.action(arg)
	return true
}

// Stop drops a pending invocation.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	var zero T
	d.arg = zero
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// take must be called with mu held.
func (d *Debouncer[T]) take() T {
	arg := d.arg
	var zero T
	d.arg = zero
	d.pending = false
	return arg
}
