package core

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(arg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, arg)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	rec := &recorder{}
	debounced := Debounce(rec.record, 40*time.Millisecond)

	for _, arg := range []string{"c", "ch", "chi", "chic", "chick"} {
		debounced(arg)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	// no late second invocation
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"chick"}, rec.snapshot())
}

func TestDebounceFiresOnceWhenIdle(t *testing.T) {
	var calls int32
	d := NewDebouncer(10*time.Millisecond, func(int) { atomic.AddInt32(&calls, 1) })

	d.Call(1)
	assert.True(t, d.Pending())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 2*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, d.Pending())
}

func TestDebounceSeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(10*time.Millisecond, rec.record)

	d.Call("first")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 2*time.Millisecond)
	d.Call("second")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 2*time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebounceFlush(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(time.Hour, rec.record)

	assert.False(t, d.Flush(), "nothing pending yet")

	d.Call("a")
	d.Call("b")
	require.True(t, d.Flush())
	assert.Equal(t, []string{"b"}, rec.snapshot())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestDebounceStop(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(10*time.Millisecond, rec.record)

	d.Call("dropped")
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, d.Flush())
}
