package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/store"
	"github.com/stretchr/testify/require"
)

// fakeLookup answers from canned responses. Terms with a gate block until the
// gate is closed or the context ends.
type fakeLookup struct {
	mu        sync.Mutex
	calls     []string
	responses map[string][]model.Recipe
	errs      map[string]error
	gates     map[string]chan struct{}
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		responses: map[string][]model.Recipe{},
		errs:      map[string]error{},
		gates:     map[string]chan struct{}{},
	}
}

func (f *fakeLookup) LookupByName(ctx context.Context, term string) ([]model.Recipe, error) {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	gate := f.gates[term]
	recipes, err := f.responses[term], f.errs[term]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		return []model.Recipe{}, nil
	}
	return recipes, nil
}

func (f *fakeLookup) respond(term string, recipes []model.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[term] = recipes
}

func (f *fakeLookup) fail(term string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[term] = err
}

func (f *fakeLookup) gate(term string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[term] = gate
	return gate
}

func (f *fakeLookup) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func meals(names ...string) []model.Recipe {
	recipes := make([]model.Recipe, len(names))
	for i, name := range names {
		recipes[i] = model.Recipe{
			ID:        fmt.Sprintf("%d", 52700+i),
			Name:      name,
			Thumbnail: "https://img.example/" + fmt.Sprint(i) + ".jpg",
			Category:  "Chicken",
			Source:    "https://recipes.example/" + fmt.Sprint(i),
		}
	}
	return recipes
}

type harness struct {
	o       *Orchestrator
	lookup  *fakeLookup
	kv      *store.MemoryStore
	history *store.RecentSearches
}

// newHarness builds an orchestrator whose debouncer never fires on its own;
// tests drive it with FlushInput.
func newHarness(t *testing.T) *harness {
	return newHarnessWithDelay(t, time.Hour)
}

func newHarnessWithDelay(t *testing.T, delay time.Duration) *harness {
	t.Helper()
	kv := store.NewMemoryStore()
	return newHarnessWithKV(t, kv, delay)
}

func newHarnessWithKV(t *testing.T, kv *store.MemoryStore, delay time.Duration) *harness {
	t.Helper()
	lookup := newFakeLookup()
	history := store.NewRecentSearches(kv, 5)
	opts := DefaultOptions()
	opts.DebounceDelay = delay
	o := NewOrchestrator(lookup, history, store.NewThemeStore(kv), opts)
	t.Cleanup(o.Close)
	return &harness{o: o, lookup: lookup, kv: kv, history: history}
}

// typeAndSettle simulates a keystroke followed by the quiet period.
func (h *harness) typeAndSettle(t *testing.T, input string, key Key) {
	t.Helper()
	h.o.Keystroke(input, key)
	require.True(t, h.o.FlushInput())
	h.o.Wait()
}
