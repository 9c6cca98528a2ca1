package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hamidzr/recipemenu/mealdb"
	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyQueryClearsSuggestions(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("chicken", meals("Chicken Handi", "Chicken Congee"))

	h.typeAndSettle(t, "chicken", KeyNone)
	require.Len(t, h.o.View().Suggestions, 2)

	h.typeAndSettle(t, "   ", KeyNone)
	view := h.o.View()
	assert.Empty(t, view.Suggestions)
	assert.Equal(t, PhaseIdle, view.Phase)
	assert.Equal(t, []string{"chicken"}, h.lookup.Calls(), "empty input must not hit the network")
}

func TestShortQuerySuppression(t *testing.T) {
	h := newHarness(t)

	h.typeAndSettle(t, "ch", KeyNone)
	assert.Empty(t, h.lookup.Calls())

	h.typeAndSettle(t, " ch ", KeyNone)
	assert.Empty(t, h.lookup.Calls(), "length is measured after trimming")

	h.typeAndSettle(t, "chi", KeyNone)
	assert.Equal(t, []string{"chi"}, h.lookup.Calls())
}

func TestSuggestionLengthCountsRunes(t *testing.T) {
	h := newHarness(t)
	h.typeAndSettle(t, "çé", KeyNone)
	assert.Empty(t, h.lookup.Calls())
	h.typeAndSettle(t, "çéñ", KeyNone)
	assert.Equal(t, []string{"çéñ"}, h.lookup.Calls())
}

func TestDebouncedTypingIssuesOneLookup(t *testing.T) {
	h := newHarnessWithDelay(t, 30*time.Millisecond)
	h.lookup.respond("chicken", meals("Chicken Handi"))

	typed := ""
	for _, r := range "chicken" {
		typed += string(r)
		h.o.Keystroke(typed, KeyNone)
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(h.lookup.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	h.o.Wait()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"chicken"}, h.lookup.Calls())
	assert.Equal(t, []string{"Chicken Handi"}, h.o.View().Suggestions)
}

func TestEndToEndSuggestThenSelect(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("chicken", meals(
		"Chicken Handi", "Chicken Congee", "Chicken Couscous", "Chicken Karaage",
		"Chicken Marengo", "Chicken Basquaise", "Chicken Parmentier", "Chicken Fajita",
	))
	h.lookup.respond("Chicken Congee", meals("Chicken Congee", "Chicken Congee (quick)"))

	h.typeAndSettle(t, "chicken", KeyNone)
	view := h.o.View()
	assert.Equal(t, []string{
		"Chicken Handi", "Chicken Congee", "Chicken Couscous", "Chicken Karaage", "Chicken Marengo",
	}, view.Suggestions)
	assert.Equal(t, ResultsEmpty, view.Results.Status)

	require.NoError(t, h.o.SelectSuggestion(1))
	view = h.o.View()
	assert.Equal(t, "Chicken Congee", view.Input)
	assert.Empty(t, view.Suggestions)

	h.o.Wait()
	view = h.o.View()
	assert.Equal(t, []string{"chicken", "Chicken Congee"}, h.lookup.Calls())
	assert.Equal(t, ResultsReady, view.Results.Status)
	assert.Len(t, view.Results.Cards, 2)
	assert.Equal(t, "Chicken Congee", view.Results.Cards[0].Title)
	assert.Equal(t, []string{"Chicken Congee"}, view.Recent.Tags)
	assert.Equal(t, []string{"Chicken Congee"}, h.history.Load())
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestNoResultsDoesNotRecord(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.kv.Set(store.RecentSearchesKey, `["pasta"]`))
	h = newHarnessWithKV(t, h.kv, time.Hour)

	h.typeAndSettle(t, "zzzzz", KeyEnter)

	view := h.o.View()
	assert.Equal(t, ResultsNoMatch, view.Results.Status)
	assert.Equal(t, NoResultsMessage, view.Results.Message)
	assert.Empty(t, view.Results.Cards)
	assert.Equal(t, []string{"pasta"}, view.Recent.Tags)
	assert.Equal(t, []string{"pasta"}, h.history.Load())
}

func TestEnterWithShortQuerySearchesOnly(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("egg", meals("Egg Drop Soup"))

	h.typeAndSettle(t, "eg", KeyEnter)
	assert.Equal(t, []string{"eg"}, h.lookup.Calls())
	assert.Equal(t, ResultsNoMatch, h.o.View().Results.Status)
}

func TestEnterWithLongQuerySuggestsAndSearches(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("soup", meals("Egg Drop Soup", "Leek Soup"))

	h.typeAndSettle(t, " soup ", KeyEnter)

	assert.ElementsMatch(t, []string{"soup", "soup"}, h.lookup.Calls())
	view := h.o.View()
	assert.Equal(t, []string{"Egg Drop Soup", "Leek Soup"}, view.Suggestions)
	assert.Len(t, view.Results.Cards, 2)
	assert.Equal(t, []string{"soup"}, view.Recent.Tags, "the trimmed term is recorded")
}

func TestSearchShowsLoadingSynchronously(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("pasta", meals("Pasta Bake"))
	gate := h.lookup.gate("pasta")

	h.o.Search("pasta")
	view := h.o.View()
	assert.Equal(t, ResultsLoading, view.Results.Status)
	assert.Equal(t, LoadingMessage, view.Results.Message)
	assert.Equal(t, PhaseSearchPending, view.Phase)

	close(gate)
	h.o.Wait()
	view = h.o.View()
	assert.Equal(t, ResultsReady, view.Results.Status)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestBlankSearchIgnored(t *testing.T) {
	h := newHarness(t)
	h.o.Search("  ")
	h.o.Wait()
	assert.Empty(t, h.lookup.Calls())
	assert.Equal(t, ResultsEmpty, h.o.View().Results.Status)
}

func TestStaleSearchDiscarded(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("slow", meals("Slow Roast"))
	h.lookup.respond("fast", meals("Fast Noodles"))
	slowGate := h.lookup.gate("slow")

	h.o.Search("slow")
	h.o.Search("fast")
	assert.Eventually(t, func() bool {
		return h.o.View().Results.Status == ResultsReady
	}, time.Second, 5*time.Millisecond)

	close(slowGate)
	h.o.Wait()

	view := h.o.View()
	require.Len(t, view.Results.Cards, 1)
	assert.Equal(t, "Fast Noodles", view.Results.Cards[0].Title)
	assert.Equal(t, []string{"fast"}, h.history.Load(), "stale responses must not touch the history")
}

func TestStaleSuggestionsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("beef", meals("Beef Wellington"))
	h.lookup.respond("beef stew", meals("Beef Stew"))
	gate := h.lookup.gate("beef")

	h.o.Keystroke("beef", KeyNone)
	require.True(t, h.o.FlushInput())
	h.o.Keystroke("beef stew", KeyNone)
	require.True(t, h.o.FlushInput())
	assert.Eventually(t, func() bool {
		return len(h.o.View().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	close(gate)
	h.o.Wait()

	assert.Equal(t, []string{"Beef Stew"}, h.o.View().Suggestions)
	assert.Equal(t, PhaseIdle, h.o.View().Phase)
}

func TestClearingInputDropsInFlightSuggestions(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("lamb", meals("Lamb Tagine"))
	gate := h.lookup.gate("lamb")

	h.o.Keystroke("lamb", KeyNone)
	require.True(t, h.o.FlushInput())
	assert.Equal(t, PhaseSuggestPending, h.o.View().Phase)
	h.o.Keystroke("", KeyNone)
	require.True(t, h.o.FlushInput())
	close(gate)
	h.o.Wait()

	view := h.o.View()
	assert.Empty(t, view.Suggestions)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestSearchNetworkFailure(t *testing.T) {
	h := newHarness(t)
	h.lookup.fail("pasta", &mealdb.NetworkError{URL: "http://x", Err: errors.New("dns")})

	h.typeAndSettle(t, "pasta", KeyEnter)

	view := h.o.View()
	assert.Equal(t, ResultsFailed, view.Results.Status)
	assert.Equal(t, networkFailureMessage, view.Results.Message)
	assert.Equal(t, PhaseIdle, view.Phase)
	assert.Equal(t, networkFailureMessage, view.SuggestionNotice)
	assert.Empty(t, h.history.Load())
}

func TestSearchParseFailure(t *testing.T) {
	h := newHarness(t)
	h.lookup.fail("pasta", &mealdb.ParseError{URL: "http://x", Err: errors.New("bad json")})

	h.o.Search("pasta")
	h.o.Wait()

	view := h.o.View()
	assert.Equal(t, ResultsFailed, view.Results.Status)
	assert.Equal(t, parseFailureMessage, view.Results.Message)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestFailureRecoversOnNextSearch(t *testing.T) {
	h := newHarness(t)
	h.lookup.fail("pasta", &mealdb.NetworkError{URL: "http://x", Err: errors.New("offline")})
	h.lookup.respond("soup", meals("Leek Soup"))

	h.o.Search("pasta")
	h.o.Wait()
	require.Equal(t, ResultsFailed, h.o.View().Results.Status)

	h.o.Search("soup")
	h.o.Wait()
	view := h.o.View()
	assert.Equal(t, ResultsReady, view.Results.Status)
	assert.Empty(t, view.Results.Message)
}

func TestSelectSuggestionOutOfRange(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.o.SelectSuggestion(0))
	assert.Error(t, h.o.SelectSuggestion(-1))
	assert.Empty(t, h.lookup.Calls())
}

func TestSelectRecent(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(store.RecentSearchesKey, `["pasta","Beef"]`))
	h := newHarnessWithKV(t, kv, time.Hour)
	h.lookup.respond("Beef", meals("Beef Wellington"))

	assert.Equal(t, []string{"pasta", "Beef"}, h.o.View().Recent.Tags)

	h.o.Keystroke("bee", KeyNone)
	h.o.SelectRecent("Beef")
	assert.False(t, h.o.FlushInput(), "selection drops the pending keystroke")
	h.o.Wait()

	view := h.o.View()
	assert.Equal(t, "Beef", view.Input)
	assert.Equal(t, []string{"Beef"}, h.lookup.Calls())
	assert.Equal(t, []string{"Beef", "pasta"}, view.Recent.Tags)
}

func TestToggleThemePersists(t *testing.T) {
	kv := store.NewMemoryStore()
	h := newHarnessWithKV(t, kv, time.Hour)

	view := h.o.View()
	assert.False(t, view.Dark())
	assert.Equal(t, IconMoon, view.ThemeIcon)

	require.NoError(t, h.o.ToggleTheme())
	view = h.o.View()
	assert.Equal(t, ThemeMarkerDark, view.ThemeMarker)
	assert.Equal(t, IconSun, view.ThemeIcon)
	raw, _, _ := kv.Get(store.ThemeKey)
	assert.Equal(t, "dark", raw)

	// a new session starts dark
	h2 := newHarnessWithKV(t, kv, time.Hour)
	assert.Equal(t, model.ThemeDark, h2.o.State().Theme)

	require.NoError(t, h2.o.ToggleTheme())
	raw, _, _ = kv.Get(store.ThemeKey)
	assert.Equal(t, "light", raw)
	assert.Empty(t, h2.o.View().ThemeMarker)
}

func TestClearHistory(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("pasta", meals("Pasta Bake"))
	h.o.Search("pasta")
	h.o.Wait()
	require.Equal(t, []string{"pasta"}, h.o.View().Recent.Tags)

	require.NoError(t, h.o.ClearHistory())
	view := h.o.View()
	assert.Empty(t, view.Recent.Tags)
	assert.Equal(t, NoRecentMessage, view.Recent.EmptyMessage)
}

func TestListenersReceiveViews(t *testing.T) {
	h := newHarness(t)
	h.lookup.respond("pasta", meals("Pasta Bake"))

	var mu sync.Mutex
	var views []View
	h.o.OnChange(func(v View) {
		mu.Lock()
		defer mu.Unlock()
		views = append(views, v)
	})

	h.o.Search("pasta")
	h.o.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(views), 3)
	assert.Equal(t, ResultsLoading, views[0].Results.Status)
	last := views[len(views)-1]
	assert.Equal(t, ResultsReady, last.Results.Status)
	assert.Equal(t, []string{"pasta"}, last.Recent.Tags, "history change is published")
}

func TestCloseCancelsInFlight(t *testing.T) {
	h := newHarness(t)
	h.lookup.gate("forever")
	h.o.Search("forever")

	done := make(chan struct{})
	go func() {
		h.o.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
	assert.Equal(t, ResultsFailed, h.o.View().Results.Status)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.DebounceMs = -5
	cfg.MinSuggestLength = 0
	cfg.MaxSuggestions = 0

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, time.Duration(0), opts.DebounceDelay)
	assert.Equal(t, 3, opts.MinSuggestLength)
	assert.Equal(t, 5, opts.MaxSuggestions)

	assert.Equal(t, 300*time.Millisecond, DefaultOptions().DebounceDelay)
}
