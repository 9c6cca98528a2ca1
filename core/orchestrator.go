package core

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/store"
	"github.com/sirupsen/logrus"
)

// RecipeLookup finds recipes by name.
type RecipeLookup interface {
	LookupByName(ctx context.Context, term string) ([]model.Recipe, error)
}

// Options tune the search pipeline.
type Options struct {
	DebounceDelay    time.Duration
	MinSuggestLength int
	MaxSuggestions   int
}

// DefaultOptions mirrors model.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(model.DefaultConfig())
}

// OptionsFromConfig extracts pipeline options, filling in defaults for unset values.
func OptionsFromConfig(cfg *model.Config) Options {
	opts := Options{
		DebounceDelay:    cfg.DebounceDelay(),
		MinSuggestLength: cfg.MinSuggestLength,
		MaxSuggestions:   cfg.MaxSuggestions,
	}
	if opts.DebounceDelay < 0 {
		opts.DebounceDelay = 0
	}
	if opts.MinSuggestLength <= 0 {
		opts.MinSuggestLength = 3
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 5
	}
	return opts
}

type keyEvent struct {
	input string
	key   Key
}

// Orchestrator is the composition root of the search widget. It turns
// intents (keystrokes, selections, theme toggles) into state changes and
// publishes a fresh View after every change.
//
// Every lookup carries a sequence token. A response is applied only when its
// token is still the latest of its kind, so a slow stale response can never
// overwrite newer content.
type Orchestrator struct {
	lookup  RecipeLookup
	history *store.RecentSearches
	themes  *store.ThemeStore
	opts    Options
	log     *logrus.Entry

	debouncer *Debouncer[keyEvent]
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup

	mu              sync.Mutex
	state           State
	suggestSeq      uint64
	searchSeq       uint64
	suggestInFlight bool
	searchInFlight  bool
	listeners       []func(View)

	// notifyMu keeps views reaching listeners in order.
	notifyMu sync.Mutex
}

// NewOrchestrator loads the persisted history and theme and wires the pipeline.
func NewOrchestrator(lookup RecipeLookup, history *store.RecentSearches, themes *store.ThemeStore, opts Options) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		lookup:  lookup,
		history: history,
		themes:  themes,
		opts:    opts,
		log:     logrus.WithField("session", uuid.NewString()),
		ctx:     ctx,
		cancel:  cancel,
	}
	o.debouncer = NewDebouncer(opts.DebounceDelay, o.handleKeyEvent)
	o.state = State{
		Recent: history.Load(),
		Theme:  themes.Load(),
	}
	history.Subscribe(o.onRecentChanged)
	return o
}

// OnChange registers fn to receive every new view. Listeners run outside the
// state lock but must not dispatch intents synchronously.
func (o *Orchestrator) OnChange(fn func(View)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// View renders the current state.
func (o *Orchestrator) View() View {
	return Render(o.State())
}

// Keystroke records the raw input and schedules the debounced handler.
func (o *Orchestrator) Keystroke(input string, key Key) {
	o.mu.Lock()
	o.state.Input = input
	o.mu.Unlock()
	o.emit()
	o.debouncer.Call(keyEvent{input: input, key: key})
}

// FlushInput runs a pending debounced keystroke right away.
func (o *Orchestrator) FlushInput() bool {
	return o.debouncer.Flush()
}

func (o *Orchestrator) handleKeyEvent(ev keyEvent) {
	q := model.NormalizeTerm(ev.input)
	o.log.WithField("query", q).Trace("handling keystroke")

	if q == "" {
		o.mu.Lock()
		o.clearSuggestionsLocked()
		o.mu.Unlock()
		o.emit()
		return
	}
	if utf8.RuneCountInString(q) >= o.opts.MinSuggestLength {
		o.requestSuggestions(q)
	}
	if ev.key == KeyEnter {
		o.Search(q)
	}
}

// clearSuggestionsLocked empties the list and invalidates in-flight suggestion lookups.
func (o *Orchestrator) clearSuggestionsLocked() {
	o.suggestSeq++
	o.suggestInFlight = false
	o.state.Suggestions = nil
	o.state.SuggestError = ""
	o.updatePhaseLocked()
}

func (o *Orchestrator) requestSuggestions(q string) {
	o.mu.Lock()
	o.suggestSeq++
	seq := o.suggestSeq
	o.suggestInFlight = true
	o.updatePhaseLocked()
	o.mu.Unlock()
	o.emit()

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		recipes, err := o.lookup.LookupByName(o.ctx, q)
		o.completeSuggestions(seq, q, recipes, err)
	}()
}

func (o *Orchestrator) completeSuggestions(seq uint64, q string, recipes []model.Recipe, err error) {
	log := o.log.WithFields(logrus.Fields{"query": q, "seq": seq})
	o.mu.Lock()
	if seq != o.suggestSeq {
		o.mu.Unlock()
		log.Debug("discarding stale suggestions")
		return
	}
	o.suggestInFlight = false
	if err != nil {
		log.WithError(err).Warn("suggestion lookup failed")
		o.state.Suggestions = nil
		o.state.SuggestError = FailureMessage(err)
	} else {
		limit := min(o.opts.MaxSuggestions, len(recipes))
		o.state.Suggestions = append([]model.Recipe(nil), recipes[:limit]...)
		o.state.SuggestError = ""
	}
	o.updatePhaseLocked()
	o.mu.Unlock()
	o.emit()
}

// Search runs a full search for term, bypassing the debouncer.
// Blank terms are ignored.
func (o *Orchestrator) Search(term string) {
	term = model.NormalizeTerm(term)
	if term == "" {
		return
	}
	o.mu.Lock()
	o.searchSeq++
	seq := o.searchSeq
	o.searchInFlight = true
	o.state.Results = nil
	o.state.ResultsStatus = ResultsLoading
	o.state.ResultsError = ""
	o.state.LastSearch = term
	o.updatePhaseLocked()
	o.mu.Unlock()
	o.emit()

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		recipes, err := o.lookup.LookupByName(o.ctx, term)
		o.completeSearch(seq, term, recipes, err)
	}()
}

func (o *Orchestrator) completeSearch(seq uint64, term string, recipes []model.Recipe, err error) {
	log := o.log.WithFields(logrus.Fields{"term": term, "seq": seq})
	o.mu.Lock()
	if seq != o.searchSeq {
		o.mu.Unlock()
		log.Debug("discarding stale search results")
		return
	}
	o.searchInFlight = false
	record := false
	switch {
	case err != nil:
		log.WithError(err).Warn("recipe search failed")
		o.state.ResultsStatus = ResultsFailed
		o.state.ResultsError = FailureMessage(err)
	case len(recipes) == 0:
		log.Info("no recipes found")
		o.state.ResultsStatus = ResultsNoMatch
	default:
		log.WithField("count", len(recipes)).Info("recipes found")
		o.state.Results = append([]model.Recipe(nil), recipes...)
		o.state.ResultsStatus = ResultsReady
		record = true
	}
	o.updatePhaseLocked()
	o.mu.Unlock()
	o.emit()

	if record {
		// the history subscription publishes the new tags.
		if _, err := o.history.Record(term); err != nil {
			log.WithError(err).Warn("failed to record recent search")
		}
	}
}

// SelectSuggestion searches for the i-th suggestion.
func (o *Orchestrator) SelectSuggestion(i int) error {
	o.mu.Lock()
	if i < 0 || i >= len(o.state.Suggestions) {
		count := len(o.state.Suggestions)
		o.mu.Unlock()
		return fmt.Errorf("suggestion %d out of range (have %d)", i, count)
	}
	name := o.state.Suggestions[i].Name
	o.mu.Unlock()
	o.selectTerm(name)
	return nil
}

// SelectRecent re-runs a recent search.
func (o *Orchestrator) SelectRecent(term string) {
	o.selectTerm(term)
}

func (o *Orchestrator) selectTerm(term string) {
	o.debouncer.Stop()
	o.mu.Lock()
	o.state.Input = term
	o.clearSuggestionsLocked()
	o.mu.Unlock()
	o.Search(term)
}

// ToggleTheme flips and persists the theme.
func (o *Orchestrator) ToggleTheme() error {
	theme, err := o.themes.Toggle()
	o.mu.Lock()
	o.state.Theme = theme
	o.mu.Unlock()
	o.emit()
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// ClearHistory forgets every recent search.
func (o *Orchestrator) ClearHistory() error {
	return o.history.Clear()
}

func (o *Orchestrator) onRecentChanged(terms []string) {
	o.mu.Lock()
	o.state.Recent = terms
	o.mu.Unlock()
	o.emit()
}

func (o *Orchestrator) updatePhaseLocked() {
	switch {
	case o.searchInFlight:
		o.state.Phase = PhaseSearchPending
	case o.suggestInFlight:
		o.state.Phase = PhaseSuggestPending
	default:
		o.state.Phase = PhaseIdle
	}
}

func (o *Orchestrator) emit() {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.mu.Lock()
	view := Render(o.state)
	listeners := append([]func(View){}, o.listeners...)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(view)
	}
}

// Wait blocks until every in-flight lookup has been applied or discarded.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Close drops pending input, cancels in-flight lookups and waits for them.
func (o *Orchestrator) Close() {
	o.debouncer.Stop()
	o.cancel()
	o.inflight.Wait()
}
