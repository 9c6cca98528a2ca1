package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hamidzr/recipemenu/model"
	"github.com/sirupsen/logrus"
)

const (
	// RecentSearchesKey holds a json array of terms, most recent first.
	RecentSearchesKey = "recentSearches"
	// DefaultRecentLimit is the number of terms kept when no limit is configured.
	DefaultRecentLimit = 5
)

// RecentSearches is the persisted search history.
// Invariant: at most limit entries and no two entries equal ignoring case.
type RecentSearches struct {
	kv          KV
	limit       int
	mu          sync.Mutex
	subscribers []func([]string)
}

// NewRecentSearches wraps kv. A non-positive limit uses DefaultRecentLimit.
func NewRecentSearches(kv KV, limit int) *RecentSearches {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentSearches{kv: kv, limit: limit}
}

// Subscribe registers fn to be called with the new list after every mutation.
func (r *RecentSearches) Subscribe(fn func([]string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Load returns the persisted list. Missing or malformed state yields an empty list.
func (r *RecentSearches) Load() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *RecentSearches) load() []string {
	raw, ok, err := r.kv.Get(RecentSearchesKey)
	if err != nil {
		logrus.WithError(err).Warn("failed to read recent searches")
		return []string{}
	}
	if !ok || raw == "" {
		return []string{}
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		logrus.WithError(err).Warn("ignoring malformed recent searches")
		return []string{}
	}
	// re-apply the invariant in case the stored list was edited by hand.
	cleaned := make([]string, 0, len(terms))
	for i := len(terms) - 1; i >= 0; i-- {
		if term := model.NormalizeTerm(terms[i]); term != "" {
			cleaned = prependTerm(cleaned, term, len(terms))
		}
	}
	return truncate(cleaned, r.limit)
}

// Record moves term to the front of the history, persists it and notifies
// subscribers. Blank terms are ignored.
func (r *RecentSearches) Record(term string) ([]string, error) {
	term = model.NormalizeTerm(term)
	r.mu.Lock()
	current := r.load()
	if term == "" {
		r.mu.Unlock()
		logrus.Debug("no term provided, skipping recent search update")
		return current, nil
	}
	updated := truncate(prependTerm(current, term, r.limit+1), r.limit)
	if err := r.save(updated); err != nil {
		r.mu.Unlock()
		return current, err
	}
	subscribers := append([]func([]string){}, r.subscribers...)
	r.mu.Unlock()

	logrus.WithField("terms", updated).Trace("recent searches updated")
	notify(subscribers, updated)
	return updated, nil
}

// Clear empties the history by removing its key from storage.
func (r *RecentSearches) Clear() error {
	r.mu.Lock()
	if err := r.kv.Delete(RecentSearchesKey); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to delete %s: %w", RecentSearchesKey, err)
	}
	subscribers := append([]func([]string){}, r.subscribers...)
	r.mu.Unlock()
	notify(subscribers, []string{})
	return nil
}

func (r *RecentSearches) save(terms []string) error {
	serialized, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	if err := r.kv.Set(RecentSearchesKey, string(serialized)); err != nil {
		return fmt.Errorf("failed to save recent searches: %w", err)
	}
	return nil
}

func notify(subscribers []func([]string), terms []string) {
	for _, fn := range subscribers {
		fn(append([]string(nil), terms...))
	}
}

// prependTerm drops case-insensitive duplicates of term and puts it first.
func prependTerm(terms []string, term string, capacity int) []string {
	out := make([]string, 0, capacity)
	out = append(out, term)
	for _, existing := range terms {
		if !model.SameTerm(existing, term) {
			out = append(out, existing)
		}
	}
	return out
}

func truncate(terms []string, limit int) []string {
	if len(terms) > limit {
		return terms[:limit]
	}
	return terms
}
