package core

import "github.com/hamidzr/recipemenu/model"

// Phase is where the search pipeline currently is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSuggestPending
	PhaseSearchPending
)

func (p Phase) String() string {
	switch p {
	case PhaseSuggestPending:
		return "suggest-pending"
	case PhaseSearchPending:
		return "search-pending"
	default:
		return "idle"
	}
}

// ResultsStatus is what the results area is showing.
type ResultsStatus int

const (
	ResultsEmpty ResultsStatus = iota
	ResultsLoading
	ResultsReady
	ResultsNoMatch
	ResultsFailed
)

// Key is the key that produced a keystroke event. Only Enter matters.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
)

// State is everything a renderer needs. It is owned by the Orchestrator and
// handed out as a copy.
type State struct {
	Input         string
	Phase         Phase
	Suggestions   []model.Recipe
	SuggestError  string
	Results       []model.Recipe
	ResultsStatus ResultsStatus
	ResultsError  string
	// LastSearch is the term of the latest full search.
	LastSearch string
	Recent     []string
	Theme      model.Theme
}

func (s State) clone() State {
	s.Suggestions = append([]model.Recipe(nil), s.Suggestions...)
	s.Results = append([]model.Recipe(nil), s.Results...)
	s.Recent = append([]string(nil), s.Recent...)
	return s
}
