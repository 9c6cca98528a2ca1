package core

import (
	"errors"

	"github.com/hamidzr/recipemenu/mealdb"
	"github.com/hamidzr/recipemenu/model"
)

// Messages shown in place of content.
const (
	LoadingMessage   = "Loading recipes..."
	NoResultsMessage = "No recipes found. Try another ingredient!"
	NoRecentMessage  = "No recent searches yet."
	UnknownCategory  = "Unknown Category"

	networkFailureMessage = "Could not reach the recipe service. Check your connection and try again."
	parseFailureMessage   = "The recipe service sent an unexpected response. Try again later."
	genericFailureMessage = "Something went wrong while loading recipes."
)

// ThemeMarkerDark is set on the view root in dark mode; light mode has no marker.
const ThemeMarkerDark = "dark"

// Icons for the theme toggle: the icon offers the other theme.
const (
	IconSun  = "sun"
	IconMoon = "moon"
)

// View is a render-ready description of the whole widget.
type View struct {
	Input       string
	Phase       Phase
	ThemeMarker string
	ThemeIcon   string
	// Suggestions are the names offered under the search box.
	Suggestions      []string
	SuggestionNotice string
	Results          ResultsView
	Recent           RecentView
}

// ResultsView is the results area. Message is set for every status but Ready.
type ResultsView struct {
	Status  ResultsStatus
	Message string
	Cards   []Card
}

// Card is one rendered recipe.
type Card struct {
	ID       string
	Title    string
	Category string
	Link     string
	ImageURL string
}

// RecentView is the recent-search tag row.
type RecentView struct {
	Tags         []string
	EmptyMessage string
}

// Dark reports whether the view is in dark mode.
func (v View) Dark() bool {
	return v.ThemeMarker == ThemeMarkerDark
}

// Render maps state to a view. It has no side effects.
func Render(s State) View {
	v := View{
		Input:            s.Input,
		Phase:            s.Phase,
		ThemeIcon:        IconMoon,
		SuggestionNotice: s.SuggestError,
		Suggestions:      make([]string, 0, len(s.Suggestions)),
	}
	if s.Theme.IsDark() {
		v.ThemeMarker = ThemeMarkerDark
		v.ThemeIcon = IconSun
	}
	for _, recipe := range s.Suggestions {
		v.Suggestions = append(v.Suggestions, recipe.Name)
	}

	v.Results = ResultsView{Status: s.ResultsStatus}
	switch s.ResultsStatus {
	case ResultsLoading:
		v.Results.Message = LoadingMessage
	case ResultsNoMatch:
		v.Results.Message = NoResultsMessage
	case ResultsFailed:
		v.Results.Message = s.ResultsError
	case ResultsReady:
		v.Results.Cards = make([]Card, 0, len(s.Results))
		for _, recipe := range s.Results {
			v.Results.Cards = append(v.Results.Cards, RenderCard(recipe))
		}
	}

	v.Recent = RecentView{Tags: append([]string{}, s.Recent...)}
	if len(s.Recent) == 0 {
		v.Recent.EmptyMessage = NoRecentMessage
	}
	return v
}

// RenderCard builds the card for a single recipe.
func RenderCard(recipe model.Recipe) Card {
	category := recipe.Category
	if category == "" {
		category = UnknownCategory
	}
	return Card{
		ID:       recipe.ID,
		Title:    recipe.Name,
		Category: category,
		Link:     recipe.Link(),
		ImageURL: recipe.Thumbnail,
	}
}

// FailureMessage turns a lookup error into text for the user.
func FailureMessage(err error) string {
	var netErr *mealdb.NetworkError
	var parseErr *mealdb.ParseError
	switch {
	case errors.As(err, &netErr):
		return networkFailureMessage
	case errors.As(err, &parseErr):
		return parseFailureMessage
	default:
		return genericFailureMessage
	}
}
