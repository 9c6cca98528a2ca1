package model

import "strings"

// Recipe is a single meal as returned by the recipe service.
// Optional fields are empty strings when the service leaves them out.
type Recipe struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
	Category  string `json:"strCategory"`
	Area      string `json:"strArea"`
	Tags      string `json:"strTags"`
	Source    string `json:"strSource"`
	Youtube   string `json:"strYoutube"`
}

// Link returns the external page for the recipe, preferring the source over the video.
func (r Recipe) Link() string {
	if r.Source != "" {
		return r.Source
	}
	return r.Youtube
}

// NormalizeTerm trims a user entered search term.
// An empty result means the term should be ignored.
func NormalizeTerm(term string) string {
	return strings.TrimSpace(term)
}

// SameTerm reports whether two search terms are equal ignoring case.
func SameTerm(a, b string) bool {
	return strings.EqualFold(a, b)
}
