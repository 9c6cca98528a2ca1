package mealdb

import "fmt"

// NetworkError reports a failed exchange with the recipe service: transport,
// DNS, timeout or a non-success status.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("recipe service returned HTTP %d for %s", e.Status, e.URL)
	}
	return fmt.Sprintf("recipe service unreachable (%s): %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not the expected json document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
