package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrNotHTML is returned when the response is not a text document.
	ErrNotHTML = errors.New("scraper: response is not an HTML document")

	// ErrNotNumeric is returned when a wage cell cannot be parsed.
	ErrNotNumeric = errors.New("scraper: value is not numeric")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scraper: GET %s returned %s", e.URL, e.Status)
}

// ConversionError reports the cell that failed numeric conversion.
type ConversionError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("scraper: row %d: cannot convert %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
