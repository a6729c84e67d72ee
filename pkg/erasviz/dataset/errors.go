package dataset

import (
	"errors"
	"fmt"
)

// ErrLoadFailure is wrapped by every error Load returns.
var ErrLoadFailure = errors.New("dataset load failed")

// LoadError carries the source that failed and the original cause.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailure, e.Err}
}

func loadErr(source string, format string, args ...any) error {
	return &LoadError{Source: source, Err: fmt.Errorf(format, args...)}
}

// MalformedRecord describes a row that was dropped during coercion. These
// are never returned as errors; they are counted on the Dataset.
type MalformedRecord struct {
	// Row is the 1-based data row in the source (the header is row 0).
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (m MalformedRecord) String() string {
	return fmt.Sprintf("row %d: %s=%q %s", m.Row, m.Field, m.Value, m.Reason)
}
