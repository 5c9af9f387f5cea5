package schedulesheet

import (
	"errors"
	"fmt"
)

var (
	ErrHeaderNotFound     = errors.New("no schedule class header found")
	ErrSubHeaderNotFound  = errors.New("no sub-header containing the marker token found")
	ErrMalformedSubHeader = errors.New("sub-header has fewer marker tokens than schedule classes")
)

// ParseError is the reason a single stop was left out of a document
type ParseError struct {
	Stop string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stop %q: %s", e.Stop, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
