package top_traders

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound - a structural element the scrape depends on is missing.
	ErrElementNotFound = errors.New("element not found")
	// ErrSelectionTimeout - the time-period control never reported active.
	ErrSelectionTimeout = errors.New("time period selection timed out")
)

// RowError is a failure isolated to one wallet container.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("wallet container %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
