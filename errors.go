package knnlab

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStrategy is returned when a run names a strategy that is not registered.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrNoData is returned when the training or testing set is empty.
	ErrNoData = errors.New("no data")
)

// StrategyError records the strategy that failed.
//
// The underlying error can be accessed via errors.Unwrap.
type StrategyError struct {
	Strategy string
	Permuted bool
	cause    error
}

func (e *StrategyError) Error() string {
	if e.Permuted {
		return fmt.Sprintf("strategy %s (permuted): %v", e.Strategy, e.cause)
	}
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.cause)
}

func (e *StrategyError) Unwrap() error { return e.cause }
