package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout means a fetch exceeded its deadline.
	ErrTimeout = errors.New("upstream request timed out")

	// ErrUpstreamUnavailable means a mandatory upstream source failed.
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")

	// ErrUnknownSeason means the season id is not a valid season.
	ErrUnknownSeason = errors.New("unknown season")

	// ErrNotFound means a requested game or player does not exist upstream.
	ErrNotFound = errors.New("not found")
)

// Mandatory sources named by AggregationError.
const (
	SourceSchedule = "schedule"
	SourceStats    = "stats"
)

// AggregationError reports which mandatory source failed an aggregation. It
// wraps ErrTimeout or ErrUpstreamUnavailable and the underlying cause.
type AggregationError struct {
	Source string
	Kind   error
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *AggregationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// newAggregationError classifies err as a timeout or an upstream failure.
func newAggregationError(source string, err error) *AggregationError {
	kind := ErrUpstreamUnavailable
	if IsTimeout(err) {
		kind = ErrTimeout
	}
	return &AggregationError{Source: source, Kind: kind, Err: err}
}

// IsTimeout reports whether err stems from an exceeded deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
