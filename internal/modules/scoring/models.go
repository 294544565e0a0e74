// Package scoring stores the scoring configuration: points per unit for each
// metric and per-owner overrides of the weekly minimums.
package scoring

import (
	"errors"
)

var (
	// ErrInvalidMetric is returned for metric keys outside the vocabulary.
	ErrInvalidMetric = errors.New("invalid metric key")
	// ErrInvalidValue is returned for negative points or minimums.
	ErrInvalidValue = errors.New("invalid scoring value")
)

// MinimumOverride is one stored per-owner minimum.
type MinimumOverride struct {
	OwnerID   string `json:"owner_id"`
	MetricKey string `json:"metric_key"`
	Minimum   int    `json:"minimum"`
}

// ResolvedMinimum is a minimum after the override-over-default lookup.
type ResolvedMinimum struct {
	MetricKey  string `json:"metric_key"`
	Minimum    int    `json:"minimum"`
	Default    int    `json:"default"`
	Overridden bool   `json:"overridden"`
}
