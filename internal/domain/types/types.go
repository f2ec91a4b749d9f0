// Package types contains common types used across the application
package types

import "github.com/okian/ratingscope/internal/domain/model"

// PlayerRecord is the externally visible rating profile.
type PlayerRecord struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CurrentRating int          `json:"currentRating"`
	PeakRating    int          `json:"peakRating"`
	PeakDate      string       `json:"peakDate"`
	RatingHistory model.Series `json:"ratingHistory"`
	Trend         model.Trend  `json:"trend"`
}

// Debug carries extraction diagnostics for a single lookup.
type Debug struct {
	// Snippet is a bounded prefix of the raw document.
	Snippet string `json:"snippet"`
	// Stages names the cascade stage that produced each extracted field.
	Stages map[string]string `json:"stages,omitempty"`
	// FetchError is set when the document could not be retrieved.
	FetchError string `json:"fetchError,omitempty"`
}

// Assembly is the memoized outcome of one pipeline run.
type Assembly struct {
	Record    PlayerRecord
	Synthetic bool
	Debug     Debug
}

// LookupResult is returned to callers of a profile lookup.
type LookupResult struct {
	Record PlayerRecord
	// Debug is nil unless the caller asked for it.
	Debug *Debug
	// Cached reports whether the record was served from the cache.
	Cached bool
}
