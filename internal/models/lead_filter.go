package models

import "time"

// LeadFilter holds the optional list predicates. A zero value, empty string or
// nil pointer means the predicate is absent. All present predicates are ANDed
// with the owner scope.
type LeadFilter struct {
	// Case-insensitive substring matches.
	Email   string
	Company string
	City    string

	// Exact matches. Values outside the enumerations simply match nothing.
	Status string
	Source string

	IsQualified *bool

	// Inclusive bounds.
	ScoreMin      *int
	ScoreMax      *int
	LeadValueMin  *float64
	LeadValueMax  *float64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
