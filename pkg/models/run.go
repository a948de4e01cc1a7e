package models

import "time"

// RunSummary aggregates the outcome of one batch collection run.
type RunSummary struct {
	RunID     string     `json:"run_id"`
	Processed int        `json:"total_processed"`
	Succeeded int        `json:"successful_collects"`
	Failed    int        `json:"failed_collects"`
	Persisted int        `json:"saved_to_db"`
	Errors    []RunError `json:"errors,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   time.Time  `json:"ended_at"`
}

// RunError is one failed identifier in a run.
type RunError struct {
	ScientificName string    `json:"plant"`
	Err            string    `json:"error"`
	At             time.Time `json:"timestamp"`
}
