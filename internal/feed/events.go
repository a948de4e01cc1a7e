package feed

import "time"

// CollectEvent is broadcast once per identifier during a collection run.
type CollectEvent struct {
	Type           string    `json:"type"` // "plant.saved" or "plant.failed"
	RunID          string    `json:"run_id"`
	ScientificName string    `json:"scientific_name"`
	Error          string    `json:"error,omitempty"`
	At             time.Time `json:"at"`
}

const (
	EventPlantSaved  = "plant.saved"
	EventPlantFailed = "plant.failed"
)
