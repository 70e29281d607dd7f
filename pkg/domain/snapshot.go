package domain

import "time"

// Snapshot is the persisted, inspectable view of a session.
// Engine references inside it are informational; they are never revived.
type Snapshot struct {
	ID        string            `json:"id"`
	Connected bool              `json:"connected"`
	App       *AppInfo          `json:"app,omitempty"`
	Documents []DocumentHandle  `json:"documents"`
	Active    string            `json:"active,omitempty"`
	Sketches  map[string]Sketch `json:"sketches,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Sealed carries the encrypted snapshot when the store seals payloads.
	Sealed string `json:"sealed,omitempty"`
}
