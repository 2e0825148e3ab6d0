package entities

// Measurement is a manual field observation recorded against a schedule's growth view.
type Measurement struct {
	Date        string   `json:"date"`
	Height      *float64 `json:"height,omitempty"` // cm
	LeafCount   *int     `json:"leaf_count,omitempty"`
	HealthScore *int     `json:"health_score,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
