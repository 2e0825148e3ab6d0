package entities

import (
	"time"

	"gorm.io/gorm"
)

const (
	PhaseDiseaseManagement = "Disease Management"
	PriorityHigh           = "High"
	PriorityMedium         = "Medium"
	PriorityLow            = "Low"
)

// ScheduleTask is embedded in CropSchedule.Schedule; it has no table of its own.
type ScheduleTask struct {
	ID             string     `json:"id"`
	Day            int        `json:"day"`
	Phase          string     `json:"phase"`
	Task           string     `json:"task"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Completed      bool       `json:"completed"`
	Skipped        bool       `json:"skipped"`
	CompletedAt    *time.Time `json:"completed_at"`
	DiseaseRelated bool       `json:"disease_related,omitempty"`
	Temporary      bool       `json:"temporary,omitempty"`
	Diagnosis      string     `json:"diagnosis,omitempty"`
	Confidence     float64    `json:"confidence,omitempty"`
	InjectedAt     *time.Time `json:"injected_at,omitempty"`
}

// Transient reports whether the task disappears once actioned.
func (t ScheduleTask) Transient() bool { return t.Temporary && t.DiseaseRelated }

type DiseaseAlert struct {
	Diagnosis  string    `json:"diagnosis"`
	Confidence float64   `json:"confidence"`
	TasksAdded int       `json:"tasks_added"`
	Timestamp  time.Time `json:"timestamp"`
}

type CropSchedule struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	FarmerID       string         `gorm:"index;size:36" json:"farmer_id"`
	LandID         string         `gorm:"index;size:36" json:"land_id"`
	CropName       string         `gorm:"size:128" json:"crop_name"`
	CurrentCycleID *string        `gorm:"size:36" json:"current_cycle_id,omitempty"`
	Schedule       []ScheduleTask `gorm:"serializer:json" json:"schedule"`
	StartDate      string         `gorm:"size:10" json:"start_date"`
	SoilType       string         `json:"soil_type"`
	Season         string         `json:"season"`
	Source         string         `gorm:"size:16" json:"source"`
	CurrentStage   string         `json:"current_stage"`
	DaysElapsed    int            `json:"days_elapsed"`
	DiseaseAlerts  []DiseaseAlert `gorm:"serializer:json" json:"disease_alerts"`
	NextAction     string         `json:"next_action,omitempty"`
	HealthScore    *int           `json:"health_score,omitempty"`
	Active         bool           `gorm:"index" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (s *CropSchedule) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

// Counts returns completed, skipped and total task counts.
func (s *CropSchedule) Counts() (completed, skipped, total int) {
	for _, t := range s.Schedule {
		if t.Completed {
			completed++
		}
		if t.Skipped {
			skipped++
		}
	}
	return completed, skipped, len(s.Schedule)
}
