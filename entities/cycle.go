package entities

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CycleActive    = "active"
	CycleCompleted = "completed"
	CycleCancelled = "cancelled"
)

type CultivationCycle struct {
	ID              string                              `gorm:"primaryKey;size:36" json:"id"`
	FarmerID        string                              `gorm:"size:36;uniqueIndex:idx_cycle_lineage,priority:1" json:"farmer_id"`
	LandID          string                              `gorm:"size:36;uniqueIndex:idx_cycle_lineage,priority:2" json:"land_id"`
	CropName        string                              `gorm:"size:128;uniqueIndex:idx_cycle_lineage,priority:3" json:"crop_name"`
	CycleVersion    int                                 `gorm:"uniqueIndex:idx_cycle_lineage,priority:4" json:"cycle_version"`
	StartDate       string                              `gorm:"size:10" json:"start_date"`
	EndDate         *time.Time                          `json:"end_date,omitempty"`
	Status          string                              `gorm:"size:16;index" json:"status"`
	ParentCycleID   *string                             `gorm:"size:36" json:"parent_cycle_id,omitempty"`
	SoilType        string                              `json:"soil_type"`
	Season          string                              `json:"season"`
	WeatherSnapshot datatypes.JSONType[WeatherReading] `json:"weather_snapshot"`
	Notes           string                              `json:"notes"`
	CreatedAt       time.Time                           `json:"created_at"`
	UpdatedAt       time.Time                           `json:"updated_at"`

	Tasks []CycleTask `gorm:"foreignKey:CycleID" json:"tasks,omitempty"`
}

func (c *CultivationCycle) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

// Terminal reports whether the cycle may no longer change status.
func (c *CultivationCycle) Terminal() bool {
	return c.Status == CycleCompleted || c.Status == CycleCancelled
}

type CycleTask struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	CycleID     string     `gorm:"index;size:36" json:"cycle_id"`
	Day         int        `json:"day"`
	Phase       string     `json:"phase"`
	Task        string     `json:"task"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	Skipped     bool       `json:"skipped"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *CycleTask) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
