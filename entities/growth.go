package entities

import (
	"time"

	"gorm.io/gorm"
)

type PhotoAnalysis struct {
	HealthScore     int      `json:"health_score"`
	GrowthStage     string   `json:"growth_stage"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source"`
}

type GrowthPhoto struct {
	ID        string        `json:"id"`
	ObjectKey string        `json:"object_key,omitempty"`
	TakenAt   time.Time     `json:"taken_at"`
	Analysis  PhotoAnalysis `json:"analysis"`
}

// WeatherImpact buckets current conditions into favorable|moderate|unfavorable.
type WeatherImpact struct {
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Overall     string `json:"overall"`
}

type GrowthData struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	FarmerID        string            `gorm:"index;size:36" json:"farmer_id"`
	ScheduleID      string            `gorm:"uniqueIndex;size:36" json:"schedule_id"`
	LandID          string            `gorm:"index;size:36" json:"land_id"`
	CropName        string            `json:"crop_name"`
	CurrentStage    string            `json:"current_stage"`
	DaysElapsed     int               `json:"days_elapsed"`
	TotalDays       int               `json:"total_days"`
	Progress        float64           `json:"progress"`
	HealthScore     int               `json:"health_score"`
	GrowthRate      float64           `json:"growth_rate"`
	YieldPrediction int               `json:"yield_prediction"`
	WeatherImpact   WeatherImpact     `gorm:"serializer:json" json:"weather_impact"`
	Recommendations []string          `gorm:"serializer:json" json:"recommendations"`
	Photos          []GrowthPhoto     `gorm:"serializer:json" json:"photos"`
	Measurements    []Measurement     `gorm:"serializer:json" json:"measurements"`
	Alerts          []string          `gorm:"serializer:json" json:"alerts"`
	Trends          map[string]string `gorm:"serializer:json" json:"trends"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (g *GrowthData) BeforeCreate(*gorm.DB) error { ensureID(&g.ID); return nil }
