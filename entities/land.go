package entities

import (
	"time"

	"gorm.io/gorm"
)

type Land struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	FarmerID      string    `gorm:"index;size:36" json:"farmer_id"`
	Name          string    `json:"name"`
	Size          float64   `json:"size"` // acres
	Location      GeoPoint  `gorm:"serializer:json" json:"location"`
	SoilType      string    `json:"soil_type"`
	Crops         []string  `gorm:"serializer:json" json:"crops"`
	IntendedCrops []string  `gorm:"serializer:json" json:"intended_crops"`
	Description   string    `json:"description"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`
}

func (l *Land) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
