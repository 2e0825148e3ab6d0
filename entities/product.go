package entities

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FarmerID    string    `gorm:"index;size:36" json:"farmer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category"`
	ImageBase64 string    `json:"image_base64,omitempty"`
	Location    GeoPoint  `gorm:"serializer:json" json:"location"`
	Available   bool      `gorm:"index" json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
