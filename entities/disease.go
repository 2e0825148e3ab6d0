package entities

import (
	"time"

	"gorm.io/gorm"
)

type DiseaseReport struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	FarmerID        string    `gorm:"index;size:36" json:"farmer_id"`
	LandID          string    `gorm:"size:36" json:"land_id,omitempty"`
	CropName        string    `json:"crop_name"`
	ImageRef        string    `json:"image_ref,omitempty"`
	AIDiagnosis     string    `json:"ai_diagnosis"`
	DiseaseName     string    `json:"disease_name"`
	Confidence      float64   `json:"confidence"`
	Recommendations []string  `gorm:"serializer:json" json:"recommendations"`
	Source          string    `gorm:"size:16" json:"source"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r *DiseaseReport) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

type PlantPlan struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	FarmerID          string    `gorm:"index;size:36" json:"farmer_id"`
	LandID            string    `gorm:"size:36" json:"land_id"`
	Season            string    `json:"season"`
	Crops             []string  `gorm:"serializer:json" json:"crops"`
	PlanDetails       string    `json:"plan_details"`
	AIRecommendations string    `json:"ai_recommendations"`
	Source            string    `gorm:"size:16" json:"source"`
	CreatedAt         time.Time `json:"created_at"`
}

func (p *PlantPlan) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
