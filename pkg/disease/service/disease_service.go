package service

import (
	"context"

	"agriverse/entities"
)

type DetectRequest struct {
	ImageBase64 string `json:"image_base64"`
	CropName    string `json:"crop_name"`
	LandID      string `json:"land_id,omitempty"`
}

type PlanRequest struct {
	Diagnosis  string  `json:"diagnosis"`
	CropName   string  `json:"crop_name"`
	Confidence float64 `json:"confidence"`
}

// PlanTask can be posted as-is in disease_tasks of a schedule injection.
type PlanTask struct {
	Task        string `json:"task"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type Plan struct {
	Diagnosis string     `json:"diagnosis"`
	Tasks     []PlanTask `json:"disease_tasks"`
	Source    string     `json:"source"`
}

type DiseaseService interface {
	Detect(ctx context.Context, farmerID string, req DetectRequest) (*entities.DiseaseReport, error)
	Reports(farmerID string) ([]entities.DiseaseReport, error)
	ManagementPlan(ctx context.Context, req PlanRequest) (*Plan, error)
}
