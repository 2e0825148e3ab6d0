package service

import (
	"context"

	"agriverse/entities"
)

const (
	ActivateFresh    = "fresh"
	ActivateContinue = "continue"

	ActionDone = "done"
	ActionSkip = "skip"
)

type GenerateRequest struct {
	LandID    string `json:"land_id"`
	CropName  string `json:"crop_name"`
	StartDate string `json:"start_date"`
	SoilType  string `json:"soil_type,omitempty"`
	Season    string `json:"season,omitempty"`
}

type ActivateRequest struct {
	LandID           string `json:"land_id"`
	CropName         string `json:"crop_name"`
	ActivationOption string `json:"activation_option"`
}

// DiseaseTask is what a management plan or the client sends for injection.
type DiseaseTask struct {
	Task        string `json:"task"`
	Description string `json:"description"`
}

type InjectRequest struct {
	ScheduleID string        `json:"schedule_id"`
	Tasks      []DiseaseTask `json:"disease_tasks"`
	Diagnosis  string        `json:"diagnosis"`
	Confidence float64       `json:"confidence"`
}

// TaskActionRequest targets one task by position. TaskIndex is required.
type TaskActionRequest struct {
	TaskIndex *int   `json:"task_index"`
	Action    string `json:"action"`
}

type TaskActionResult struct {
	Schedule *entities.CropSchedule `json:"schedule"`
	Removed  bool                   `json:"removed"`
}

type ScheduleService interface {
	Generate(ctx context.Context, farmerID string, req GenerateRequest) (*entities.CropSchedule, error)
	// CheckExisting returns nil when the land has no schedule for the crop.
	CheckExisting(farmerID, landID, cropName string) (*entities.CropSchedule, error)
	Activate(farmerID string, req ActivateRequest) (*entities.CropSchedule, error)
	ListByLand(farmerID, landID string) ([]entities.CropSchedule, error)
	Get(farmerID, id string) (*entities.CropSchedule, error)
	InjectDiseaseTasks(farmerID string, req InjectRequest) (*entities.CropSchedule, error)
	TaskAction(farmerID, scheduleID string, req TaskActionRequest) (*TaskActionResult, error)
	// Export renders the schedule as an xlsx workbook and returns it with a file name.
	Export(farmerID, id string) ([]byte, string, error)
}
