package service

import (
	"context"
	"time"

	"agriverse/entities"
)

type AnalysisRequest struct {
	LandID              string `json:"land_id"`
	ScheduleID          string `json:"schedule_id,omitempty"`
	CurrentObservations string `json:"current_observations,omitempty"`
	PesticideUsage      string `json:"pesticide_usage,omitempty"`
	AdditionalNotes     string `json:"additional_notes,omitempty"`
}

// ActionItem priority is lower case: high, medium or low.
type ActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Icon        string `json:"icon"`
}

type FarmAnalysis struct {
	CurrentStateAnalysis string       `json:"current_state_analysis"`
	HealthScore          int          `json:"health_score"`
	HealthScoreAnalysis  string       `json:"health_score_analysis"`
	RiskAssessment       string       `json:"risk_assessment"`
	YieldEstimation      string       `json:"yield_estimation"`
	NextTasks            []string     `json:"next_tasks"`
	Recommendations      []string     `json:"recommendations"`
	ActionItems          []ActionItem `json:"action_items"`
	AnalysisTimestamp    time.Time    `json:"analysis_timestamp"`
	Source               string       `json:"source"`
}

type ChatRequest struct {
	Message string `json:"message"`
	LandID  string `json:"land_id,omitempty"`
}

type ChatReply struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

type PlantPlanRequest struct {
	LandID         string   `json:"land_id"`
	Season         string   `json:"season"`
	PreferredCrops []string `json:"preferred_crops"`
	Goals          string   `json:"goals"`
}

type AdvisorService interface {
	FarmAnalysis(ctx context.Context, farmerID string, req AnalysisRequest) (*FarmAnalysis, error)
	Chat(ctx context.Context, farmerID string, req ChatRequest) (*ChatReply, error)
	CreatePlantPlan(ctx context.Context, farmerID string, req PlantPlanRequest) (*entities.PlantPlan, error)
	ListPlantPlans(farmerID string) ([]entities.PlantPlan, error)
}
