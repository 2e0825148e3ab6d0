package service

import (
	"context"

	"agriverse/entities"
)

// Use-again options. Any option other than fresh copies the parent's tasks;
// continue also carries their completion state.
const (
	UseFresh    = "fresh"
	UseContinue = "continue"
	UseReuse    = "reuse"

	ActionDone = "done"
	ActionSkip = "skip"
)

type CreateRequest struct {
	LandID         string `json:"land_id"`
	CropName       string `json:"crop_name"`
	StartDate      string `json:"start_date"`
	SoilType       string `json:"soil_type,omitempty"`
	Season         string `json:"season,omitempty"`
	ParentCycleID  string `json:"parent_cycle_id,omitempty"`
	UseAgainOption string `json:"use_again_option,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type CloneRequest struct {
	StartDate      string `json:"start_date"`
	UseAgainOption string `json:"use_again_option"`
}

type CreateResult struct {
	CycleID    string `json:"cycle_id"`
	Version    int    `json:"cycle_version"`
	TaskCount  int    `json:"task_count"`
	ScheduleID string `json:"schedule_id"`
	Source     string `json:"source"`
}

// HistoryEntry is a cycle without its task list, summarised.
type HistoryEntry struct {
	entities.CultivationCycle
	TaskCount      int     `json:"task_count"`
	CompletedTasks int     `json:"completed_tasks"`
	SkippedTasks   int     `json:"skipped_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type CycleService interface {
	Create(ctx context.Context, farmerID string, req CreateRequest) (*CreateResult, error)
	// Clone starts a new cycle from an existing one on the same land and crop.
	Clone(ctx context.Context, farmerID, cycleID string, req CloneRequest) (*CreateResult, error)
	SetStatus(farmerID, cycleID, status string) (*entities.CultivationCycle, error)
	UpdateTask(farmerID, cycleID, taskID, action string) (*entities.CycleTask, error)
	Get(farmerID, cycleID string) (*entities.CultivationCycle, error)
	History(farmerID, landID string) ([]HistoryEntry, error)
}
