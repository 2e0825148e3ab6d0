package repository

import "agriverse/entities"

type CycleRepository interface {
	// CreateVersioned stores c as the next version of its (farmer, land, crop) lineage
	// together with tasks, and points the land's schedule for the crop at it. When the
	// land has no schedule for the crop, seed is created. The returned schedule is the
	// one now active.
	CreateVersioned(c *entities.CultivationCycle, tasks []entities.CycleTask, seed *entities.CropSchedule) (*entities.CropSchedule, error)
	// FindByID loads a cycle with its tasks ordered by day.
	FindByID(id, farmerID string) (*entities.CultivationCycle, error)
	History(farmerID, landID string) ([]entities.CultivationCycle, error)
	UpdateStatus(c *entities.CultivationCycle) error
	FindTask(cycleID, taskID string) (*entities.CycleTask, error)
	SaveTask(t *entities.CycleTask) error
}
