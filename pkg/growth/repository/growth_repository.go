package repository

import "agriverse/entities"

type GrowthRepository interface {
	FindBySchedule(scheduleID, farmerID string) (*entities.GrowthData, error)
	// Save inserts g when it has no id yet, otherwise replaces it.
	Save(g *entities.GrowthData) error
}
