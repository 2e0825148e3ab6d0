package repository

import "agriverse/entities"

type LandRepository interface {
	Create(l *entities.Land) error
	FindByID(id, farmerID string) (*entities.Land, error)
	ListByFarmer(farmerID string) ([]entities.Land, error)
	Replace(l *entities.Land) error
	// Delete removes the land with its schedules and growth data.
	Delete(id, farmerID string) error
}
