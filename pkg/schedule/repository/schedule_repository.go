package repository

import "agriverse/entities"

type ScheduleRepository interface {
	Create(s *entities.CropSchedule) error
	FindByID(id, farmerID string) (*entities.CropSchedule, error)
	// Latest returns the newest schedule for a land and crop.
	Latest(farmerID, landID, cropName string) (*entities.CropSchedule, error)
	ListByLand(farmerID, landID string) ([]entities.CropSchedule, error)
	Save(s *entities.CropSchedule) error
	// Activate deactivates every other schedule of s's land and saves s as active.
	Activate(s *entities.CropSchedule) error
}
