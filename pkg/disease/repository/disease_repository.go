package repository

import "agriverse/entities"

type DiseaseRepository interface {
	Create(r *entities.DiseaseReport) error
	ListByFarmer(farmerID string) ([]entities.DiseaseReport, error)
}
