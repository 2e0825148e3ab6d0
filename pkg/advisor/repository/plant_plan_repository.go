package repository

import "agriverse/entities"

type PlantPlanRepository interface {
	Create(p *entities.PlantPlan) error
	ListByFarmer(farmerID string) ([]entities.PlantPlan, error)
}
