package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/advisor/repository"
	"agriverse/pkg/apperr"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlantPlanRepository { return &planRepo{db} }

func (r *planRepo) Create(p *entities.PlantPlan) error {
	return apperr.FromDB(r.db.Create(p).Error, "create plant plan")
}

func (r *planRepo) ListByFarmer(farmerID string) ([]entities.PlantPlan, error) {
	var out []entities.PlantPlan
	if err := r.db.Where("farmer_id = ?", farmerID).Order("created_at DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, "list plant plans")
	}
	return out, nil
}
