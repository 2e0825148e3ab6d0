package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/disease/repository"
)

type diseaseRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DiseaseRepository { return &diseaseRepo{db} }

func (r *diseaseRepo) Create(rep *entities.DiseaseReport) error {
	return apperr.FromDB(r.db.Create(rep).Error, "create disease report")
}

func (r *diseaseRepo) ListByFarmer(farmerID string) ([]entities.DiseaseReport, error) {
	var out []entities.DiseaseReport
	if err := r.db.Where("farmer_id = ?", farmerID).Order("created_at DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, "list disease reports")
	}
	return out, nil
}
