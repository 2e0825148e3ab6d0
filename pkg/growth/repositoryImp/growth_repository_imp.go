package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/growth/repository"
)

type growthRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.GrowthRepository { return &growthRepo{db} }

func (r *growthRepo) FindBySchedule(scheduleID, farmerID string) (*entities.GrowthData, error) {
	var g entities.GrowthData
	if err := r.db.Where("schedule_id = ? AND farmer_id = ?", scheduleID, farmerID).First(&g).Error; err != nil {
		return nil, apperr.FromDB(err, "growth data")
	}
	return &g, nil
}

func (r *growthRepo) Save(g *entities.GrowthData) error {
	if g.ID == "" {
		return apperr.FromDB(r.db.Create(g).Error, "create growth data")
	}
	return apperr.FromDB(r.db.Save(g).Error, "update growth data")
}
