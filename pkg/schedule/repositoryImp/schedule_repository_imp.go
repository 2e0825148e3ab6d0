package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/schedule/repository"
)

type schedRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ScheduleRepository { return &schedRepo{db} }

func (r *schedRepo) Create(s *entities.CropSchedule) error {
	return apperr.FromDB(r.db.Create(s).Error, "create schedule")
}

func (r *schedRepo) FindByID(id, farmerID string) (*entities.CropSchedule, error) {
	var s entities.CropSchedule
	if err := r.db.Where("id = ? AND farmer_id = ?", id, farmerID).First(&s).Error; err != nil {
		return nil, apperr.FromDB(err, "schedule")
	}
	return &s, nil
}

func (r *schedRepo) Latest(farmerID, landID, cropName string) (*entities.CropSchedule, error) {
	var s entities.CropSchedule
	err := r.db.Where("farmer_id = ? AND land_id = ? AND crop_name = ?", farmerID, landID, cropName).
		Order("created_at DESC").First(&s).Error
	if err != nil {
		return nil, apperr.FromDB(err, "schedule")
	}
	return &s, nil
}

func (r *schedRepo) ListByLand(farmerID, landID string) ([]entities.CropSchedule, error) {
	var out []entities.CropSchedule
	err := r.db.Where("farmer_id = ? AND land_id = ?", farmerID, landID).
		Order("created_at DESC").Limit(100).Find(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "list schedules")
	}
	return out, nil
}

func (r *schedRepo) Save(s *entities.CropSchedule) error {
	return apperr.FromDB(r.db.Save(s).Error, "update schedule")
}

func (r *schedRepo) Activate(s *entities.CropSchedule) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.CropSchedule{}).
			Where("farmer_id = ? AND land_id = ? AND id <> ?", s.FarmerID, s.LandID, s.ID).
			Update("active", false).Error
		if err != nil {
			return apperr.FromDB(err, "deactivate schedules")
		}
		s.Active = true
		return apperr.FromDB(tx.Save(s).Error, "activate schedule")
	})
}
