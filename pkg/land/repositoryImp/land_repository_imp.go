package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/land/repository"
)

type landRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.LandRepository { return &landRepo{db} }

func (r *landRepo) Create(l *entities.Land) error { return apperr.FromDB(r.db.Create(l).Error, "create land") }

func (r *landRepo) FindByID(id, farmerID string) (*entities.Land, error) {
	var l entities.Land
	if err := r.db.Where("id = ? AND farmer_id = ?", id, farmerID).First(&l).Error; err != nil {
		return nil, apperr.FromDB(err, "land")
	}
	return &l, nil
}

func (r *landRepo) ListByFarmer(farmerID string) ([]entities.Land, error) {
	var out []entities.Land
	if err := r.db.Where("farmer_id = ?", farmerID).Order("created_at ASC").Limit(100).Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, "list lands")
	}
	return out, nil
}

// Replace writes every column of a land previously loaded through FindByID.
func (r *landRepo) Replace(l *entities.Land) error {
	return apperr.FromDB(r.db.Save(l).Error, "update land")
}

func (r *landRepo) Delete(id, farmerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND farmer_id = ?", id, farmerID).Delete(&entities.Land{})
		if res.Error != nil {
			return apperr.FromDB(res.Error, "delete land")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("land not found")
		}
		if err := tx.Where("land_id = ? AND farmer_id = ?", id, farmerID).Delete(&entities.GrowthData{}).Error; err != nil {
			return apperr.FromDB(err, "delete growth data")
		}
		if err := tx.Where("land_id = ? AND farmer_id = ?", id, farmerID).Delete(&entities.CropSchedule{}).Error; err != nil {
			return apperr.FromDB(err, "delete schedules")
		}
		return nil
	})
}
