package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/cycle/repository"
)

// maxVersionAttempts bounds retries when a concurrent create takes the same version.
const maxVersionAttempts = 3

type cycleRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CycleRepository { return &cycleRepo{db} }

func (r *cycleRepo) CreateVersioned(c *entities.CultivationCycle, tasks []entities.CycleTask, seed *entities.CropSchedule) (*entities.CropSchedule, error) {
	var (
		sched *entities.CropSchedule
		err   error
	)
	for attempt := 1; attempt <= maxVersionAttempts; attempt++ {
		sched, err = r.createOnce(c, tasks, seed)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict("cycle version taken concurrently, retry the request")
	}
	if err != nil {
		return nil, apperr.FromDB(err, "create cycle")
	}
	return sched, nil
}

func (r *cycleRepo) createOnce(c *entities.CultivationCycle, tasks []entities.CycleTask, seed *entities.CropSchedule) (*entities.CropSchedule, error) {
	var out *entities.CropSchedule
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var latest int
		err := tx.Model(&entities.CultivationCycle{}).
			Where("farmer_id = ? AND land_id = ? AND crop_name = ?", c.FarmerID, c.LandID, c.CropName).
			Select("COALESCE(MAX(cycle_version), 0)").Scan(&latest).Error
		if err != nil {
			return err
		}
		c.CycleVersion = latest + 1
		if err := tx.Omit("Tasks").Create(c).Error; err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].CycleID = c.ID
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		c.Tasks = tasks

		sched, err := pointSchedule(tx, c, seed)
		if err != nil {
			return err
		}
		out = sched
		return nil
	})
	return out, err
}

func pointSchedule(tx *gorm.DB, c *entities.CultivationCycle, seed *entities.CropSchedule) (*entities.CropSchedule, error) {
	var sched entities.CropSchedule
	err := tx.Where("farmer_id = ? AND land_id = ? AND crop_name = ?", c.FarmerID, c.LandID, c.CropName).
		Order("created_at DESC").First(&sched).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sched = *seed
		sched.CurrentCycleID = &c.ID
		sched.Active = true
		if err := tx.Create(&sched).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		sched.CurrentCycleID = &c.ID
		sched.Active = true
		if err := tx.Save(&sched).Error; err != nil {
			return nil, err
		}
	}
	err = tx.Model(&entities.CropSchedule{}).
		Where("farmer_id = ? AND land_id = ? AND id <> ?", c.FarmerID, c.LandID, sched.ID).
		Update("active", false).Error
	return &sched, err
}

func (r *cycleRepo) FindByID(id, farmerID string) (*entities.CultivationCycle, error) {
	var c entities.CultivationCycle
	err := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("day ASC, created_at ASC") }).
		Where("id = ? AND farmer_id = ?", id, farmerID).First(&c).Error
	if err != nil {
		return nil, apperr.FromDB(err, "cycle")
	}
	return &c, nil
}

func (r *cycleRepo) History(farmerID, landID string) ([]entities.CultivationCycle, error) {
	var out []entities.CultivationCycle
	err := r.db.Preload("Tasks").
		Where("farmer_id = ? AND land_id = ?", farmerID, landID).
		Order("crop_name ASC, cycle_version DESC").Limit(100).Find(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "cycle history")
	}
	return out, nil
}

func (r *cycleRepo) UpdateStatus(c *entities.CultivationCycle) error {
	err := r.db.Model(c).Select("status", "end_date", "updated_at").Updates(c).Error
	return apperr.FromDB(err, "update cycle status")
}

func (r *cycleRepo) FindTask(cycleID, taskID string) (*entities.CycleTask, error) {
	var t entities.CycleTask
	if err := r.db.Where("id = ? AND cycle_id = ?", taskID, cycleID).First(&t).Error; err != nil {
		return nil, apperr.FromDB(err, "task")
	}
	return &t, nil
}

func (r *cycleRepo) SaveTask(t *entities.CycleTask) error {
	return apperr.FromDB(r.db.Save(t).Error, "update task")
}
