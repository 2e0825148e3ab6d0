package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/product/repository"
)

const listLimit = 100

type productRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ProductRepository { return &productRepo{db} }

func (r *productRepo) Create(p *entities.Product) error {
	return apperr.FromDB(r.db.Create(p).Error, "create product")
}

func (r *productRepo) FindByID(id string) (*entities.Product, error) {
	var p entities.Product
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	return &p, nil
}

func (r *productRepo) ListByFarmer(farmerID string) ([]entities.Product, error) {
	var out []entities.Product
	err := r.db.Where("farmer_id = ?", farmerID).Order("created_at DESC").Limit(listLimit).Find(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "list products")
	}
	return out, nil
}

func (r *productRepo) ListAvailable() ([]entities.Product, error) {
	var out []entities.Product
	err := r.db.Where("available = ?", true).Order("created_at DESC").Limit(listLimit).Find(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "list products")
	}
	return out, nil
}

func (r *productRepo) Save(p *entities.Product) error {
	return apperr.FromDB(r.db.Save(p).Error, "save product")
}
