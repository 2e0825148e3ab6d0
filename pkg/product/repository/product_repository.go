package repository

import "agriverse/entities"

type ProductRepository interface {
	Create(p *entities.Product) error
	FindByID(id string) (*entities.Product, error)
	ListByFarmer(farmerID string) ([]entities.Product, error)
	// ListAvailable returns at most 100 available products, newest first.
	ListAvailable() ([]entities.Product, error)
	Save(p *entities.Product) error
}
