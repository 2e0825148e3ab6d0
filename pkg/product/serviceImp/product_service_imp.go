package serviceImp

import (
	"math"
	"strings"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/logger"
	"agriverse/pkg/product/repository"
	"agriverse/pkg/product/service"
)

const kmPerDegree = 111.0

type productSvc struct {
	r   repository.ProductRepository
	log *logger.Logger
}

func NewProductService(r repository.ProductRepository, log *logger.Logger) service.ProductService {
	return &productSvc{r: r, log: log.With("component", "product")}
}

func (s *productSvc) Create(farmerID string, req service.CreateRequest) (*entities.Product, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, apperr.Invalid("name is required")
	case req.Price < 0:
		return nil, apperr.Invalid("price must not be negative")
	case req.Quantity < 0:
		return nil, apperr.Invalid("quantity must not be negative")
	}
	p := &entities.Product{
		FarmerID:    farmerID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Category:    req.Category,
		ImageBase64: req.ImageBase64,
		Location:    req.Location,
		Available:   req.Available == nil || *req.Available,
	}
	if err := s.r.Create(p); err != nil {
		return nil, err
	}
	s.log.Info("product listed", "product_id", p.ID, "farmer_id", farmerID)
	return p, nil
}

func (s *productSvc) Mine(farmerID string) ([]entities.Product, error) {
	return s.r.ListByFarmer(farmerID)
}

func (s *productSvc) List(near *service.Near) ([]entities.Product, error) {
	all, err := s.r.ListAvailable()
	if err != nil || near == nil {
		return all, err
	}
	radius := near.RadiusKm
	if radius <= 0 {
		radius = service.DefaultRadiusKm
	}
	out := []entities.Product{}
	for _, p := range all {
		d := math.Hypot(near.Lat-p.Location.Lat, near.Lng-p.Location.Lng)
		if d <= radius/kmPerDegree {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *productSvc) Get(id string) (*entities.Product, error) {
	return s.r.FindByID(id)
}

func (s *productSvc) Update(farmerID, id string, patch service.ProductPatch) (*entities.Product, error) {
	p, err := s.r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.FarmerID != farmerID {
		return nil, apperr.Forbidden("product %s belongs to another farmer", id)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperr.Invalid("price must not be negative")
		}
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, apperr.Invalid("quantity must not be negative")
		}
		p.Quantity = *patch.Quantity
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if err := s.r.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}
