package serviceImp

import (
	"strings"
	"time"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	repo "agriverse/pkg/land/repository"
	"agriverse/pkg/land/service"
)

type landSvc struct{ r repo.LandRepository }

func NewLandService(r repo.LandRepository) service.LandService { return &landSvc{r} }

func validate(req service.LandRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Invalid("name is required")
	}
	if req.Size <= 0 {
		return apperr.Invalid("size must be greater than 0")
	}
	if strings.TrimSpace(req.SoilType) == "" {
		return apperr.Invalid("soil_type is required")
	}
	if req.Location.Lat < -90 || req.Location.Lat > 90 || req.Location.Lng < -180 || req.Location.Lng > 180 {
		return apperr.Invalid("location is out of range")
	}
	return nil
}

func apply(l *entities.Land, req service.LandRequest) {
	l.Name = strings.TrimSpace(req.Name)
	l.Size = req.Size
	l.Location = req.Location
	l.SoilType = strings.TrimSpace(req.SoilType)
	l.Crops = nonNil(req.Crops)
	l.IntendedCrops = nonNil(req.IntendedCrops)
	l.Description = req.Description
	l.LastUpdated = time.Now().UTC()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *landSvc) Create(farmerID string, req service.LandRequest) (*entities.Land, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	l := &entities.Land{FarmerID: farmerID}
	apply(l, req)
	if err := s.r.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *landSvc) List(farmerID string) ([]entities.Land, error) { return s.r.ListByFarmer(farmerID) }

func (s *landSvc) Get(farmerID, id string) (*entities.Land, error) { return s.r.FindByID(id, farmerID) }

// Update is a full replace; id and farmer_id are kept.
func (s *landSvc) Update(farmerID, id string, req service.LandRequest) (*entities.Land, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	l, err := s.r.FindByID(id, farmerID)
	if err != nil {
		return nil, err
	}
	apply(l, req)
	if err := s.r.Replace(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *landSvc) Delete(farmerID, id string) error { return s.r.Delete(id, farmerID) }
