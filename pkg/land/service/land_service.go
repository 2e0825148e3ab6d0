package service

import "agriverse/entities"

type LandRequest struct {
	Name          string            `json:"name"`
	Size          float64           `json:"size"`
	Location      entities.GeoPoint `json:"location"`
	SoilType      string            `json:"soil_type"`
	Crops         []string          `json:"crops"`
	IntendedCrops []string          `json:"intended_crops"`
	Description   string            `json:"description"`
}

type LandService interface {
	Create(farmerID string, req LandRequest) (*entities.Land, error)
	List(farmerID string) ([]entities.Land, error)
	Get(farmerID, id string) (*entities.Land, error)
	Update(farmerID, id string, req LandRequest) (*entities.Land, error)
	Delete(farmerID, id string) error
}
