package service

import "agriverse/entities"

const DefaultRadiusKm = 50.0

type CreateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Unit        string            `json:"unit"`
	Quantity    int               `json:"quantity"`
	Category    string            `json:"category"`
	ImageBase64 string            `json:"image_base64,omitempty"`
	Location    entities.GeoPoint `json:"location"`
	Available   *bool             `json:"available,omitempty"`
}

// ProductPatch updates only the fields that are set.
type ProductPatch struct {
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Available   *bool    `json:"available"`
	Description *string  `json:"description"`
}

// Near filters by a rough planar distance; one degree is taken as 111 km.
type Near struct {
	Lat, Lng float64
	RadiusKm float64
}

type ProductService interface {
	Create(farmerID string, req CreateRequest) (*entities.Product, error)
	Mine(farmerID string) ([]entities.Product, error)
	List(near *Near) ([]entities.Product, error)
	Get(id string) (*entities.Product, error)
	Update(farmerID, id string, patch ProductPatch) (*entities.Product, error)
}
