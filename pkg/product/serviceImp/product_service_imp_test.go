package serviceImp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/database/dbtest"
	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/logger"
	"agriverse/pkg/product/repositoryImp"
	"agriverse/pkg/product/service"
)

func newSvc(t *testing.T) (service.ProductService, *entities.User) {
	t.Helper()
	db := dbtest.DB(t)
	return NewProductService(repositoryImp.New(db), logger.Nop()), dbtest.User(t, db, entities.UserTypeFarmer)
}

func TestCreateAndMine(t *testing.T) {
	s, farmer := newSvc(t)
	p, err := s.Create(farmer.ID, service.CreateRequest{Name: " Basmati Rice ", Price: 80, Unit: "kg", Quantity: 200})
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", p.Name)
	assert.True(t, p.Available)
	assert.Equal(t, farmer.ID, p.FarmerID)

	off := false
	_, err = s.Create(farmer.ID, service.CreateRequest{Name: "Old Stock", Available: &off})
	require.NoError(t, err)

	mine, err := s.Mine(farmer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := s.List(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p.ID, all[0].ID)

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Quantity)
}

func TestCreate_Validation(t *testing.T) {
	s, farmer := newSvc(t)
	for _, req := range []service.CreateRequest{
		{Name: " "},
		{Name: "Rice", Price: -1},
		{Name: "Rice", Quantity: -5},
	} {
		_, err := s.Create(farmer.ID, req)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument), "%+v", req)
	}
}

func TestList_Proximity(t *testing.T) {
	s, farmer := newSvc(t)
	delhi := entities.GeoPoint{Lat: 28.61, Lng: 77.20}
	mk := func(name string, loc entities.GeoPoint) {
		_, err := s.Create(farmer.ID, service.CreateRequest{Name: name, Location: loc})
		require.NoError(t, err)
	}
	mk("Near", entities.GeoPoint{Lat: 28.70, Lng: 77.10})
	mk("Far", entities.GeoPoint{Lat: 19.07, Lng: 72.87})

	near, err := s.List(&service.Near{Lat: delhi.Lat, Lng: delhi.Lng})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Near", near[0].Name)

	wide, err := s.List(&service.Near{Lat: delhi.Lat, Lng: delhi.Lng, RadiusKm: 2000})
	require.NoError(t, err)
	assert.Len(t, wide, 2)
}

func TestUpdate(t *testing.T) {
	s, farmer := newSvc(t)
	p, err := s.Create(farmer.ID, service.CreateRequest{Name: "Tomatoes", Price: 20, Quantity: 50})
	require.NoError(t, err)

	off, qty := false, 0
	got, err := s.Update(farmer.ID, p.ID, service.ProductPatch{Available: &off, Quantity: &qty})
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Zero(t, got.Quantity)
	assert.Equal(t, 20.0, got.Price)

	_, err = s.Update("someone-else", p.ID, service.ProductPatch{Available: &off})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = s.Get("missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
