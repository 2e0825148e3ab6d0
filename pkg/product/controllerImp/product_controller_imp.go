package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/middleware"
	"agriverse/pkg/product/service"
)

type ProductCtrl struct{ s service.ProductService }

func New(s service.ProductService) *ProductCtrl { return &ProductCtrl{s} }

func (h *ProductCtrl) Create(c echo.Context) error {
	var req service.CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	p, err := h.s.Create(middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductCtrl) Mine(c echo.Context) error {
	out, err := h.s.Mine(middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// List applies the proximity filter only when both lat and lng are given.
func (h *ProductCtrl) List(c echo.Context) error {
	var near *service.Near
	lat, lng := c.QueryParam("lat"), c.QueryParam("lng")
	if lat != "" && lng != "" {
		n := service.Near{RadiusKm: service.DefaultRadiusKm}
		var err error
		if n.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
			return apperr.Respond(c, apperr.Invalid("invalid lat"))
		}
		if n.Lng, err = strconv.ParseFloat(lng, 64); err != nil {
			return apperr.Respond(c, apperr.Invalid("invalid lng"))
		}
		if r := c.QueryParam("radius"); r != "" {
			if n.RadiusKm, err = strconv.ParseFloat(r, 64); err != nil {
				return apperr.Respond(c, apperr.Invalid("invalid radius"))
			}
		}
		near = &n
	}
	out, err := h.s.List(near)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductCtrl) Get(c echo.Context) error {
	p, err := h.s.Get(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductCtrl) Update(c echo.Context) error {
	var patch service.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	p, err := h.s.Update(middleware.UserID(c), c.Param("id"), patch)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
