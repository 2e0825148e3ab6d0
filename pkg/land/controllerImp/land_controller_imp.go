package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/land/service"
	"agriverse/pkg/middleware"
)

type LandCtrl struct{ s service.LandService }

func New(s service.LandService) *LandCtrl { return &LandCtrl{s} }

func (h *LandCtrl) Create(c echo.Context) error {
	var req service.LandRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	l, err := h.s.Create(middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LandCtrl) List(c echo.Context) error {
	out, err := h.s.List(middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LandCtrl) Get(c echo.Context) error {
	l, err := h.s.Get(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LandCtrl) Update(c echo.Context) error {
	var req service.LandRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	l, err := h.s.Update(middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LandCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(middleware.UserID(c), c.Param("id")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "land deleted"})
}
