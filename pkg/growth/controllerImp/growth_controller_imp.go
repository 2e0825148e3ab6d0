package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/growth/service"
	"agriverse/pkg/middleware"
)

type GrowthCtrl struct{ s service.GrowthService }

func New(s service.GrowthService) *GrowthCtrl { return &GrowthCtrl{s} }

func (h *GrowthCtrl) View(c echo.Context) error {
	out, err := h.s.View(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GrowthCtrl) AddMeasurement(c echo.Context) error {
	var req service.MeasurementRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.AddMeasurement(middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *GrowthCtrl) AnalyzePhoto(c echo.Context) error {
	var req service.PhotoRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.AnalyzePhoto(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GrowthCtrl) AnalyzeYield(c echo.Context) error {
	var req service.YieldRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.AnalyzeYield(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
