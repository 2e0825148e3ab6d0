package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/disease/service"
	"agriverse/pkg/middleware"
)

type DiseaseCtrl struct{ s service.DiseaseService }

func New(s service.DiseaseService) *DiseaseCtrl { return &DiseaseCtrl{s} }

func (h *DiseaseCtrl) Detect(c echo.Context) error {
	var req service.DetectRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Detect(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiseaseCtrl) Reports(c echo.Context) error {
	out, err := h.s.Reports(middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiseaseCtrl) ManagementPlan(c echo.Context) error {
	var req service.PlanRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.ManagementPlan(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
