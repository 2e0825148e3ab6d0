package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/advisor/service"
	"agriverse/pkg/apperr"
	"agriverse/pkg/middleware"
)

type AdvisorCtrl struct{ s service.AdvisorService }

func New(s service.AdvisorService) *AdvisorCtrl { return &AdvisorCtrl{s} }

func (h *AdvisorCtrl) FarmAnalysis(c echo.Context) error {
	var req service.AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.FarmAnalysis(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdvisorCtrl) Chat(c echo.Context) error {
	var req service.ChatRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Chat(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdvisorCtrl) CreatePlantPlan(c echo.Context) error {
	var req service.PlantPlanRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.CreatePlantPlan(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdvisorCtrl) ListPlantPlans(c echo.Context) error {
	out, err := h.s.ListPlantPlans(middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
