package controllerImp

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/middleware"
	"agriverse/pkg/schedule/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SchedCtrl struct{ s service.ScheduleService }

func New(s service.ScheduleService) *SchedCtrl { return &SchedCtrl{s} }

func (h *SchedCtrl) Generate(c echo.Context) error {
	var req service.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Generate(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Save activates the latest generated schedule for a land and crop.
func (h *SchedCtrl) Save(c echo.Context) error {
	var req service.ActivateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Activate(middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) CheckExisting(c echo.Context) error {
	out, err := h.s.CheckExisting(middleware.UserID(c), c.QueryParam("land_id"), c.QueryParam("crop_name"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"exists": out != nil, "schedule": out})
}

func (h *SchedCtrl) ListByLand(c echo.Context) error {
	out, err := h.s.ListByLand(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) Complete(c echo.Context) error {
	out, err := h.s.Get(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) TaskAction(c echo.Context) error {
	var req service.TaskActionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.TaskAction(middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) InjectDiseaseTasks(c echo.Context) error {
	var req service.InjectRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.InjectDiseaseTasks(middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("%d disease tasks added", len(req.Tasks)),
		"schedule_id": out.ID,
		"schedule":    out,
	})
}

func (h *SchedCtrl) Export(c echo.Context) error {
	data, name, err := h.s.Export(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, data)
}
