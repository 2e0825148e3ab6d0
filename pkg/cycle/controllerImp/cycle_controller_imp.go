package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/cycle/service"
	"agriverse/pkg/middleware"
)

type CycleCtrl struct{ s service.CycleService }

func New(s service.CycleService) *CycleCtrl { return &CycleCtrl{s} }

func (h *CycleCtrl) Create(c echo.Context) error {
	var req service.CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) Get(c echo.Context) error {
	out, err := h.s.Get(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) UseAgain(c echo.Context) error {
	var req service.CloneRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Clone(c.Request().Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) SetStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.SetStatus(middleware.UserID(c), c.Param("id"), body.Status)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) UpdateTask(c echo.Context) error {
	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.UpdateTask(middleware.UserID(c), c.Param("id"), c.Param("task_id"), body.Action)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// History lists the cycles of a land, newest version first per crop.
func (h *CycleCtrl) History(c echo.Context) error {
	out, err := h.s.History(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
