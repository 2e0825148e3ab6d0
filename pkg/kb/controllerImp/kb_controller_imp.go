package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/kb/service"
)

const defaultHits = 6

type KBCtrl struct{ s service.KBService }

func New(s service.KBService) *KBCtrl { return &KBCtrl{s} }

func (h *KBCtrl) IngestText(c echo.Context) error {
	var req service.IngestRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Ingest(req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *KBCtrl) IngestURL(c echo.Context) error {
	var req service.IngestURLRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.IngestURL(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *KBCtrl) Search(c echo.Context) error {
	k := defaultHits
	if v, err := strconv.Atoi(c.QueryParam("k")); err == nil && v > 0 && v <= 20 {
		k = v
	}
	out, err := h.s.Lookup(c.QueryParam("q"), k)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
