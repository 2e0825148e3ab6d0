package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/suggest"
)

type SuggestCtrl struct{ g *suggest.Generator }

func New(g *suggest.Generator) *SuggestCtrl { return &SuggestCtrl{g} }

func (h *SuggestCtrl) Suggest(c echo.Context) error {
	var req suggest.Request
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return apperr.Respond(c, apperr.Invalid("location is out of range"))
	}
	return c.JSON(http.StatusOK, h.g.Suggest(c.Request().Context(), req))
}
