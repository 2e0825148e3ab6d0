package controllerImp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agriverse/entities"
	"agriverse/pkg/apperr"
)

type currentReader interface {
	Current(ctx context.Context, lat, lng float64) entities.WeatherReading
}

type WeatherCtrl struct{ w currentReader }

func New(w currentReader) *WeatherCtrl { return &WeatherCtrl{w} }

func (h *WeatherCtrl) Current(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.Param("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return apperr.Respond(c, apperr.Invalid("lat must be a number between -90 and 90"))
	}
	lng, err := strconv.ParseFloat(c.Param("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		return apperr.Respond(c, apperr.Invalid("lng must be a number between -180 and 180"))
	}
	return c.JSON(http.StatusOK, h.w.Current(c.Request().Context(), lat, lng))
}
