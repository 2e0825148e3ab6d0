package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriverse/pkg/apperr"
	"agriverse/pkg/auth/service"
	"agriverse/pkg/middleware"
)

type AuthCtrl struct{ s service.AuthService }

func New(s service.AuthService) *AuthCtrl { return &AuthCtrl{s} }

func (h *AuthCtrl) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Register(req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthCtrl) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Invalid("bad json"))
	}
	out, err := h.s.Login(req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthCtrl) Profile(c echo.Context) error {
	u, err := h.s.Profile(middleware.UserID(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
