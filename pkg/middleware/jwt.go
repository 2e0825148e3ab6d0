package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/auth"
)

const (
	ctxUserID   = "uid"
	ctxUserType = "user_type"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWT requires "Authorization: Bearer <token>" and puts the caller's id and role on the context.
func JWT(p TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, tok, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
				return apperr.Respond(c, apperr.Unauthorized("missing bearer token"))
			}
			claims, err := p.Parse(strings.TrimSpace(tok))
			if err != nil {
				return apperr.Respond(c, apperr.Unauthorized("invalid authentication credentials"))
			}
			c.Set(ctxUserID, claims.Subject)
			c.Set(ctxUserType, claims.UserType)
			return next(c)
		}
	}
}

// FarmerOnly must run after JWT.
func FarmerOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserType(c) != entities.UserTypeFarmer {
				return apperr.Respond(c, apperr.Forbidden("only farmers can access this resource"))
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(ctxUserID).(string)
	return v
}

func UserType(c echo.Context) string {
	v, _ := c.Get(ctxUserType).(string)
	return v
}
