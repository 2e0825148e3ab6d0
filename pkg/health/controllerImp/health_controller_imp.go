package controllerImp

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthCtrl struct {
	checks map[string]Check
}

// NewHealthCtrl always checks the database; extra checks cover optional backends.
func NewHealthCtrl(db *gorm.DB, extra map[string]Check) *HealthCtrl {
	checks := map[string]Check{"database": dbCheck(db)}
	for name, c := range extra {
		checks[name] = c
	}
	return &HealthCtrl{checks: checks}
}

func dbCheck(db *gorm.DB) Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	allOK := true
	results := make(map[string]sub, len(names))
	for _, n := range names {
		if err := h.checks[n](ctx); err != nil {
			allOK = false
			results[n] = sub{Err: err.Error()}
			continue
		}
		results[n] = sub{OK: true}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     results,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
