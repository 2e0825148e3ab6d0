package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/config"
	"agriverse/database/dbtest"
	"agriverse/pkg/ai"
	"agriverse/pkg/auth"
	"agriverse/pkg/logger"
	"agriverse/pkg/weather"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := config.AppConfig{CORSOrigins: []string{"*"}}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := Wire(cfg, Deps{
		DB:      dbtest.DB(t),
		LLM:     ai.NewMock(),
		Weather: weather.New(cfg, nil, logger.Nop()),
		Tokens:  tokens,
		Log:     logger.Nop(),
	})
	return New(echo.New(), h, Options{Tokens: tokens, CORSOrigins: cfg.CORSOrigins, Log: logger.Nop()})
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func register(t *testing.T, e *echo.Echo, email, userType string) string {
	t.Helper()
	var res struct {
		AccessToken string `json:"access_token"`
	}
	code := do(t, e, http.MethodPost, "/api/register", "", map[string]any{
		"email": email, "password": "hunter22", "user_type": userType, "name": "Test",
	}, &res)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestFarmerFlow(t *testing.T) {
	e := newServer(t)
	tok := register(t, e, "farmer@example.com", "farmer")

	var land struct{ ID string }
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/lands", tok, map[string]any{
		"name": "North Field", "size": 4.5, "soil_type": "Clay", "location": map[string]float64{"lat": 28.6, "lng": 77.2},
	}, &land))
	require.NotEmpty(t, land.ID)

	var gen struct {
		ID       string
		Active   bool
		Schedule []map[string]any
	}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/generate-schedule", tok, map[string]any{
		"land_id": land.ID, "crop_name": "Wheat", "start_date": "2025-03-01",
	}, &gen))
	assert.Len(t, gen.Schedule, 16)
	assert.False(t, gen.Active)

	var saved struct{ Active bool }
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/save-schedule", tok, map[string]any{
		"land_id": land.ID, "crop_name": "Wheat", "activation_option": "fresh",
	}, &saved))
	assert.True(t, saved.Active)

	var list []map[string]any
	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/api/crop-schedules/"+land.ID, tok, nil, &list))
	assert.Len(t, list, 1)

	var cycle struct {
		Version int `json:"cycle_version"`
	}
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/cultivation-cycles", tok, map[string]any{
		"land_id": land.ID, "crop_name": "Wheat", "start_date": "2025-03-01",
	}, &cycle))
	assert.Equal(t, 1, cycle.Version)

	var sugg struct{ Suggestions []map[string]any }
	require.Equal(t, http.StatusOK, do(t, e, http.MethodPost, "/api/crop-suggestions", tok, map[string]any{
		"soil_type": "clay", "season": "summer",
	}, &sugg))
	assert.Len(t, sugg.Suggestions, 8)
}

func TestAccessControl(t *testing.T) {
	e := newServer(t)
	var errBody map[string]string

	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/api/lands", "", nil, &errBody))
	assert.NotEmpty(t, errBody["error"])
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/api/lands", "garbage", nil, nil))

	customer := register(t, e, "buyer@example.com", "customer")
	assert.Equal(t, http.StatusForbidden, do(t, e, http.MethodPost, "/api/lands", customer, map[string]any{"name": "x", "size": 1}, nil))
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/api/profile", customer, nil, nil))

	var products []map[string]any
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/api/products", "", nil, &products))
	assert.Empty(t, products)
}

func TestHealthAndWeather(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", "", nil, nil))

	var wx struct {
		Temperature float64
		Source      string
	}
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/api/weather/28.6/77.2", "", nil, &wx))
	assert.Equal(t, weather.SourceFallback, wx.Source)
	assert.Equal(t, 25.0, wx.Temperature)
}
