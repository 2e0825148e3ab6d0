package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agriverse/config"
	"agriverse/entities"
	"agriverse/pkg/logger"
)

const (
	SourceLive     = "live"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Cache stores readings by rounded coordinate. Errors are logged and ignored by Client.
type Cache interface {
	Get(ctx context.Context, key string) (entities.WeatherReading, bool, error)
	Set(ctx context.Context, key string, r entities.WeatherReading, ttl time.Duration) error
}

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	cache   Cache
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// New builds a client for the OpenWeather current-conditions API. cache may be nil.
func New(cfg config.AppConfig, cache Cache, log *logger.Logger) *Client {
	ttl := time.Duration(cfg.WeatherCacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Client{
		apiKey:  cfg.WeatherAPIKey,
		baseURL: strings.TrimRight(cfg.WeatherBaseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		ttl:     ttl,
		log:     log.With("component", "weather"),
		now:     time.Now,
	}
}

// Fallback is the fixed reading substituted whenever the upstream cannot be used.
func Fallback(now time.Time) entities.WeatherReading {
	return entities.WeatherReading{
		Temperature:   25.0,
		Humidity:      65,
		Pressure:      1013,
		WindSpeed:     5.0,
		WindDirection: 180,
		Description:   "Partly cloudy",
		Icon:          "02d",
		Timestamp:     now.UTC(),
		Source:        SourceFallback,
	}
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lng)
}

// Current never fails: any upstream problem yields the fallback reading.
func (c *Client) Current(ctx context.Context, lat, lng float64) entities.WeatherReading {
	key := cacheKey(lat, lng)
	if c.cache != nil {
		r, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("weather cache read failed", "key", key, "error", err)
		} else if ok {
			r.Source = SourceCache
			return r
		}
	}

	r, err := c.fetch(ctx, lat, lng)
	if err != nil {
		c.log.Warn("weather fallback", "lat", lat, "lng", lng, "reason", err.Error())
		return Fallback(c.now())
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, r, c.ttl); err != nil {
			c.log.Warn("weather cache write failed", "key", key, "error", err)
		}
	}
	return r
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (entities.WeatherReading, error) {
	if c.apiKey == "" {
		return entities.WeatherReading{}, fmt.Errorf("no api key")
	}
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return entities.WeatherReading{}, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return entities.WeatherReading{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entities.WeatherReading{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return entities.WeatherReading{}, fmt.Errorf("decode: %w", err)
	}
	r := entities.WeatherReading{
		Temperature:   out.Main.Temp,
		Humidity:      out.Main.Humidity,
		Pressure:      out.Main.Pressure,
		WindSpeed:     out.Wind.Speed,
		WindDirection: out.Wind.Deg,
		Timestamp:     c.now().UTC(),
		Source:        SourceLive,
	}
	if out.Dt > 0 {
		r.Timestamp = time.Unix(out.Dt, 0).UTC()
	}
	if len(out.Weather) > 0 {
		r.Description = out.Weather[0].Description
		r.Icon = out.Weather[0].Icon
	}
	return r, nil
}
