// Package suggest proposes exactly eight crops for a location, soil and season.
package suggest

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/logger"
)

// Count is the number of suggestions every call returns.
const Count = 8

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

var seasonOrder = []string{"spring", "summer", "autumn", "winter"}

//go:embed table.yaml
var tableYAML []byte

type Suggestion struct {
	Name             string `json:"name" yaml:"name"`
	Duration         string `json:"duration" yaml:"duration"`
	WaterRequirement string `json:"water_requirement" yaml:"water_requirement"`
	Benefits         string `json:"benefits" yaml:"benefits"`
	PlantingTime     string `json:"planting_time" yaml:"planting_time"`
	YieldPotential   string `json:"yield_potential" yaml:"yield_potential"`
}

type Request struct {
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	SoilType    string   `json:"soil_type"`
	Season      string   `json:"season"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Source      string       `json:"source"`
	Reason      string       `json:"reason,omitempty"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
}

// Table maps normalized soil to season to suggestions.
type Table map[string]map[string][]Suggestion

func LoadTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse suggestion table: %w", err)
	}
	if len(t["loam"]) == 0 {
		return nil, fmt.Errorf("suggestion table has no loam entries")
	}
	return t, nil
}

// DefaultTable is the embedded table. It panics on a malformed embed.
func DefaultTable() Table {
	t, err := LoadTable(tableYAML)
	if err != nil {
		panic(err)
	}
	return t
}

type weatherSource interface {
	Current(ctx context.Context, lat, lng float64) entities.WeatherReading
}

type Generator struct {
	llm     ai.Client
	weather weatherSource
	table   Table
	log     *logger.Logger
}

func New(llm ai.Client, weather weatherSource, table Table, log *logger.Logger) *Generator {
	return &Generator{llm: llm, weather: weather, table: table, log: log.With("component", "crop_suggest")}
}

// NormalizeSoil maps free-text soil names onto the table keys. Unknown soils are loam.
func NormalizeSoil(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "clay"):
		return "clay"
	case strings.Contains(s, "sand"):
		return "sandy"
	case strings.Contains(s, "silt"):
		return "silt"
	}
	return "loam"
}

func NormalizeSeason(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "spring"):
		return "spring"
	case strings.Contains(s, "summer"), strings.Contains(s, "kharif"), strings.Contains(s, "monsoon"), strings.Contains(s, "rain"):
		return "summer"
	case strings.Contains(s, "autumn"), strings.Contains(s, "fall"):
		return "autumn"
	case strings.Contains(s, "winter"), strings.Contains(s, "rabi"):
		return "winter"
	}
	return s
}

func (g *Generator) Suggest(ctx context.Context, req Request) Result {
	var temp, hum float64
	if req.Temperature != nil && req.Humidity != nil {
		temp, hum = *req.Temperature, *req.Humidity
	} else {
		wx := g.weather.Current(ctx, req.Lat, req.Lng)
		temp, hum = wx.Temperature, wx.Humidity
		if req.Temperature != nil {
			temp = *req.Temperature
		}
		if req.Humidity != nil {
			hum = *req.Humidity
		}
	}
	res := Result{Temperature: temp, Humidity: hum}

	reply, err := g.llm.Complete(ctx, "", prompt(req, temp, hum))
	if err == nil {
		var got []Suggestion
		if err = ai.DecodeArray(reply, &got); err == nil {
			if len(got) >= Count {
				res.Suggestions = backfill(got[:Count])
				res.Source = SourceAI
				return res
			}
			err = fmt.Errorf("ai returned %d suggestions", len(got))
		}
	}
	res.Suggestions = g.Fallback(req.SoilType, req.Season)
	res.Source = SourceFallback
	res.Reason = err.Error()
	g.log.Warn("crop suggestions fallback", "soil", req.SoilType, "season", req.Season, "reason", res.Reason)
	return res
}

func prompt(req Request, temp, hum float64) string {
	return fmt.Sprintf(`Suggest crops for a farm at latitude %.4f, longitude %.4f.
Soil type: %s. Season: %s. Current temperature %.1f°C and humidity %.0f%%.
Reply with ONLY a JSON array of exactly %d objects, each shaped as
{"name": "...", "duration": "...", "water_requirement": "Low|Medium|High", "benefits": "...", "planting_time": "...", "yield_potential": "..."}`,
		req.Lat, req.Lng, req.SoilType, req.Season, temp, hum, Count)
}

func backfill(in []Suggestion) []Suggestion {
	out := make([]Suggestion, len(in))
	for i, s := range in {
		if s.Name == "" {
			s.Name = "Unnamed crop"
		}
		if s.Duration == "" {
			s.Duration = "90-120 days"
		}
		if s.WaterRequirement == "" {
			s.WaterRequirement = "Medium"
		}
		if s.Benefits == "" {
			s.Benefits = "Suited to local conditions"
		}
		if s.PlantingTime == "" {
			s.PlantingTime = "Current season"
		}
		if s.YieldPotential == "" {
			s.YieldPotential = "Medium"
		}
		out[i] = s
	}
	return out
}

// Fallback assembles Count distinct entries: the exact season first, then the soil's other
// seasons, then loam.
func (g *Generator) Fallback(soilType, season string) []Suggestion {
	soil := NormalizeSoil(soilType)
	season = NormalizeSeason(season)

	out := make([]Suggestion, 0, Count)
	seen := map[string]bool{}
	add := func(list []Suggestion) {
		for _, s := range list {
			if len(out) == Count {
				return
			}
			key := strings.ToLower(s.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	for _, key := range []string{soil, "loam"} {
		seasons := g.table[key]
		add(seasons[season])
		for _, other := range seasonOrder {
			if other != season {
				add(seasons[other])
			}
		}
	}
	return out
}
