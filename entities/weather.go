package entities

import "time"

// WeatherReading is what the weather service returns and what a cycle snapshots at creation.
type WeatherReading struct {
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"` // live|cache|fallback
}
