package serviceImp

import "agriverse/entities"

const (
	ImpactFavorable   = "favorable"
	ImpactModerate    = "moderate"
	ImpactUnfavorable = "unfavorable"
)

func bucket(v, goodLo, goodHi, okLo, okHi float64) string {
	switch {
	case v >= goodLo && v <= goodHi:
		return ImpactFavorable
	case v >= okLo && v <= okHi:
		return ImpactModerate
	}
	return ImpactUnfavorable
}

// Impact buckets a reading for general field crops. Overall is the worst bucket.
func Impact(r entities.WeatherReading) entities.WeatherImpact {
	wi := entities.WeatherImpact{
		Temperature: bucket(r.Temperature, 15, 30, 10, 35),
		Humidity:    bucket(r.Humidity, 40, 70, 30, 80),
		Wind:        bucket(r.WindSpeed, 0, 5, 0, 10),
	}
	wi.Overall = ImpactFavorable
	for _, b := range []string{wi.Temperature, wi.Humidity, wi.Wind} {
		if b == ImpactUnfavorable {
			wi.Overall = ImpactUnfavorable
			break
		}
		if b == ImpactModerate {
			wi.Overall = ImpactModerate
		}
	}
	return wi
}
