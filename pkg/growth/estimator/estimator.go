// Package estimator derives growth figures from a schedule's task counts and elapsed days.
// Every function is pure; callers recompute on read.
package estimator

import (
	"math"
	"time"

	"agriverse/entities"
)

const dateLayout = "2006-01-02"

// Progress is days over task count as a percentage, capped at 100.
func Progress(daysElapsed, totalTasks int) float64 {
	if totalTasks <= 0 || daysElapsed <= 0 {
		return 0
	}
	return math.Min(100, float64(daysElapsed)/float64(totalTasks)*100)
}

// HealthScore is always within [30, 100].
func HealthScore(completed, total, daysElapsed int) int {
	ratio := 0.0
	if total > 0 {
		ratio = float64(completed) / float64(total) * 100
	}
	score := int(ratio + float64(max(daysElapsed, 0))*0.5)
	return min(100, max(30, score))
}

func GrowthStage(daysElapsed int) string {
	switch {
	case daysElapsed <= 0:
		return "Just Planted"
	case daysElapsed <= 7:
		return "Germination"
	case daysElapsed <= 21:
		return "Vegetative Growth"
	case daysElapsed <= 45:
		return "Flowering"
	case daysElapsed <= 90:
		return "Fruiting"
	default:
		return "Harvest Ready"
	}
}

func GrowthRate(progress float64, daysElapsed int) float64 {
	if daysElapsed <= 0 {
		return 0
	}
	return math.Min(2.0, progress/float64(daysElapsed))
}

// YieldPrediction scales a 100 kg/acre baseline by health and progress.
func YieldPrediction(healthScore int, progress float64) int {
	return int(100 * float64(healthScore) / 100 * progress / 100)
}

// DaysElapsed counts whole days since a YYYY-MM-DD start. Unparseable or future dates give 0.
func DaysElapsed(startDate string, now time.Time) int {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return max(0, int(today.Sub(start).Hours()/24))
}

type Snapshot struct {
	Stage           string  `json:"current_stage"`
	DaysElapsed     int     `json:"days_elapsed"`
	TotalDays       int     `json:"total_days"`
	Progress        float64 `json:"progress"`
	HealthScore     int     `json:"health_score"`
	GrowthRate      float64 `json:"growth_rate"`
	YieldPrediction int     `json:"yield_prediction"`
}

// Compute derives a snapshot for s as of now. TotalDays is the last scheduled day.
func Compute(s *entities.CropSchedule, now time.Time) Snapshot {
	days := DaysElapsed(s.StartDate, now)
	completed, _, total := s.Counts()
	progress := Progress(days, total)
	health := HealthScore(completed, total, days)
	last := 0
	for _, t := range s.Schedule {
		last = max(last, t.Day)
	}
	return Snapshot{
		Stage:           GrowthStage(days),
		DaysElapsed:     days,
		TotalDays:       last,
		Progress:        progress,
		HealthScore:     health,
		GrowthRate:      GrowthRate(progress, days),
		YieldPrediction: YieldPrediction(health, progress),
	}
}

// NextAction names the first task that is neither completed nor skipped.
func NextAction(s *entities.CropSchedule) string {
	for _, t := range s.Schedule {
		if !t.Completed && !t.Skipped {
			return t.Task
		}
	}
	if len(s.Schedule) == 0 {
		return ""
	}
	return "All tasks complete"
}

// Refresh writes the derived fields the dashboard reads back onto s.
func Refresh(s *entities.CropSchedule, now time.Time) Snapshot {
	snap := Compute(s, now)
	s.CurrentStage = snap.Stage
	s.DaysElapsed = snap.DaysElapsed
	s.NextAction = NextAction(s)
	h := snap.HealthScore
	s.HealthScore = &h
	return snap
}

// FallbackRecommendations is the rule table used when the AI has nothing usable.
func FallbackRecommendations(daysElapsed, healthScore int) []string {
	var out []string
	switch {
	case daysElapsed <= 7:
		out = append(out, "Keep the seedbed evenly moist until emergence", "Check for uneven germination and fill gaps")
	case daysElapsed <= 21:
		out = append(out, "Remove weeds before they compete for nutrients", "Apply the first nitrogen top dressing")
	case daysElapsed <= 45:
		out = append(out, "Avoid water stress during flowering", "Scout for pests on the underside of leaves")
	case daysElapsed <= 90:
		out = append(out, "Maintain potassium levels for fruit fill", "Reduce irrigation gradually as the crop matures")
	default:
		out = append(out, "Check grain or fruit maturity before harvest", "Plan storage and transport ahead of harvest")
	}
	if healthScore < 70 {
		out = append(out, "Monitor closely for disease symptoms and consider a disease scan")
	}
	if healthScore < 50 {
		out = append(out, "Review skipped tasks and catch up on critical care")
	}
	return out
}
