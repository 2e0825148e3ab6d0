package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	"agriverse/pkg/blob"
	"agriverse/pkg/growth/estimator"
	repo "agriverse/pkg/growth/repository"
	"agriverse/pkg/growth/service"
	"agriverse/pkg/logger"
)

const (
	dateLayout     = "2006-01-02"
	sourceAI       = "ai"
	sourceFallback = "fallback"
)

type scheduleReader interface {
	FindByID(id, farmerID string) (*entities.CropSchedule, error)
	Latest(farmerID, landID, cropName string) (*entities.CropSchedule, error)
}

type landFinder interface {
	FindByID(id, farmerID string) (*entities.Land, error)
}

type weatherSource interface {
	Current(ctx context.Context, lat, lng float64) entities.WeatherReading
}

type growthSvc struct {
	r         repo.GrowthRepository
	schedules scheduleReader
	lands     landFinder
	weather   weatherSource
	llm       ai.Client
	store     blob.Store
	log       *logger.Logger
	now       func() time.Time
}

// NewGrowthService wires the growth view. store may be nil, in which case photos are
// analysed but their bytes are not kept.
func NewGrowthService(r repo.GrowthRepository, schedules scheduleReader, lands landFinder, weather weatherSource, llm ai.Client, store blob.Store, log *logger.Logger) service.GrowthService {
	return &growthSvc{
		r: r, schedules: schedules, lands: lands, weather: weather, llm: llm, store: store,
		log: log.With("component", "growth"), now: time.Now,
	}
}

// load returns the stored growth data for sched or a fresh unsaved one.
func (s *growthSvc) load(sched *entities.CropSchedule) (*entities.GrowthData, error) {
	g, err := s.r.FindBySchedule(sched.ID, sched.FarmerID)
	if err == nil {
		if g.Trends == nil {
			g.Trends = map[string]string{}
		}
		return g, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	return &entities.GrowthData{
		FarmerID:        sched.FarmerID,
		ScheduleID:      sched.ID,
		LandID:          sched.LandID,
		CropName:        sched.CropName,
		Recommendations: []string{},
		Photos:          []entities.GrowthPhoto{},
		Measurements:    []entities.Measurement{},
		Alerts:          []string{},
		Trends:          map[string]string{},
	}, nil
}

func applySnapshot(g *entities.GrowthData, snap estimator.Snapshot) {
	if g.ID != "" {
		g.Trends["health"] = trend(float64(g.HealthScore), float64(snap.HealthScore))
	}
	g.CurrentStage = snap.Stage
	g.DaysElapsed = snap.DaysElapsed
	g.TotalDays = snap.TotalDays
	g.Progress = snap.Progress
	g.HealthScore = snap.HealthScore
	g.GrowthRate = snap.GrowthRate
	g.YieldPrediction = snap.YieldPrediction
}

func trend(prev, cur float64) string {
	switch {
	case cur > prev:
		return "improving"
	case cur < prev:
		return "declining"
	}
	return "stable"
}

func (s *growthSvc) View(ctx context.Context, farmerID, scheduleID string) (*entities.GrowthData, error) {
	sched, err := s.schedules.FindByID(scheduleID, farmerID)
	if err != nil {
		return nil, err
	}
	land, err := s.lands.FindByID(sched.LandID, farmerID)
	if err != nil {
		return nil, err
	}
	g, err := s.load(sched)
	if err != nil {
		return nil, err
	}
	snap := estimator.Compute(sched, s.now())
	applySnapshot(g, snap)

	var (
		wx   entities.WeatherReading
		recs []string
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		wx = s.weather.Current(egCtx, land.Location.Lat, land.Location.Lng)
		return nil
	})
	eg.Go(func() error {
		recs = s.recommend(egCtx, sched, snap)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.WeatherImpact = Impact(wx)
	g.Recommendations = recs
	g.Alerts = alerts(snap, g.WeatherImpact)

	if err := s.r.Save(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *growthSvc) recommend(ctx context.Context, sched *entities.CropSchedule, snap estimator.Snapshot) []string {
	completed, skipped, total := sched.Counts()
	prompt := fmt.Sprintf(`A %s crop is %d days after planting, stage %q, health score %d/100, progress %.0f%%.
%d of %d scheduled tasks are done and %d were skipped. Next task: %s.
Reply with ONLY a JSON array of 3 to 5 short, practical recommendation strings for this week.`,
		sched.CropName, snap.DaysElapsed, snap.Stage, snap.HealthScore, snap.Progress,
		completed, total, skipped, estimator.NextAction(sched))

	reply, err := s.llm.Complete(ctx, "", prompt)
	if err == nil {
		var recs []string
		if err = ai.DecodeArray(reply, &recs); err == nil && len(recs) > 0 {
			return recs
		}
	}
	s.log.Debug("growth recommendations fallback", "schedule_id", sched.ID, "error", err)
	return estimator.FallbackRecommendations(snap.DaysElapsed, snap.HealthScore)
}

func alerts(snap estimator.Snapshot, wi entities.WeatherImpact) []string {
	out := []string{}
	if snap.HealthScore < 50 {
		out = append(out, "Crop health is low; review skipped and overdue tasks")
	}
	if wi.Overall == ImpactUnfavorable {
		out = append(out, "Current weather is unfavorable for the crop")
	}
	if snap.Stage == "Harvest Ready" {
		out = append(out, "Crop may be ready for harvest")
	}
	return out
}

func (s *growthSvc) AddMeasurement(farmerID, scheduleID string, req service.MeasurementRequest) (*entities.GrowthData, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperr.Invalid("date must be YYYY-MM-DD")
	}
	if req.Height != nil && *req.Height < 0 {
		return nil, apperr.Invalid("height must not be negative")
	}
	if req.LeafCount != nil && *req.LeafCount < 0 {
		return nil, apperr.Invalid("leaf_count must not be negative")
	}
	if req.HealthScore != nil && (*req.HealthScore < 0 || *req.HealthScore > 100) {
		return nil, apperr.Invalid("health_score must be between 0 and 100")
	}
	sched, err := s.schedules.FindByID(scheduleID, farmerID)
	if err != nil {
		return nil, err
	}
	g, err := s.load(sched)
	if err != nil {
		return nil, err
	}
	applySnapshot(g, estimator.Compute(sched, s.now()))
	g.Measurements = append(g.Measurements, entities.Measurement{
		Date:        date,
		Height:      req.Height,
		LeafCount:   req.LeafCount,
		HealthScore: req.HealthScore,
		Notes:       req.Notes,
	})
	if prev, cur, ok := lastTwoHeights(g.Measurements); ok {
		g.Trends["height"] = trend(prev, cur)
	}
	if err := s.r.Save(g); err != nil {
		return nil, err
	}
	return g, nil
}

func lastTwoHeights(ms []entities.Measurement) (prev, cur float64, ok bool) {
	var found []float64
	for i := len(ms) - 1; i >= 0 && len(found) < 2; i-- {
		if ms[i].Height != nil {
			found = append(found, *ms[i].Height)
		}
	}
	if len(found) < 2 {
		return 0, 0, false
	}
	return found[1], found[0], true
}
