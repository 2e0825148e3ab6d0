package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agriverse/entities"
	"agriverse/pkg/advisor/service"
	"agriverse/pkg/ai"
	"agriverse/pkg/growth/estimator"
)

const analysisShape = `{"current_state_analysis": "...", "health_score": <0-100>, "health_score_analysis": "...",
 "risk_assessment": "...", "yield_estimation": "...", "next_tasks": ["..."], "recommendations": ["..."],
 "action_items": [{"title": "...", "description": "...", "priority": "high|medium|low", "icon": "..."}]}`

type farmState struct {
	land    *entities.Land
	sched   *entities.CropSchedule
	snap    estimator.Snapshot
	weather entities.WeatherReading
	pending []entities.ScheduleTask
	req     service.AnalysisRequest
}

func (s *advisorSvc) FarmAnalysis(ctx context.Context, farmerID string, req service.AnalysisRequest) (*service.FarmAnalysis, error) {
	st, err := s.loadState(ctx, farmerID, req)
	if err != nil {
		return nil, err
	}

	out, err := s.askAnalysis(ctx, fullAnalysisPrompt(st))
	if err != nil {
		s.log.Warn("farm analysis failed, retrying with a simplified prompt", "land_id", st.land.ID, "error", err)
		out, err = s.askAnalysis(ctx, simpleAnalysisPrompt(st))
	}
	if err != nil {
		s.log.Warn("farm analysis degraded", "land_id", st.land.ID, "error", err)
		out = staticAnalysis(st)
	} else {
		normalizeAnalysis(out, st)
	}
	out.AnalysisTimestamp = s.now().UTC()
	return out, nil
}

func (s *advisorSvc) loadState(ctx context.Context, farmerID string, req service.AnalysisRequest) (*farmState, error) {
	land, err := s.lands.FindByID(req.LandID, farmerID)
	if err != nil {
		return nil, err
	}
	st := &farmState{land: land, req: req}

	if req.ScheduleID != "" {
		if st.sched, err = s.schedules.FindByID(req.ScheduleID, farmerID); err != nil {
			return nil, err
		}
	} else {
		list, err := s.schedules.ListByLand(farmerID, land.ID)
		if err != nil {
			return nil, err
		}
		for i := range list {
			if list[i].Active {
				st.sched = &list[i]
				break
			}
		}
		if st.sched == nil && len(list) > 0 {
			st.sched = &list[0]
		}
	}
	if st.sched != nil {
		st.snap = estimator.Compute(st.sched, s.now())
		for _, t := range st.sched.Schedule {
			if !t.Completed && !t.Skipped {
				st.pending = append(st.pending, t)
			}
		}
	}
	st.weather = s.weather.Current(ctx, land.Location.Lat, land.Location.Lng)
	return st, nil
}

var errEmptyAnalysis = errors.New("analysis reply had no usable content")

func (s *advisorSvc) askAnalysis(ctx context.Context, prompt string) (*service.FarmAnalysis, error) {
	reply, err := s.llm.Complete(ctx, advisorRole, prompt)
	if err != nil {
		return nil, err
	}
	var out service.FarmAnalysis
	if err := ai.DecodeObject(reply, &out); err != nil {
		return nil, err
	}
	if len(out.ActionItems) == 0 && strings.TrimSpace(out.CurrentStateAnalysis) == "" {
		return nil, errEmptyAnalysis
	}
	return &out, nil
}

func fullAnalysisPrompt(st *farmState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this farm and reply with ONLY a JSON object shaped as\n%s\n\n", analysisShape)
	fmt.Fprintf(&b, "Land: %s, %.1f acres, %s soil\n", st.land.Name, st.land.Size, st.land.SoilType)
	if st.sched != nil {
		fmt.Fprintf(&b, "Crop: %s, started %s, stage %s, day %d, progress %.0f%%, health %d\n",
			st.sched.CropName, st.sched.StartDate, st.snap.Stage, st.snap.DaysElapsed, st.snap.Progress, st.snap.HealthScore)
		fmt.Fprintf(&b, "Tasks: %d total, %d pending\n", len(st.sched.Schedule), len(st.pending))
		for i, t := range st.pending {
			if i == 10 {
				break
			}
			fmt.Fprintf(&b, "- day %d: %s (%s)\n", t.Day, t.Task, t.Priority)
		}
	} else {
		b.WriteString("No crop schedule yet.\n")
	}
	fmt.Fprintf(&b, "Weather: %.1f C, %.0f%% humidity, wind %.1f m/s, %s\n",
		st.weather.Temperature, st.weather.Humidity, st.weather.WindSpeed, st.weather.Description)
	for _, kv := range [][2]string{
		{"Observations", st.req.CurrentObservations},
		{"Pesticide usage", st.req.PesticideUsage},
		{"Notes", st.req.AdditionalNotes},
	} {
		if strings.TrimSpace(kv[1]) != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	return b.String()
}

func simpleAnalysisPrompt(st *farmState) string {
	crop := "an unplanned field"
	if st.sched != nil {
		crop = st.sched.CropName
	}
	return fmt.Sprintf("Give 3 farming action items for %s on %s soil at %.0f C. Reply with ONLY a JSON object shaped as\n%s",
		crop, st.land.SoilType, st.weather.Temperature, analysisShape)
}

func normalizeAnalysis(a *service.FarmAnalysis, st *farmState) {
	if a.HealthScore <= 0 || a.HealthScore > 100 {
		a.HealthScore = st.snap.HealthScore
	}
	items := a.ActionItems[:0]
	for _, it := range a.ActionItems {
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		it.Priority = normPriority(it.Priority)
		if it.Icon == "" {
			it.Icon = "task"
		}
		items = append(items, it)
	}
	a.ActionItems = items
	if len(a.ActionItems) == 0 {
		a.ActionItems = staticAnalysis(st).ActionItems
	}
	if a.NextTasks == nil {
		a.NextTasks = nextTasks(st.pending)
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	a.Source = sourceAI
}

func normPriority(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case "high", "medium", "low":
		return p
	}
	return "medium"
}

func nextTasks(pending []entities.ScheduleTask) []string {
	out := []string{}
	for i, t := range pending {
		if i == 3 {
			break
		}
		out = append(out, t.Task)
	}
	return out
}

func staticAnalysis(st *farmState) *service.FarmAnalysis {
	a := &service.FarmAnalysis{NextTasks: nextTasks(st.pending), Source: sourceFallback}
	if st.sched == nil {
		a.CurrentStateAnalysis = fmt.Sprintf("%s has no crop schedule yet.", st.land.Name)
		a.HealthScoreAnalysis = "No schedule to score."
		a.RiskAssessment = "Unknown until a crop is planned."
		a.YieldEstimation = "Not available without a crop schedule."
		a.Recommendations = []string{"Pick a crop from the suggestions for your soil and season"}
		a.ActionItems = []service.ActionItem{{
			Title: "Plan a crop", Description: "Generate a schedule for " + st.land.Name, Priority: "high", Icon: "calendar",
		}}
		return a
	}

	snap := st.snap
	a.HealthScore = snap.HealthScore
	a.CurrentStateAnalysis = fmt.Sprintf("%s on %s is in the %s stage at day %d, %.0f%% through its schedule.",
		st.sched.CropName, st.land.Name, snap.Stage, snap.DaysElapsed, snap.Progress)
	a.HealthScoreAnalysis = fmt.Sprintf("Score %d reflects task completion and crop age.", snap.HealthScore)
	switch {
	case snap.HealthScore >= 80:
		a.RiskAssessment = "Low risk: care is on track."
	case snap.HealthScore >= 60:
		a.RiskAssessment = "Moderate risk: some care tasks are behind."
	default:
		a.RiskAssessment = "High risk: many care tasks are missed."
	}
	a.YieldEstimation = fmt.Sprintf("About %d%% of potential yield expected.", snap.YieldPrediction)
	a.Recommendations = estimator.FallbackRecommendations(snap.DaysElapsed, snap.HealthScore)

	for i, t := range st.pending {
		if i == 3 {
			break
		}
		a.ActionItems = append(a.ActionItems, service.ActionItem{
			Title: t.Task, Description: t.Description, Priority: normPriority(t.Priority), Icon: "task",
		})
	}
	if st.weather.Temperature > 35 {
		a.ActionItems = append(a.ActionItems, service.ActionItem{
			Title: "Protect from heat", Description: "Irrigate in the early morning and mulch to keep soil cool", Priority: "high", Icon: "sun",
		})
	}
	if st.weather.Humidity > 80 {
		a.ActionItems = append(a.ActionItems, service.ActionItem{
			Title: "Watch for fungal disease", Description: "High humidity favours fungal spread; inspect leaves", Priority: "medium", Icon: "droplet",
		})
	}
	if snap.HealthScore < 70 {
		a.ActionItems = append(a.ActionItems, service.ActionItem{
			Title: "Run a disease scan", Description: "Photograph affected leaves and run disease detection", Priority: "high", Icon: "alert",
		})
	}
	if len(a.ActionItems) == 0 {
		a.ActionItems = []service.ActionItem{{
			Title: "Record a growth measurement", Description: "Log plant height to keep the growth trend current", Priority: "low", Icon: "ruler",
		}}
	}
	return a
}
