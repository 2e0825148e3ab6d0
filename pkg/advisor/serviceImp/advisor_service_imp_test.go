package serviceImp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/database/dbtest"
	"agriverse/entities"
	"agriverse/pkg/advisor/repositoryImp"
	"agriverse/pkg/advisor/service"
	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	landrepo "agriverse/pkg/land/repositoryImp"
	"agriverse/pkg/logger"
	schedrepo "agriverse/pkg/schedule/repositoryImp"
	"agriverse/pkg/suggest"
	"agriverse/pkg/weather"
)

var now = time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)

type fixedWeather struct{ r entities.WeatherReading }

func (w fixedWeather) Current(context.Context, float64, float64) entities.WeatherReading { return w.r }

type fakeKB struct{ queries []string }

func (f *fakeKB) Search(q string, _ int) ([]entities.KBChunk, error) {
	f.queries = append(f.queries, q)
	return []entities.KBChunk{{Text: "Sow wheat after the first winter rains."}}, nil
}

type fixture struct {
	farmer *entities.User
	land   *entities.Land
	kb     *fakeKB
	svc    func(llm ai.Client, wx entities.WeatherReading) service.AdvisorService
}

func setup(t *testing.T, withSchedule bool) fixture {
	t.Helper()
	db := dbtest.DB(t)
	farmer := dbtest.User(t, db, entities.UserTypeFarmer)
	land := dbtest.Land(t, db, farmer.ID)
	if withSchedule {
		require.NoError(t, db.Create(&entities.CropSchedule{
			FarmerID: farmer.ID, LandID: land.ID, CropName: "Wheat", StartDate: "2025-03-01", Active: true,
			Schedule: []entities.ScheduleTask{
				{ID: "a", Day: 1, Task: "Soil Testing", Priority: "High", Completed: true},
				{ID: "b", Day: 5, Task: "Apply Base Fertilizer", Priority: "High"},
				{ID: "c", Day: 20, Task: "First Weeding", Priority: "Medium"},
				{ID: "d", Day: 110, Task: "Harvesting", Priority: "High"},
			},
		}).Error)
	}
	kb := &fakeKB{}
	table := suggest.New(ai.NewMock(), nil, suggest.DefaultTable(), logger.Nop())
	return fixture{
		farmer: farmer, land: land, kb: kb,
		svc: func(llm ai.Client, wx entities.WeatherReading) service.AdvisorService {
			s := NewAdvisorService(repositoryImp.New(db), landrepo.New(db), schedrepo.New(db),
				fixedWeather{wx}, llm, kb, table, logger.Nop()).(*advisorSvc)
			s.now = func() time.Time { return now }
			return s
		},
	}
}

func TestFarmAnalysis_AIReply(t *testing.T) {
	f := setup(t, true)
	m := ai.NewReplying(`{"current_state_analysis":"Healthy tillering","health_score":88,
		"action_items":[{"title":"Irrigate","priority":"HIGH"},{"title":" "}]}`)
	out, err := f.svc(m, weather.Fallback(now)).FarmAnalysis(context.Background(), f.farmer.ID,
		service.AnalysisRequest{LandID: f.land.ID, CurrentObservations: "yellow tips on some leaves"})
	require.NoError(t, err)

	assert.Equal(t, sourceAI, out.Source)
	assert.Equal(t, 88, out.HealthScore)
	require.Len(t, out.ActionItems, 1)
	assert.Equal(t, "high", out.ActionItems[0].Priority)
	assert.Equal(t, "task", out.ActionItems[0].Icon)
	assert.Equal(t, []string{"Apply Base Fertilizer", "First Weeding", "Harvesting"}, out.NextTasks)
	assert.Equal(t, now, out.AnalysisTimestamp)

	require.Equal(t, 1, m.Calls())
	assert.Contains(t, m.Prompts[0], "Wheat")
	assert.Contains(t, m.Prompts[0], "yellow tips")
	assert.Contains(t, m.Prompts[0], "Partly cloudy")
}

func TestFarmAnalysis_RetriesOnceWithSimplePrompt(t *testing.T) {
	f := setup(t, true)
	m := ai.NewReplying("Sorry, I can only answer in prose.", `{"action_items":[{"title":"Weed","priority":"low"}]}`)
	out, err := f.svc(m, weather.Fallback(now)).FarmAnalysis(context.Background(), f.farmer.ID, service.AnalysisRequest{LandID: f.land.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, sourceAI, out.Source)
	assert.Equal(t, "Weed", out.ActionItems[0].Title)
	assert.NotZero(t, out.HealthScore)
}

func TestFarmAnalysis_StaticAfterRetry(t *testing.T) {
	f := setup(t, true)
	m := &ai.Mock{Err: errors.New("timeout")}
	hot := entities.WeatherReading{Temperature: 38, Humidity: 85, Description: "Humid heat"}
	out, err := f.svc(m, hot).FarmAnalysis(context.Background(), f.farmer.ID, service.AnalysisRequest{LandID: f.land.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, sourceFallback, out.Source)
	assert.GreaterOrEqual(t, out.HealthScore, 30)
	assert.NotEmpty(t, out.Recommendations)
	assert.Contains(t, out.CurrentStateAnalysis, "Wheat")

	titles := map[string]string{}
	for _, it := range out.ActionItems {
		titles[it.Title] = it.Priority
	}
	assert.Equal(t, "high", titles["Apply Base Fertilizer"])
	assert.Equal(t, "medium", titles["First Weeding"])
	assert.Contains(t, titles, "Protect from heat")
	assert.Contains(t, titles, "Watch for fungal disease")
}

func TestFarmAnalysis_NoSchedule(t *testing.T) {
	f := setup(t, false)
	out, err := f.svc(ai.NewMock(), weather.Fallback(now)).FarmAnalysis(context.Background(), f.farmer.ID, service.AnalysisRequest{LandID: f.land.ID})
	require.NoError(t, err)
	assert.Equal(t, sourceFallback, out.Source)
	require.Len(t, out.ActionItems, 1)
	assert.Equal(t, "Plan a crop", out.ActionItems[0].Title)
	assert.Empty(t, out.NextTasks)
}

func TestFarmAnalysis_OtherFarmersLand(t *testing.T) {
	f := setup(t, false)
	_, err := f.svc(ai.NewMock(), weather.Fallback(now)).FarmAnalysis(context.Background(), "stranger", service.AnalysisRequest{LandID: f.land.ID})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestChat(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	m := ai.NewReplying("  Water every third day.  ")
	out, err := f.svc(m, weather.Fallback(now)).Chat(ctx, f.farmer.ID, service.ChatRequest{Message: "How often to water?", LandID: f.land.ID})
	require.NoError(t, err)
	assert.Equal(t, "Water every third day.", out.Response)
	assert.Contains(t, m.Prompts[0], "Loamy")

	out, err = f.svc(ai.NewMock(), weather.Fallback(now)).Chat(ctx, f.farmer.ID, service.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, sourceFallback, out.Source)
	assert.NotEmpty(t, out.Response)

	_, err = f.svc(m, weather.Fallback(now)).Chat(ctx, f.farmer.ID, service.ChatRequest{Message: "  "})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestPlantPlans(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	m := ai.NewReplying("1. Sow wheat in November.")
	p, err := f.svc(m, weather.Fallback(now)).CreatePlantPlan(ctx, f.farmer.ID, service.PlantPlanRequest{
		LandID: f.land.ID, Season: "winter", PreferredCrops: []string{"Wheat", " "}, Goals: "higher yield",
	})
	require.NoError(t, err)
	assert.Equal(t, sourceAI, p.Source)
	assert.Equal(t, []string{"Wheat"}, p.Crops)
	assert.Equal(t, "higher yield", p.PlanDetails)
	assert.Contains(t, m.Prompts[0], "first winter rains")
	require.NotEmpty(t, f.kb.queries)

	p, err = f.svc(ai.NewMock(), weather.Fallback(now)).CreatePlantPlan(ctx, f.farmer.ID, service.PlantPlanRequest{LandID: f.land.ID, Season: "winter"})
	require.NoError(t, err)
	assert.Equal(t, sourceFallback, p.Source)
	assert.Contains(t, p.AIRecommendations, "Barley")

	_, err = f.svc(m, weather.Fallback(now)).CreatePlantPlan(ctx, f.farmer.ID, service.PlantPlanRequest{LandID: f.land.ID})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	list, err := f.svc(m, weather.Fallback(now)).ListPlantPlans(f.farmer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
