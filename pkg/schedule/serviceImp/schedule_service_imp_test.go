package serviceImp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"agriverse/database/dbtest"
	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	landrepo "agriverse/pkg/land/repositoryImp"
	"agriverse/pkg/logger"
	"agriverse/pkg/schedule/generator"
	"agriverse/pkg/schedule/repositoryImp"
	"agriverse/pkg/schedule/service"
	"agriverse/pkg/weather"
)

func idx(i int) *int { return &i }

type fixedWeather struct{}

func (fixedWeather) Current(context.Context, float64, float64) entities.WeatherReading {
	return weather.Fallback(time.Now())
}

type fixture struct {
	db     *gorm.DB
	svc    *schedSvc
	farmer *entities.User
	land   *entities.Land
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.DB(t)
	farmer := dbtest.User(t, db, entities.UserTypeFarmer)
	land := dbtest.Land(t, db, farmer.ID)
	gen := generator.New(ai.NewMock(), nil, nil, logger.Nop())
	svc := NewScheduleService(repositoryImp.New(db), landrepo.New(db), fixedWeather{}, gen, logger.Nop()).(*schedSvc)
	svc.now = func() time.Time { return time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC) }
	return fixture{db: db, svc: svc, farmer: farmer, land: land}
}

func (f fixture) generate(t *testing.T) *entities.CropSchedule {
	t.Helper()
	s, err := f.svc.Generate(context.Background(), f.farmer.ID, service.GenerateRequest{LandID: f.land.ID, CropName: "Wheat", StartDate: "2025-03-01"})
	require.NoError(t, err)
	return s
}

func TestGenerate_FallbackWhenAIUnavailable(t *testing.T) {
	f := setup(t)
	s := f.generate(t)

	require.Len(t, s.Schedule, 16)
	first := s.Schedule[0]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Preparation", first.Phase)
	assert.Equal(t, "Soil Testing", first.Task)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, generator.SourceFallback, s.Source)
	assert.Equal(t, "Loamy", s.SoilType)
	assert.False(t, s.Active)
	assert.Equal(t, 10, s.DaysElapsed)
	assert.Equal(t, "Vegetative Growth", s.CurrentStage)
	assert.Equal(t, "Soil Testing", s.NextAction)
}

func TestGenerate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, f.farmer.ID, service.GenerateRequest{LandID: f.land.ID, CropName: "Wheat", StartDate: "01/03/2025"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	_, err = f.svc.Generate(ctx, f.farmer.ID, service.GenerateRequest{LandID: f.land.ID})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	other := dbtest.User(t, f.db, entities.UserTypeFarmer)
	_, err = f.svc.Generate(ctx, other.ID, service.GenerateRequest{LandID: f.land.ID, CropName: "Wheat"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCheckExisting(t *testing.T) {
	f := setup(t)
	got, err := f.svc.CheckExisting(f.farmer.ID, f.land.ID, "Wheat")
	require.NoError(t, err)
	assert.Nil(t, got)

	s := f.generate(t)
	got, err = f.svc.CheckExisting(f.farmer.ID, f.land.ID, "Wheat")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
}

func TestActivate_FreshResetsAndKeepsSingleActive(t *testing.T) {
	f := setup(t)
	other := &entities.CropSchedule{FarmerID: f.farmer.ID, LandID: f.land.ID, CropName: "Rice", Active: true}
	require.NoError(t, f.db.Create(other).Error)

	s := f.generate(t)
	_, err := f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(0), Action: "done"})
	require.NoError(t, err)
	_, err = f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(1), Action: "skip"})
	require.NoError(t, err)

	cont, err := f.svc.Activate(f.farmer.ID, service.ActivateRequest{LandID: f.land.ID, CropName: "Wheat", ActivationOption: "continue"})
	require.NoError(t, err)
	assert.True(t, cont.Schedule[0].Completed)

	fresh, err := f.svc.Activate(f.farmer.ID, service.ActivateRequest{LandID: f.land.ID, CropName: "Wheat", ActivationOption: "fresh"})
	require.NoError(t, err)
	assert.True(t, fresh.Active)

	stored, err := f.svc.Get(f.farmer.ID, s.ID)
	require.NoError(t, err)
	for _, tk := range stored.Schedule {
		assert.False(t, tk.Completed)
		assert.False(t, tk.Skipped)
		assert.Nil(t, tk.CompletedAt)
	}

	var active []entities.CropSchedule
	require.NoError(t, f.db.Where("land_id = ? AND active = ?", f.land.ID, true).Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, s.ID, active[0].ID)
}

func TestActivate_Errors(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Activate(f.farmer.ID, service.ActivateRequest{LandID: f.land.ID, CropName: "Wheat", ActivationOption: "restart"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	_, err = f.svc.Activate(f.farmer.ID, service.ActivateRequest{LandID: f.land.ID, CropName: "Wheat"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestTaskAction_DoneAndSkipAreExclusive(t *testing.T) {
	f := setup(t)
	s := f.generate(t)

	res, err := f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(2), Action: "done"})
	require.NoError(t, err)
	tk := res.Schedule.Schedule[2]
	assert.True(t, tk.Completed)
	assert.False(t, tk.Skipped)
	assert.NotNil(t, tk.CompletedAt)
	assert.False(t, res.Removed)

	res, err = f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(2), Action: "skip"})
	require.NoError(t, err)
	tk = res.Schedule.Schedule[2]
	assert.False(t, tk.Completed)
	assert.True(t, tk.Skipped)
	assert.Nil(t, tk.CompletedAt)
	require.NotNil(t, res.Schedule.HealthScore)
	assert.Equal(t, "Soil Testing", res.Schedule.NextAction)

	_, err = f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(16), Action: "done"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	_, err = f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(0), Action: "undo"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestTaskAction_MissingIndexLeavesScheduleUntouched(t *testing.T) {
	f := setup(t)
	s := f.generate(t)
	_, err := f.svc.InjectDiseaseTasks(f.farmer.ID, service.InjectRequest{
		ScheduleID: s.ID,
		Tasks:      []service.DiseaseTask{{Task: "Remove infected leaves"}},
		Diagnosis:  "Leaf rust",
	})
	require.NoError(t, err)
	before, err := f.svc.Get(f.farmer.ID, s.ID)
	require.NoError(t, err)

	var req service.TaskActionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"action":"done"}`), &req))
	_, err = f.svc.TaskAction(f.farmer.ID, s.ID, req)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	after, err := f.svc.Get(f.farmer.ID, s.ID)
	require.NoError(t, err)
	require.Len(t, after.Schedule, len(before.Schedule))
	assert.Equal(t, "Remove infected leaves", after.Schedule[0].Task)
	for _, tk := range after.Schedule {
		assert.False(t, tk.Completed)
		assert.False(t, tk.Skipped)
	}
}

func TestInjectDiseaseTasks_PrependAndRemoveOnAction(t *testing.T) {
	f := setup(t)
	s := f.generate(t)
	m := len(s.Schedule)

	got, err := f.svc.InjectDiseaseTasks(f.farmer.ID, service.InjectRequest{
		ScheduleID: s.ID,
		Tasks:      []service.DiseaseTask{{Task: "Remove infected leaves"}, {Task: "Apply fungicide", Description: "Copper spray"}},
		Diagnosis:  "Leaf rust",
		Confidence: 87,
	})
	require.NoError(t, err)
	require.Len(t, got.Schedule, m+2)
	assert.Equal(t, "Remove infected leaves", got.Schedule[0].Task)
	assert.Equal(t, "Apply fungicide", got.Schedule[1].Task)
	for _, tk := range got.Schedule[:2] {
		assert.Equal(t, 0, tk.Day)
		assert.Equal(t, "Disease Management", tk.Phase)
		assert.Equal(t, "High", tk.Priority)
		assert.True(t, tk.Transient())
		assert.Equal(t, "Leaf rust", tk.Diagnosis)
	}
	require.Len(t, got.DiseaseAlerts, 1)
	assert.Equal(t, 2, got.DiseaseAlerts[0].TasksAdded)
	assert.Equal(t, "Remove infected leaves", got.NextAction)

	res, err := f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(1), Action: "skip"})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	require.Len(t, res.Schedule.Schedule, m+1)
	assert.Equal(t, "Remove infected leaves", res.Schedule.Schedule[0].Task)

	res, err = f.svc.TaskAction(f.farmer.ID, s.ID, service.TaskActionRequest{TaskIndex: idx(0), Action: "done"})
	require.NoError(t, err)
	assert.True(t, res.Removed)

	stored, err := f.svc.Get(f.farmer.ID, s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Schedule, m)
	assert.Equal(t, "Soil Testing", stored.Schedule[0].Task)
}

func TestInjectDiseaseTasks_Validation(t *testing.T) {
	f := setup(t)
	s := f.generate(t)
	_, err := f.svc.InjectDiseaseTasks(f.farmer.ID, service.InjectRequest{ScheduleID: s.ID})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	_, err = f.svc.InjectDiseaseTasks(f.farmer.ID, service.InjectRequest{ScheduleID: "missing", Tasks: []service.DiseaseTask{{Task: "x"}}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestExport(t *testing.T) {
	f := setup(t)
	s := f.generate(t)
	data, name, err := f.svc.Export(f.farmer.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "wheat-schedule-2025-03-01.xlsx", name)

	x, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 17)
	assert.Equal(t, []string{"1", "2025-03-02", "Preparation", "Soil Testing"}, rows[1][:4])
	assert.Equal(t, "pending", rows[1][6])
}
