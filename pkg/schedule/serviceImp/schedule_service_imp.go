package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/growth/estimator"
	"agriverse/pkg/logger"
	"agriverse/pkg/schedule/generator"
	repo "agriverse/pkg/schedule/repository"
	"agriverse/pkg/schedule/service"
)

const dateLayout = "2006-01-02"

type landFinder interface {
	FindByID(id, farmerID string) (*entities.Land, error)
}

type weatherSource interface {
	Current(ctx context.Context, lat, lng float64) entities.WeatherReading
}

type taskGenerator interface {
	Generate(ctx context.Context, req generator.Request) generator.Result
}

type schedSvc struct {
	r       repo.ScheduleRepository
	lands   landFinder
	weather weatherSource
	gen     taskGenerator
	log     *logger.Logger
	now     func() time.Time
}

func NewScheduleService(r repo.ScheduleRepository, lands landFinder, weather weatherSource, gen taskGenerator, log *logger.Logger) service.ScheduleService {
	return &schedSvc{r: r, lands: lands, weather: weather, gen: gen, log: log, now: time.Now}
}

// toScheduleTasks assigns ids to generated tasks.
func toScheduleTasks(in []generator.Task) []entities.ScheduleTask {
	out := make([]entities.ScheduleTask, 0, len(in))
	for _, t := range in {
		out = append(out, entities.ScheduleTask{
			ID:          uuid.NewString(),
			Day:         t.Day,
			Phase:       t.Phase,
			Task:        t.Task,
			Description: t.Description,
			Priority:    t.Priority,
		})
	}
	return out
}

func (s *schedSvc) Generate(ctx context.Context, farmerID string, req service.GenerateRequest) (*entities.CropSchedule, error) {
	crop := strings.TrimSpace(req.CropName)
	if req.LandID == "" || crop == "" {
		return nil, apperr.Invalid("land_id and crop_name are required")
	}
	start := req.StartDate
	if start == "" {
		start = s.now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, start); err != nil {
		return nil, apperr.Invalid("start_date must be YYYY-MM-DD")
	}
	land, err := s.lands.FindByID(req.LandID, farmerID)
	if err != nil {
		return nil, err
	}
	soil := req.SoilType
	if soil == "" {
		soil = land.SoilType
	}
	wx := s.weather.Current(ctx, land.Location.Lat, land.Location.Lng)
	res := s.gen.Generate(ctx, generator.Request{CropName: crop, StartDate: start, SoilType: soil, Season: req.Season, Weather: &wx})

	sched := &entities.CropSchedule{
		FarmerID:      farmerID,
		LandID:        land.ID,
		CropName:      crop,
		Schedule:      toScheduleTasks(res.Tasks),
		StartDate:     start,
		SoilType:      soil,
		Season:        req.Season,
		Source:        res.Source,
		DiseaseAlerts: []entities.DiseaseAlert{},
	}
	estimator.Refresh(sched, s.now())
	if err := s.r.Create(sched); err != nil {
		return nil, err
	}
	s.log.Info("schedule generated", "schedule_id", sched.ID, "crop", crop, "tasks", len(sched.Schedule), "source", res.Source)
	return sched, nil
}

func (s *schedSvc) CheckExisting(farmerID, landID, cropName string) (*entities.CropSchedule, error) {
	if landID == "" || strings.TrimSpace(cropName) == "" {
		return nil, apperr.Invalid("land_id and crop_name are required")
	}
	sched, err := s.r.Latest(farmerID, landID, strings.TrimSpace(cropName))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return sched, err
}

func (s *schedSvc) Activate(farmerID string, req service.ActivateRequest) (*entities.CropSchedule, error) {
	opt := req.ActivationOption
	if opt == "" {
		opt = service.ActivateContinue
	}
	if opt != service.ActivateFresh && opt != service.ActivateContinue {
		return nil, apperr.Invalid("activation_option must be fresh or continue")
	}
	if req.LandID == "" || strings.TrimSpace(req.CropName) == "" {
		return nil, apperr.Invalid("land_id and crop_name are required")
	}
	sched, err := s.r.Latest(farmerID, req.LandID, strings.TrimSpace(req.CropName))
	if err != nil {
		return nil, err
	}
	if opt == service.ActivateFresh {
		for i := range sched.Schedule {
			sched.Schedule[i].Completed = false
			sched.Schedule[i].Skipped = false
			sched.Schedule[i].CompletedAt = nil
		}
	}
	estimator.Refresh(sched, s.now())
	if err := s.r.Activate(sched); err != nil {
		return nil, err
	}
	s.log.Info("schedule activated", "schedule_id", sched.ID, "land_id", sched.LandID, "option", opt)
	return sched, nil
}

func (s *schedSvc) ListByLand(farmerID, landID string) ([]entities.CropSchedule, error) {
	return s.r.ListByLand(farmerID, landID)
}

func (s *schedSvc) Get(farmerID, id string) (*entities.CropSchedule, error) {
	sched, err := s.r.FindByID(id, farmerID)
	if err != nil {
		return nil, err
	}
	estimator.Refresh(sched, s.now())
	return sched, nil
}

func (s *schedSvc) InjectDiseaseTasks(farmerID string, req service.InjectRequest) (*entities.CropSchedule, error) {
	if req.ScheduleID == "" {
		return nil, apperr.Invalid("schedule_id is required")
	}
	if len(req.Tasks) == 0 {
		return nil, apperr.Invalid("disease_tasks must not be empty")
	}
	sched, err := s.r.FindByID(req.ScheduleID, farmerID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	injected := make([]entities.ScheduleTask, 0, len(req.Tasks)+len(sched.Schedule))
	for _, dt := range req.Tasks {
		name := strings.TrimSpace(dt.Task)
		if name == "" {
			name = "Disease Control"
		}
		injected = append(injected, entities.ScheduleTask{
			ID:             uuid.NewString(),
			Day:            0,
			Phase:          entities.PhaseDiseaseManagement,
			Task:           name,
			Description:    dt.Description,
			Priority:       entities.PriorityHigh,
			DiseaseRelated: true,
			Temporary:      true,
			Diagnosis:      req.Diagnosis,
			Confidence:     req.Confidence,
			InjectedAt:     &now,
		})
	}
	sched.Schedule = append(injected, sched.Schedule...)
	sched.DiseaseAlerts = append(sched.DiseaseAlerts, entities.DiseaseAlert{
		Diagnosis:  req.Diagnosis,
		Confidence: req.Confidence,
		TasksAdded: len(req.Tasks),
		Timestamp:  now,
	})
	estimator.Refresh(sched, now)
	if err := s.r.Save(sched); err != nil {
		return nil, err
	}
	s.log.Info("disease tasks injected", "schedule_id", sched.ID, "tasks", len(req.Tasks), "diagnosis", req.Diagnosis)
	return sched, nil
}

func (s *schedSvc) TaskAction(farmerID, scheduleID string, req service.TaskActionRequest) (*service.TaskActionResult, error) {
	if req.Action != service.ActionDone && req.Action != service.ActionSkip {
		return nil, apperr.Invalid("action must be done or skip")
	}
	if req.TaskIndex == nil {
		return nil, apperr.Invalid("task_index is required")
	}
	i := *req.TaskIndex
	sched, err := s.r.FindByID(scheduleID, farmerID)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(sched.Schedule) {
		return nil, apperr.Invalid("task_index %d out of range", i)
	}
	now := s.now().UTC()
	removed := false
	if sched.Schedule[i].Transient() {
		sched.Schedule = append(sched.Schedule[:i], sched.Schedule[i+1:]...)
		removed = true
	} else {
		t := &sched.Schedule[i]
		if req.Action == service.ActionDone {
			t.Completed, t.Skipped, t.CompletedAt = true, false, &now
		} else {
			t.Completed, t.Skipped, t.CompletedAt = false, true, nil
		}
	}
	estimator.Refresh(sched, now)
	if err := s.r.Save(sched); err != nil {
		return nil, err
	}
	return &service.TaskActionResult{Schedule: sched, Removed: removed}, nil
}

func (s *schedSvc) Export(farmerID, id string) ([]byte, string, error) {
	sched, err := s.r.FindByID(id, farmerID)
	if err != nil {
		return nil, "", err
	}
	if len(sched.Schedule) == 0 {
		return nil, "", apperr.Invalid("schedule has no tasks")
	}
	data, err := renderWorkbook(sched)
	if err != nil {
		return nil, "", apperr.Internal("export schedule", err)
	}
	name := strings.ToLower(strings.ReplaceAll(sched.CropName, " ", "-"))
	return data, fmt.Sprintf("%s-schedule-%s.xlsx", name, sched.StartDate), nil
}
