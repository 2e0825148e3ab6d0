package serviceImp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	repo "agriverse/pkg/cycle/repository"
	"agriverse/pkg/cycle/service"
	"agriverse/pkg/growth/estimator"
	"agriverse/pkg/logger"
	"agriverse/pkg/schedule/generator"
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

type cycleSvc struct {
	r       repo.CycleRepository
	lands   landFinder
	weather weatherSource
	gen     taskGenerator
	log     *logger.Logger
	now     func() time.Time
}

func NewCycleService(r repo.CycleRepository, lands landFinder, weather weatherSource, gen taskGenerator, log *logger.Logger) service.CycleService {
	return &cycleSvc{r: r, lands: lands, weather: weather, gen: gen, log: log.With("component", "cycle"), now: time.Now}
}

func (s *cycleSvc) Create(ctx context.Context, farmerID string, req service.CreateRequest) (*service.CreateResult, error) {
	crop := strings.TrimSpace(req.CropName)
	if req.LandID == "" || crop == "" {
		return nil, apperr.Invalid("land_id and crop_name are required")
	}
	if _, err := time.Parse(dateLayout, req.StartDate); err != nil {
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

	var (
		tasks  []entities.CycleTask
		source string
		parent *string
	)
	if req.ParentCycleID != "" {
		p, err := s.r.FindByID(req.ParentCycleID, farmerID)
		if err != nil {
			return nil, err
		}
		parent = &p.ID
		if req.UseAgainOption != service.UseFresh {
			tasks = copyTasks(p.Tasks, req.UseAgainOption == service.UseContinue)
			source = "parent"
		}
	}
	if len(tasks) == 0 {
		res := s.gen.Generate(ctx, generator.Request{CropName: crop, StartDate: req.StartDate, SoilType: soil, Season: req.Season, Weather: &wx})
		tasks = fromGenerated(res.Tasks)
		source = res.Source
	}

	c := &entities.CultivationCycle{
		FarmerID:        farmerID,
		LandID:          land.ID,
		CropName:        crop,
		StartDate:       req.StartDate,
		Status:          entities.CycleActive,
		ParentCycleID:   parent,
		SoilType:        soil,
		Season:          req.Season,
		WeatherSnapshot: datatypes.NewJSONType(wx),
		Notes:           req.Notes,
	}
	seed := &entities.CropSchedule{
		FarmerID:      farmerID,
		LandID:        land.ID,
		CropName:      crop,
		Schedule:      toScheduleTasks(tasks),
		StartDate:     req.StartDate,
		SoilType:      soil,
		Season:        req.Season,
		Source:        source,
		DiseaseAlerts: []entities.DiseaseAlert{},
	}
	estimator.Refresh(seed, s.now())

	sched, err := s.r.CreateVersioned(c, tasks, seed)
	if err != nil {
		return nil, err
	}
	s.log.Info("cycle created", "cycle_id", c.ID, "version", c.CycleVersion, "crop", crop, "tasks", len(tasks), "source", source)
	return &service.CreateResult{CycleID: c.ID, Version: c.CycleVersion, TaskCount: len(tasks), ScheduleID: sched.ID, Source: source}, nil
}

func (s *cycleSvc) Clone(ctx context.Context, farmerID, cycleID string, req service.CloneRequest) (*service.CreateResult, error) {
	src, err := s.r.FindByID(cycleID, farmerID)
	if err != nil {
		return nil, err
	}
	start := req.StartDate
	if start == "" {
		start = s.now().UTC().Format(dateLayout)
	}
	return s.Create(ctx, farmerID, service.CreateRequest{
		LandID:         src.LandID,
		CropName:       src.CropName,
		StartDate:      start,
		SoilType:       src.SoilType,
		Season:         src.Season,
		ParentCycleID:  src.ID,
		UseAgainOption: req.UseAgainOption,
	})
}

func (s *cycleSvc) SetStatus(farmerID, cycleID, status string) (*entities.CultivationCycle, error) {
	switch status {
	case entities.CycleActive, entities.CycleCompleted, entities.CycleCancelled:
	default:
		return nil, apperr.Invalid("status must be active, completed or cancelled")
	}
	c, err := s.r.FindByID(cycleID, farmerID)
	if err != nil {
		return nil, err
	}
	if c.Terminal() && c.Status != status {
		return nil, apperr.Invalid("cycle is %s and cannot become %s", c.Status, status)
	}
	now := s.now().UTC()
	c.Status = status
	c.UpdatedAt = now
	if status == entities.CycleCompleted && c.EndDate == nil {
		c.EndDate = &now
	}
	if err := s.r.UpdateStatus(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cycleSvc) UpdateTask(farmerID, cycleID, taskID, action string) (*entities.CycleTask, error) {
	if action != service.ActionDone && action != service.ActionSkip {
		return nil, apperr.Invalid("action must be done or skip")
	}
	if _, err := s.r.FindByID(cycleID, farmerID); err != nil {
		return nil, err
	}
	t, err := s.r.FindTask(cycleID, taskID)
	if err != nil {
		return nil, err
	}
	if action == service.ActionDone {
		now := s.now().UTC()
		t.Completed, t.Skipped, t.CompletedAt = true, false, &now
	} else {
		t.Completed, t.Skipped, t.CompletedAt = false, true, nil
	}
	if err := s.r.SaveTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *cycleSvc) Get(farmerID, cycleID string) (*entities.CultivationCycle, error) {
	return s.r.FindByID(cycleID, farmerID)
}

func (s *cycleSvc) History(farmerID, landID string) ([]service.HistoryEntry, error) {
	cycles, err := s.r.History(farmerID, landID)
	if err != nil {
		return nil, err
	}
	out := make([]service.HistoryEntry, 0, len(cycles))
	for _, c := range cycles {
		e := service.HistoryEntry{TaskCount: len(c.Tasks)}
		for _, t := range c.Tasks {
			if t.Completed {
				e.CompletedTasks++
			}
			if t.Skipped {
				e.SkippedTasks++
			}
		}
		if e.TaskCount > 0 {
			e.CompletionRate = float64(e.CompletedTasks) / float64(e.TaskCount) * 100
		}
		c.Tasks = nil
		e.CultivationCycle = c
		out = append(out, e)
	}
	return out, nil
}

func copyTasks(src []entities.CycleTask, keepState bool) []entities.CycleTask {
	out := make([]entities.CycleTask, 0, len(src))
	for _, t := range src {
		n := entities.CycleTask{
			Day:         t.Day,
			Phase:       t.Phase,
			Task:        t.Task,
			Description: t.Description,
			Priority:    t.Priority,
		}
		if keepState {
			n.Completed, n.Skipped, n.CompletedAt = t.Completed, t.Skipped, t.CompletedAt
		}
		out = append(out, n)
	}
	return out
}

func fromGenerated(in []generator.Task) []entities.CycleTask {
	out := make([]entities.CycleTask, 0, len(in))
	for _, t := range in {
		out = append(out, entities.CycleTask{Day: t.Day, Phase: t.Phase, Task: t.Task, Description: t.Description, Priority: t.Priority})
	}
	return out
}

func toScheduleTasks(in []entities.CycleTask) []entities.ScheduleTask {
	out := make([]entities.ScheduleTask, 0, len(in))
	for _, t := range in {
		out = append(out, entities.ScheduleTask{
			ID:          uuid.NewString(),
			Day:         t.Day,
			Phase:       t.Phase,
			Task:        t.Task,
			Description: t.Description,
			Priority:    t.Priority,
			Completed:   t.Completed,
			Skipped:     t.Skipped,
			CompletedAt: t.CompletedAt,
		})
	}
	return out
}
