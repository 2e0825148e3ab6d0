package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agriverse/entities"
	"agriverse/pkg/advisor/repository"
	"agriverse/pkg/advisor/service"
	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	"agriverse/pkg/logger"
	"agriverse/pkg/suggest"
)

const (
	sourceAI       = "ai"
	sourceFallback = "fallback"
)

const advisorRole = "You are an experienced agronomist helping small farmers. Answer practically and concisely."

type landFinder interface {
	FindByID(id, farmerID string) (*entities.Land, error)
}

type scheduleReader interface {
	FindByID(id, farmerID string) (*entities.CropSchedule, error)
	ListByLand(farmerID, landID string) ([]entities.CropSchedule, error)
}

type weatherSource interface {
	Current(ctx context.Context, lat, lng float64) entities.WeatherReading
}

type kbSearcher interface {
	Search(query string, k int) ([]entities.KBChunk, error)
}

type cropTable interface {
	Fallback(soilType, season string) []suggest.Suggestion
}

type advisorSvc struct {
	plans     repository.PlantPlanRepository
	lands     landFinder
	schedules scheduleReader
	weather   weatherSource
	llm       ai.Client
	kb        kbSearcher
	crops     cropTable
	log       *logger.Logger
	now       func() time.Time
}

// NewAdvisorService wires the farm advisor. kb may be nil.
func NewAdvisorService(plans repository.PlantPlanRepository, lands landFinder, schedules scheduleReader,
	weather weatherSource, llm ai.Client, kb kbSearcher, crops cropTable, log *logger.Logger) service.AdvisorService {
	return &advisorSvc{
		plans: plans, lands: lands, schedules: schedules, weather: weather,
		llm: llm, kb: kb, crops: crops, log: log.With("component", "advisor"), now: time.Now,
	}
}

func (s *advisorSvc) Chat(ctx context.Context, farmerID string, req service.ChatRequest) (*service.ChatReply, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, apperr.Invalid("message is required")
	}
	var land *entities.Land
	if req.LandID != "" {
		l, err := s.lands.FindByID(req.LandID, farmerID)
		if err != nil {
			return nil, err
		}
		land = l
	}

	prompt := msg
	if land != nil {
		prompt = fmt.Sprintf("Farm context: %s, %.1f acres, %s soil, crops: %s.\n\nQuestion: %s",
			land.Name, land.Size, land.SoilType, strings.Join(land.Crops, ", "), msg)
	}
	reply, err := s.llm.Complete(ctx, advisorRole, prompt)
	if err == nil && strings.TrimSpace(reply) != "" {
		return &service.ChatReply{Response: strings.TrimSpace(reply), Source: sourceAI}, nil
	}
	s.log.Warn("chat degraded", "error", err)
	return &service.ChatReply{Response: staticChat(land), Source: sourceFallback}, nil
}

func staticChat(land *entities.Land) string {
	var b strings.Builder
	b.WriteString("The AI assistant is unavailable right now. ")
	if land != nil && land.SoilType != "" {
		fmt.Fprintf(&b, "For %s soil on %s, keep irrigation regular, scout for pests weekly and follow your crop schedule. ", land.SoilType, land.Name)
	} else {
		b.WriteString("Keep irrigation regular, scout for pests weekly and follow your crop schedule. ")
	}
	b.WriteString("For urgent problems contact your local agricultural extension office.")
	return b.String()
}

func (s *advisorSvc) CreatePlantPlan(ctx context.Context, farmerID string, req service.PlantPlanRequest) (*entities.PlantPlan, error) {
	season := strings.TrimSpace(req.Season)
	if season == "" {
		return nil, apperr.Invalid("season is required")
	}
	land, err := s.lands.FindByID(req.LandID, farmerID)
	if err != nil {
		return nil, err
	}
	crops := make([]string, 0, len(req.PreferredCrops))
	for _, c := range req.PreferredCrops {
		if c = strings.TrimSpace(c); c != "" {
			crops = append(crops, c)
		}
	}

	p := &entities.PlantPlan{FarmerID: farmerID, LandID: land.ID, Season: season, Crops: crops, PlanDetails: req.Goals}
	reply, err := s.llm.Complete(ctx, advisorRole, s.planPrompt(land, season, crops, req.Goals))
	if err == nil && strings.TrimSpace(reply) != "" {
		p.AIRecommendations = strings.TrimSpace(reply)
		p.Source = sourceAI
	} else {
		s.log.Warn("plant plan degraded", "land_id", land.ID, "error", err)
		p.AIRecommendations = s.staticPlan(land, season, crops)
		p.Source = sourceFallback
	}
	if err := s.plans.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *advisorSvc) ListPlantPlans(farmerID string) ([]entities.PlantPlan, error) {
	return s.plans.ListByFarmer(farmerID)
}

func (s *advisorSvc) planPrompt(land *entities.Land, season string, crops []string, goals string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Create a comprehensive farm plant plan for:

Land: %s, %.1f acres, %s soil, current crops: %s
Season: %s
Preferred crops: %s
Goals: %s

Cover the planting schedule, crop rotation, soil preparation, irrigation,
pest and disease prevention, expected yields and market timing.`,
		land.Name, land.Size, land.SoilType, strings.Join(land.Crops, ", "),
		season, strings.Join(crops, ", "), goals)
	if guide := s.guide(strings.Join(crops, " ") + " " + season); guide != "" {
		b.WriteString("\n\nReference notes:\n")
		b.WriteString(guide)
	}
	return b.String()
}

// guide joins up to four knowledge base snippets, capped at 4000 bytes.
func (s *advisorSvc) guide(query string) string {
	if s.kb == nil || strings.TrimSpace(query) == "" {
		return ""
	}
	chunks, err := s.kb.Search(query, 4)
	if err != nil {
		s.log.Debug("kb search failed", "error", err)
		return ""
	}
	var b strings.Builder
	for _, c := range chunks {
		if b.Len() > 4000 {
			break
		}
		b.WriteString("---\n")
		b.WriteString(c.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *advisorSvc) staticPlan(land *entities.Land, season string, crops []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant plan for %s (%s soil, %s season)\n\n", land.Name, land.SoilType, season)
	if len(crops) > 0 {
		fmt.Fprintf(&b, "Preferred crops: %s\n", strings.Join(crops, ", "))
	}
	if s.crops != nil {
		opts := s.crops.Fallback(land.SoilType, season)
		if len(opts) > 4 {
			opts = opts[:4]
		}
		b.WriteString("Crops suited to this soil and season:\n")
		for _, o := range opts {
			fmt.Fprintf(&b, "- %s (%s, water: %s)\n", o.Name, o.Duration, o.WaterRequirement)
		}
	}
	b.WriteString(`
1. Prepare the soil with a deep ploughing and well rotted manure two weeks before sowing.
2. Rotate cereals with legumes to restore nitrogen.
3. Irrigate lightly and often after sowing, then by crop stage.
4. Scout weekly for pests and remove diseased plants early.
5. Time the harvest to local market demand and arrange storage in advance.
`)
	return b.String()
}
