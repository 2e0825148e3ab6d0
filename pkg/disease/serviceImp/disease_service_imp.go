package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	"agriverse/pkg/blob"
	repo "agriverse/pkg/disease/repository"
	"agriverse/pkg/disease/service"
	"agriverse/pkg/logger"
)

const (
	sourceAI       = "ai"
	sourceFallback = "fallback"
)

const detectPrompt = `Analyze this image of a %s crop for any diseases or health issues.
Format your response as:
DISEASE: [disease name or "Healthy"]
CONFIDENCE: [0-100]%%
SYMPTOMS: [detailed symptoms]
TREATMENT: [treatment recommendations]
PREVENTION: [prevention measures]`

const planPrompt = `A %s crop was diagnosed with: %s (confidence %.0f%%).
Create an immediate disease management plan of 3 to 6 concrete field tasks.
Reply with ONLY a JSON array of objects shaped as
{"task": "<short name>", "description": "<what to do>", "priority": "High|Medium|Low"}`

var genericAdvice = []string{
	"Isolate plants showing symptoms and remove badly affected leaves",
	"Retake the photo in daylight and try again, or consult a local extension officer",
}

type landFinder interface {
	FindByID(id, farmerID string) (*entities.Land, error)
}

type diseaseSvc struct {
	r     repo.DiseaseRepository
	lands landFinder
	llm   ai.Client
	store blob.Store
	log   *logger.Logger
}

// NewDiseaseService returns the detection service. store may be nil.
func NewDiseaseService(r repo.DiseaseRepository, lands landFinder, llm ai.Client, store blob.Store, log *logger.Logger) service.DiseaseService {
	return &diseaseSvc{r: r, lands: lands, llm: llm, store: store, log: log.With("component", "disease")}
}

func (s *diseaseSvc) Detect(ctx context.Context, farmerID string, req service.DetectRequest) (*entities.DiseaseReport, error) {
	crop := strings.TrimSpace(req.CropName)
	if crop == "" {
		return nil, apperr.Invalid("crop_name is required")
	}
	img, err := ai.DecodeImage(req.ImageBase64)
	if err != nil {
		return nil, apperr.Invalid("image_base64 is not a valid image")
	}
	if req.LandID != "" {
		if _, err := s.lands.FindByID(req.LandID, farmerID); err != nil {
			return nil, err
		}
	}

	rep := &entities.DiseaseReport{ID: uuid.NewString(), FarmerID: farmerID, LandID: req.LandID, CropName: crop}
	if s.store != nil {
		key := fmt.Sprintf("disease/%s/%s%s", farmerID, rep.ID, blob.Ext(img.MIMEType))
		if err := s.store.Put(ctx, key, img.Data, img.MIMEType); err != nil {
			s.log.Warn("disease image upload failed", "report_id", rep.ID, "error", err)
		} else {
			rep.ImageRef = key
		}
	}

	reply, err := s.llm.AnalyzeImage(ctx, fmt.Sprintf(detectPrompt, crop), img)
	if err != nil {
		s.log.Warn("disease detection degraded", "crop", crop, "error", err)
		rep.AIDiagnosis = "Analysis unavailable"
		rep.DiseaseName = "Unknown"
		rep.Confidence = 0
		rep.Recommendations = genericAdvice
		rep.Source = sourceFallback
	} else {
		d := parseDiagnosis(reply)
		rep.AIDiagnosis = reply
		rep.DiseaseName = d.Disease
		rep.Confidence = d.Confidence
		rep.Recommendations = []string{}
		for _, r := range []string{d.Treatment, d.Prevention} {
			if r != "" {
				rep.Recommendations = append(rep.Recommendations, r)
			}
		}
		rep.Source = sourceAI
	}
	if err := s.r.Create(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *diseaseSvc) Reports(farmerID string) ([]entities.DiseaseReport, error) {
	return s.r.ListByFarmer(farmerID)
}

func fallbackPlan(diag string) []service.PlanTask {
	return []service.PlanTask{
		{Task: "Remove Infected Plant Parts", Description: "Cut and destroy leaves and stems showing " + diag + " symptoms; do not compost them", Priority: entities.PriorityHigh},
		{Task: "Apply Recommended Treatment", Description: "Apply a treatment labelled for " + diag + " following the label dose", Priority: entities.PriorityHigh},
		{Task: "Monitor Disease Spread", Description: "Inspect neighbouring plants every two days and record new symptoms", Priority: entities.PriorityMedium},
	}
}

func (s *diseaseSvc) ManagementPlan(ctx context.Context, req service.PlanRequest) (*service.Plan, error) {
	diag := strings.TrimSpace(req.Diagnosis)
	if diag == "" {
		return nil, apperr.Invalid("diagnosis is required")
	}
	crop := strings.TrimSpace(req.CropName)
	if crop == "" {
		crop = "field"
	}
	plan := &service.Plan{Diagnosis: diag}

	reply, err := s.llm.Complete(ctx, "", fmt.Sprintf(planPrompt, crop, diag, req.Confidence))
	if err == nil {
		var tasks []service.PlanTask
		if err = ai.DecodeArray(reply, &tasks); err == nil {
			for _, t := range tasks {
				if strings.TrimSpace(t.Task) == "" {
					continue
				}
				if t.Priority == "" {
					t.Priority = entities.PriorityHigh
				}
				plan.Tasks = append(plan.Tasks, t)
			}
		}
	}
	if len(plan.Tasks) == 0 {
		s.log.Debug("management plan fallback", "diagnosis", diag, "error", err)
		plan.Tasks = fallbackPlan(diag)
		plan.Source = sourceFallback
		return plan, nil
	}
	plan.Source = sourceAI
	return plan, nil
}
