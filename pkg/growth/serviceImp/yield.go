package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"agriverse/pkg/ai"
	"agriverse/pkg/apperr"
	"agriverse/pkg/growth/estimator"
	"agriverse/pkg/growth/service"
)

const yieldPrompt = `Analyse the expected yield of a %s crop.
Days after planting: %d (stage %q). Health score: %d/100. Progress: %.0f%%. Model yield estimate: %d kg/acre.
Tasks: %d of %d done, %d skipped.
Farmer's current yield estimate: %.0f. Target yield: %.0f.
Concerns: %s
Weather conditions: %s
Soil conditions: %s

Reply with ONLY a JSON object shaped as
{"yield_gap": {"current_vs_target": "...", "percentage_gap": <number>, "feasibility": "high|moderate|challenging"},
 "key_factors": [{"factor": "...", "impact": "positive|negative|neutral", "description": "..."}],
 "recommendations": [{"type": "...", "action": "...", "priority": "high|medium|low", "expected_impact": "...", "timeline": "..."}],
 "risk_assessment": {"high_risks": ["..."], "mitigation_strategies": ["..."]},
 "optimization_tips": ["..."]}`

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none reported"
	}
	return s
}

func (s *growthSvc) AnalyzeYield(ctx context.Context, farmerID string, req service.YieldRequest) (*service.YieldAnalysis, error) {
	if req.ScheduleID == "" {
		return nil, apperr.Invalid("schedule_id is required")
	}
	if req.CurrentYieldEstimate < 0 || req.TargetYield < 0 {
		return nil, apperr.Invalid("yields must not be negative")
	}
	sched, err := s.schedules.FindByID(req.ScheduleID, farmerID)
	if err != nil {
		return nil, err
	}
	snap := estimator.Compute(sched, s.now())
	completed, skipped, total := sched.Counts()

	prompt := fmt.Sprintf(yieldPrompt, sched.CropName, snap.DaysElapsed, snap.Stage, snap.HealthScore, snap.Progress,
		snap.YieldPrediction, completed, total, skipped, float64(req.CurrentYieldEstimate), float64(req.TargetYield),
		orNone(req.Concerns), orNone(req.WeatherConditions), orNone(req.SoilConditions))

	var out service.YieldAnalysis
	reply, err := s.llm.Complete(ctx, "", prompt)
	if err == nil {
		err = ai.DecodeObject(reply, &out)
	}
	if err != nil || (len(out.Recommendations) == 0 && len(out.KeyFactors) == 0) {
		s.log.Debug("yield analysis fallback", "schedule_id", sched.ID, "error", err)
		out = fallbackYield(req, snap, skipped, total)
	} else {
		out.Source = sourceAI
	}
	out.AnalyzedAt = s.now().UTC()
	return &out, nil
}

func yieldGap(current, target float64) service.YieldGap {
	if target <= 0 {
		return service.YieldGap{CurrentVsTarget: "no target set", Feasibility: "unknown"}
	}
	gap := max(0, (target-current)/target*100)
	feas := "challenging"
	switch {
	case gap <= 10:
		feas = "high"
	case gap <= 30:
		feas = "moderate"
	}
	return service.YieldGap{
		CurrentVsTarget: fmt.Sprintf("%.0f vs %.0f", current, target),
		PercentageGap:   gap,
		Feasibility:     feas,
	}
}

func fallbackYield(req service.YieldRequest, snap estimator.Snapshot, skipped, total int) service.YieldAnalysis {
	gap := yieldGap(float64(req.CurrentYieldEstimate), float64(req.TargetYield))
	out := service.YieldAnalysis{YieldGap: gap, Source: sourceFallback}

	health := service.KeyFactor{Factor: "Crop health", Impact: "neutral", Description: fmt.Sprintf("Health score is %d/100", snap.HealthScore)}
	switch {
	case snap.HealthScore >= 70:
		health.Impact = "positive"
	case snap.HealthScore < 50:
		health.Impact = "negative"
	}
	out.KeyFactors = append(out.KeyFactors, health)
	if total > 0 {
		f := service.KeyFactor{Factor: "Task completion", Impact: "positive", Description: fmt.Sprintf("%d of %d tasks skipped", skipped, total)}
		if skipped > 0 {
			f.Impact = "negative"
		}
		out.KeyFactors = append(out.KeyFactors, f)
	}
	if req.WeatherConditions != "" {
		out.KeyFactors = append(out.KeyFactors, service.KeyFactor{Factor: "Weather", Impact: "neutral", Description: req.WeatherConditions})
	}
	if req.SoilConditions != "" {
		out.KeyFactors = append(out.KeyFactors, service.KeyFactor{Factor: "Soil", Impact: "neutral", Description: req.SoilConditions})
	}

	if snap.HealthScore < 70 {
		out.Recommendations = append(out.Recommendations, service.YieldRecommendation{
			Type: "protection", Action: "Scout for pests and disease and treat early", Priority: "high",
			ExpectedImpact: "Protects 10-20% of potential yield", Timeline: "This week",
		})
	}
	if skipped > 0 {
		out.Recommendations = append(out.Recommendations, service.YieldRecommendation{
			Type: "management", Action: "Catch up on skipped schedule tasks", Priority: "medium",
			ExpectedImpact: "Keeps the crop on its planned timeline", Timeline: "Next 7 days",
		})
	}
	out.Recommendations = append(out.Recommendations,
		service.YieldRecommendation{
			Type: "nutrition", Action: "Top dress based on a fresh soil test", Priority: "medium",
			ExpectedImpact: "5-10% yield gain", Timeline: "Next 2 weeks",
		},
		service.YieldRecommendation{
			Type: "water", Action: "Keep irrigation steady through flowering and grain fill", Priority: "medium",
			ExpectedImpact: "Avoids stress losses", Timeline: "Ongoing",
		},
	)

	out.RiskAssessment.HighRisks = []string{}
	if snap.HealthScore < 70 {
		out.RiskAssessment.HighRisks = append(out.RiskAssessment.HighRisks, "Crop health is below optimal")
	}
	if gap.PercentageGap > 30 {
		out.RiskAssessment.HighRisks = append(out.RiskAssessment.HighRisks, "Target yield may be out of reach this cycle")
	}
	if req.Concerns != "" {
		out.RiskAssessment.HighRisks = append(out.RiskAssessment.HighRisks, "Reported concern: "+req.Concerns)
	}
	out.RiskAssessment.MitigationStrategies = []string{
		"Inspect the field twice a week",
		"Keep a record of inputs and observations",
	}
	out.OptimizationTips = []string{
		"Record measurements weekly to spot slowdowns early",
		"Use photo analysis after rain to catch disease early",
		"Compare this cycle with earlier ones in the planning history",
	}
	return out
}
