package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"agriverse/entities"
)

// Amount accepts a JSON number or a numeric string such as "1200" or "1,200 kg".
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.ReplaceAll(s, ",", "")
	if f := strings.Fields(s); len(f) > 0 {
		s = f[0]
	}
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

type PhotoRequest struct {
	ImageBase64 string `json:"image_base64"`
	LandID      string `json:"land_id"`
	CropName    string `json:"crop_name"`
}

type PhotoResult struct {
	entities.PhotoAnalysis
	PhotoID    string `json:"photo_id,omitempty"`
	ScheduleID string `json:"schedule_id,omitempty"`
}

type MeasurementRequest struct {
	Date        string   `json:"date"`
	Height      *float64 `json:"height,omitempty"`
	LeafCount   *int     `json:"leaf_count,omitempty"`
	HealthScore *int     `json:"health_score,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type YieldRequest struct {
	ScheduleID           string `json:"schedule_id"`
	CurrentYieldEstimate Amount `json:"current_yield_estimate"`
	TargetYield          Amount `json:"target_yield"`
	Concerns             string `json:"concerns"`
	WeatherConditions    string `json:"weather_conditions"`
	SoilConditions       string `json:"soil_conditions"`
}

type YieldGap struct {
	CurrentVsTarget string  `json:"current_vs_target"`
	PercentageGap   float64 `json:"percentage_gap"`
	Feasibility     string  `json:"feasibility"`
}

type KeyFactor struct {
	Factor      string `json:"factor"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

type YieldRecommendation struct {
	Type           string `json:"type"`
	Action         string `json:"action"`
	Priority       string `json:"priority"`
	ExpectedImpact string `json:"expected_impact"`
	Timeline       string `json:"timeline"`
}

type RiskAssessment struct {
	HighRisks            []string `json:"high_risks"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

type YieldAnalysis struct {
	YieldGap         YieldGap              `json:"yield_gap"`
	KeyFactors       []KeyFactor           `json:"key_factors"`
	Recommendations  []YieldRecommendation `json:"recommendations"`
	RiskAssessment   RiskAssessment        `json:"risk_assessment"`
	OptimizationTips []string              `json:"optimization_tips"`
	Source           string                `json:"source"`
	AnalyzedAt       time.Time             `json:"analyzed_at"`
}

type GrowthService interface {
	// View returns the growth data of a schedule, creating it on first read.
	View(ctx context.Context, farmerID, scheduleID string) (*entities.GrowthData, error)
	AnalyzePhoto(ctx context.Context, farmerID string, req PhotoRequest) (*PhotoResult, error)
	AddMeasurement(farmerID, scheduleID string, req MeasurementRequest) (*entities.GrowthData, error)
	AnalyzeYield(ctx context.Context, farmerID string, req YieldRequest) (*YieldAnalysis, error)
}
