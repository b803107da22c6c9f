package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PredictRequest is the single-day prediction request the ML microservice
// accepts.
type PredictRequest struct {
	Station            string  `json:"station"`
	WaterLevelPrevious float64 `json:"water_level_previous"`
	Rainfall           float64 `json:"rainfall"`
	Trend              float64 `json:"trend"`
	AlertLevel         float64 `json:"alert_level"`
	MinorFloodLevel    float64 `json:"minor_flood_level"`
	MajorFloodLevel    float64 `json:"major_flood_level"`
}

// ForecastRequest asks the ML microservice for a multi-day outlook.
type ForecastRequest struct {
	Station         string  `json:"station"`
	CurrentLevel    float64 `json:"current_level"`
	AlertLevel      float64 `json:"alert_level"`
	MinorFloodLevel float64 `json:"minor_flood_level"`
	MajorFloodLevel float64 `json:"major_flood_level"`
	Days            int     `json:"days"`
}

// PredictionResult is one predicted day as returned by the ML microservice.
// The model itself is a black box; this is only its wire contract.
type PredictionResult struct {
	Date           string  `json:"date,omitempty"`
	PredictedLevel float64 `json:"predicted_level"`
	Status         string  `json:"status"`
	Confidence     float64 `json:"confidence"`
	MessageEn      string  `json:"message_en"`
	MessageSi      string  `json:"message_si"`
}

// MLClient calls the flood-prediction microservice.
type MLClient struct {
	httpClient *resty.Client
}

// NewMLClient creates a prediction-service client.
func NewMLClient(baseURL string) *MLClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &MLClient{httpClient: client}
}

// Predict requests a next-day water-level prediction for one station.
func (c *MLClient) Predict(ctx context.Context, req PredictRequest) (*PredictionResult, error) {
	var result PredictionResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("ml service predict failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml service returned %s", resp.Status())
	}
	return &result, nil
}

// Forecast requests a multi-day outlook for one station. Days defaults to
// 7 server-side when zero.
func (c *MLClient) Forecast(ctx context.Context, req ForecastRequest) ([]PredictionResult, error) {
	if req.Days <= 0 {
		req.Days = 7
	}
	var results []PredictionResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&results).
		Post("/forecast")
	if err != nil {
		return nil, fmt.Errorf("ml service forecast failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml service returned %s", resp.Status())
	}
	return results, nil
}
