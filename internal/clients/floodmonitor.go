package clients

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ecotrack-lk/backend/internal/models"
)

// gfmsResponse mirrors the fields consumed from the NASA Global Flood
// Monitoring System API.
type gfmsResponse struct {
	FloodIntensity float64 `json:"flood_intensity"`
	FloodDepth     float64 `json:"flood_depth"`
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
	Confidence     float64 `json:"confidence"`
}

// FloodMonitorClient fetches basin flood conditions from NASA GFMS. When no
// token is configured, or the upstream call fails, it falls back to
// simulated data so the dashboard keeps rendering.
type FloodMonitorClient struct {
	httpClient *resty.Client
	token      string
}

// NewFloodMonitorClient creates a GFMS client. An empty token enables
// simulated mode.
func NewFloodMonitorClient(baseURL, token string) *FloodMonitorClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}

	return &FloodMonitorClient{
		httpClient: client,
		token:      token,
	}
}

// FetchBasinStatus returns the current basin flood observation. The note
// explains when the data is simulated rather than live.
func (c *FloodMonitorClient) FetchBasinStatus(ctx context.Context) (*models.FloodObservation, string) {
	if c.token == "" {
		obs := c.simulated("NASA GFMS (Simulated)")
		return obs, "Using simulated data. Set NASA_EARTHDATA_TOKEN for real data."
	}

	var payload gfmsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": fmt.Sprintf("%g", BasinLatitude),
			"lon": fmt.Sprintf("%g", BasinLongitude),
		}).
		SetResult(&payload).
		Get("/api/flood")
	if err != nil || resp.IsError() {
		obs := c.simulated("NASA GFMS (Fallback)")
		if err != nil {
			return obs, "Using fallback data due to API error: " + err.Error()
		}
		return obs, "Using fallback data due to API error: " + resp.Status()
	}

	obs := &models.FloodObservation{
		Location:       BasinName,
		Latitude:       BasinLatitude,
		Longitude:      BasinLongitude,
		FloodIntensity: payload.FloodIntensity,
		FloodDepth:     payload.FloodDepth,
		Status:         payload.Status,
		LastUpdate:     time.Now(),
		Source:         "NASA GFMS",
		Confidence:     payload.Confidence,
	}
	if obs.Status == "" {
		obs.Status = "Normal"
	}
	if obs.Confidence == 0 {
		obs.Confidence = 0.85
	}
	if ts, err := time.Parse(time.RFC3339, payload.Timestamp); err == nil {
		obs.LastUpdate = ts
	}
	return obs, ""
}

func (c *FloodMonitorClient) simulated(source string) *models.FloodObservation {
	return &models.FloodObservation{
		Location:       BasinName,
		Latitude:       BasinLatitude,
		Longitude:      BasinLongitude,
		FloodIntensity: rand.Float64() * 0.3,
		FloodDepth:     rand.Float64() * 0.5,
		Status:         "Normal",
		LastUpdate:     time.Now(),
		Source:         source,
		Confidence:     0.85,
	}
}
