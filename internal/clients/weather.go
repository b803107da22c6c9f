package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ecotrack-lk/backend/internal/models"
)

// Monitored basin location (Kelani Ganga, Colombo).
const (
	BasinName      = "Kelani Ganga Basin"
	BasinLatitude  = 6.9271
	BasinLongitude = 79.8612
)

// openWeatherResponse mirrors the subset of the OpenWeather current-weather
// payload this system stores.
type openWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour   float64 `json:"1h"`
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// WeatherClient fetches current conditions from the OpenWeather API.
type WeatherClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewWeatherClient creates an OpenWeather client.
func NewWeatherClient(baseURL, apiKey string) *WeatherClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &WeatherClient{
		httpClient: client,
		apiKey:     apiKey,
	}
}

// FetchCurrent retrieves the current basin weather and normalizes it into
// a WeatherObservation ready for storage.
func (c *WeatherClient) FetchCurrent(ctx context.Context) (*models.WeatherObservation, error) {
	var payload openWeatherResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%g", BasinLatitude),
			"lon":   fmt.Sprintf("%g", BasinLongitude),
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(&payload).
		Get("/data/2.5/weather")
	if err != nil {
		return nil, fmt.Errorf("openweather request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openweather returned %s", resp.Status())
	}

	obs := &models.WeatherObservation{
		Location:      BasinName,
		Latitude:      payload.Coord.Lat,
		Longitude:     payload.Coord.Lon,
		Temperature:   payload.Main.Temp,
		FeelsLike:     payload.Main.FeelsLike,
		Humidity:      payload.Main.Humidity,
		Pressure:      payload.Main.Pressure,
		WindSpeed:     payload.Wind.Speed,
		WindDirection: payload.Wind.Deg,
		Cloudiness:    payload.Clouds.All,
		Rainfall1h:    payload.Rain.OneHour,
		Rainfall3h:    payload.Rain.ThreeHour,
		RecordedAt:    time.Unix(payload.Dt, 0),
	}
	if len(payload.Weather) > 0 {
		obs.WeatherMain = payload.Weather[0].Main
		obs.WeatherDesc = payload.Weather[0].Description
	}
	return obs, nil
}
