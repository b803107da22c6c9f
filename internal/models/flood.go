package models

import "time"

// Station is a river gauging station with its flood threshold levels.
type Station struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	AlertLevel      float64   `json:"alert_level"`
	MinorFloodLevel float64   `json:"minor_flood_level"`
	MajorFloodLevel float64   `json:"major_flood_level"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StationUpdate carries a partial station update; nil fields are left
// unchanged.
type StationUpdate struct {
	Name            *string  `json:"name"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	AlertLevel      *float64 `json:"alert_level"`
	MinorFloodLevel *float64 `json:"minor_flood_level"`
	MajorFloodLevel *float64 `json:"major_flood_level"`
}

// WaterLevel is one gauge reading at a station.
type WaterLevel struct {
	ID          int64     `json:"id"`
	StationID   int64     `json:"station_id"`
	StationName string    `json:"station_name,omitempty"`
	Datetime    time.Time `json:"datetime"`
	WaterLevel  float64   `json:"water_level"` // meters
	Rainfall    float64   `json:"rainfall"`    // mm
	Trend       string    `json:"trend"`       // "rising", "falling", "steady"
	Status      string    `json:"status"`      // "Normal", "Alert", "Minor Flood", "Major Flood"
	Remarks     string    `json:"remarks,omitempty"`
}

// WeatherObservation is one stored OpenWeather snapshot for the basin.
type WeatherObservation struct {
	ID            int64     `json:"id"`
	Location      string    `json:"location"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Cloudiness    float64   `json:"cloudiness"`
	Rainfall1h    float64   `json:"rainfall_1h"`
	Rainfall3h    float64   `json:"rainfall_3h"`
	WeatherMain   string    `json:"weather_main"`
	WeatherDesc   string    `json:"weather_description"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// DailyWeather is a per-day aggregate over the last week of observations.
type DailyWeather struct {
	Date          time.Time `json:"date"`
	AvgTemp       float64   `json:"avg_temp"`
	MaxTemp       float64   `json:"max_temp"`
	MinTemp       float64   `json:"min_temp"`
	AvgHumidity   float64   `json:"avg_humidity"`
	TotalRainfall float64   `json:"total_rainfall"`
	AvgWindSpeed  float64   `json:"avg_wind_speed"`
}

// Prediction is one ML-service water-level prediction persisted per station.
type Prediction struct {
	ID             int64     `json:"id"`
	StationID      int64     `json:"station_id"`
	PredictionDate time.Time `json:"prediction_date"`
	PredictedLevel float64   `json:"predicted_level"`
	Status         string    `json:"status"`
	Confidence     float64   `json:"confidence"`
	MessageEn      string    `json:"message_en"`
	MessageSi      string    `json:"message_si"`
	CreatedAt      time.Time `json:"created_at"`
}

// Alert is a flood warning issued for a station, bilingual by contract.
type Alert struct {
	ID          int64      `json:"id"`
	StationID   int64      `json:"station_id"`
	StationName string     `json:"station_name,omitempty"`
	AlertType   string     `json:"alert_type"`
	Severity    string     `json:"severity"` // "info", "warning", "danger", "critical"
	MessageEn   string     `json:"message_en"`
	MessageSi   string     `json:"message_si"`
	IsActive    bool       `json:"is_active"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// FloodObservation is the normalized shape of external flood-monitoring
// data for the basin, whatever the upstream source.
type FloodObservation struct {
	Location       string    `json:"location"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	FloodIntensity float64   `json:"floodIntensity"`
	FloodDepth     float64   `json:"floodDepth"`
	Status         string    `json:"status"`
	LastUpdate     time.Time `json:"lastUpdate"`
	Source         string    `json:"source"`
	Confidence     float64   `json:"confidence"`
}
