package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/clients"
	"github.com/ecotrack-lk/backend/internal/models"
)

// predictBody is the POST /api/predictions/predict request.
type predictBody struct {
	StationID          int64   `json:"station_id"`
	WaterLevelPrevious float64 `json:"water_level_previous"`
	Rainfall           float64 `json:"rainfall"`
	Trend              float64 `json:"trend"`
}

// Predict handles POST /api/predictions/predict. The station's threshold
// levels are attached server-side and the result is persisted.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	var body predictBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.StationID == 0 {
		respondError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	station, err := s.deps.Flood.FindStationByID(r.Context(), body.StationID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Station not found")
		return
	}

	result, err := s.deps.ML.Predict(r.Context(), clients.PredictRequest{
		Station:            station.Name,
		WaterLevelPrevious: body.WaterLevelPrevious,
		Rainfall:           body.Rainfall,
		Trend:              body.Trend,
		AlertLevel:         station.AlertLevel,
		MinorFloodLevel:    station.MinorFloodLevel,
		MajorFloodLevel:    station.MajorFloodLevel,
	})
	if err != nil {
		logrus.WithError(err).WithField("station_id", body.StationID).Error("Prediction request failed")
		respondError(w, http.StatusBadGateway, "Prediction service unavailable")
		return
	}

	prediction := models.Prediction{
		StationID:      station.ID,
		PredictionDate: time.Now().AddDate(0, 0, 1),
		PredictedLevel: result.PredictedLevel,
		Status:         result.Status,
		Confidence:     result.Confidence,
		MessageEn:      result.MessageEn,
		MessageSi:      result.MessageSi,
	}
	if err := s.deps.Flood.InsertPrediction(r.Context(), prediction); err != nil {
		logrus.WithError(err).WithField("station_id", station.ID).Error("Failed to store prediction")
	}

	respondSuccess(w, http.StatusOK, result)
}

// forecastBody is the POST /api/predictions/forecast request.
type forecastBody struct {
	StationID    int64   `json:"station_id"`
	CurrentLevel float64 `json:"current_level"`
	Days         int     `json:"days"`
}

// Forecast handles POST /api/predictions/forecast, a multi-day outlook.
// Each forecast day is persisted for the station.
func (s *Server) Forecast(w http.ResponseWriter, r *http.Request) {
	var body forecastBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.StationID == 0 {
		respondError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	station, err := s.deps.Flood.FindStationByID(r.Context(), body.StationID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Station not found")
		return
	}

	results, err := s.deps.ML.Forecast(r.Context(), clients.ForecastRequest{
		Station:         station.Name,
		CurrentLevel:    body.CurrentLevel,
		AlertLevel:      station.AlertLevel,
		MinorFloodLevel: station.MinorFloodLevel,
		MajorFloodLevel: station.MajorFloodLevel,
		Days:            body.Days,
	})
	if err != nil {
		logrus.WithError(err).WithField("station_id", body.StationID).Error("Forecast request failed")
		respondError(w, http.StatusBadGateway, "Prediction service unavailable")
		return
	}

	for i, result := range results {
		date, parseErr := time.Parse("2006-01-02", result.Date)
		if parseErr != nil {
			date = time.Now().AddDate(0, 0, i+1)
		}
		prediction := models.Prediction{
			StationID:      station.ID,
			PredictionDate: date,
			PredictedLevel: result.PredictedLevel,
			Status:         result.Status,
			Confidence:     result.Confidence,
			MessageEn:      result.MessageEn,
			MessageSi:      result.MessageSi,
		}
		if err := s.deps.Flood.InsertPrediction(r.Context(), prediction); err != nil {
			logrus.WithError(err).WithField("station_id", station.ID).Error("Failed to store forecast day")
			break
		}
	}

	respondSuccess(w, http.StatusOK, results)
}

// PredictionsByStation handles GET /api/predictions/station/{stationId}?limit=N
func (s *Server) PredictionsByStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "stationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	predictions, err := s.deps.Flood.PredictionsByStation(r.Context(), stationID, limit)
	if err != nil {
		logrus.WithError(err).WithField("station_id", stationID).Error("Failed to list predictions")
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}
	respondSuccess(w, http.StatusOK, predictions)
}

// ImportWaterLevelHistory handles POST /api/predictions/import-history. The
// body is a CSV upload with a header row of
// station_name,date,water_level,rainfall used to backfill model training
// data. Rows referencing unknown stations or with malformed values are
// counted and skipped.
func (s *Server) ImportWaterLevelHistory(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "CSV file upload required (field \"file\")")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Header row.
	if _, err := reader.Read(); err != nil {
		respondError(w, http.StatusBadRequest, "Empty or unreadable CSV")
		return
	}

	// Station names repeat across rows; resolve each once.
	stationIDs := make(map[string]int64)
	imported, skipped := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) < 3 {
			skipped++
			continue
		}

		name := record[0]
		stationID, known := stationIDs[name]
		if !known {
			station, findErr := s.deps.Flood.FindStationByName(r.Context(), name)
			if findErr != nil {
				skipped++
				continue
			}
			stationID = station.ID
			stationIDs[name] = stationID
		}

		date, err := time.Parse("2006-01-02", record[1])
		if err != nil {
			skipped++
			continue
		}
		level, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			skipped++
			continue
		}
		var rainfall float64
		if len(record) > 3 {
			rainfall, _ = strconv.ParseFloat(record[3], 64)
		}

		_, err = s.deps.Flood.InsertWaterLevel(r.Context(), models.WaterLevel{
			StationID:  stationID,
			Datetime:   date,
			WaterLevel: level,
			Rainfall:   rainfall,
			Status:     "Normal",
			Remarks:    "imported",
		})
		if err != nil {
			logrus.WithError(err).WithField("station", name).Error("Failed to import water level row")
			skipped++
			continue
		}
		imported++
	}

	logrus.WithFields(logrus.Fields{"imported": imported, "skipped": skipped}).Info("Water level history import finished")
	respondSuccess(w, http.StatusOK, map[string]int{
		"imported": imported,
		"skipped":  skipped,
	})
}
