package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/db"
	"github.com/ecotrack-lk/backend/internal/models"
)

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

// ListStations handles GET /api/stations
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.deps.Flood.ListStations(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list stations")
		respondError(w, http.StatusInternalServerError, "Failed to fetch stations")
		return
	}
	respondSuccess(w, http.StatusOK, stations)
}

// GetStation handles GET /api/stations/{id}
func (s *Server) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	station, err := s.deps.Flood.FindStationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Station not found")
			return
		}
		logrus.WithError(err).Error("Failed to fetch station")
		respondError(w, http.StatusInternalServerError, "Failed to fetch station")
		return
	}
	respondSuccess(w, http.StatusOK, station)
}

// GetStationByName handles GET /api/stations/name/{name}
func (s *Server) GetStationByName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	station, err := s.deps.Flood.FindStationByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Station not found")
			return
		}
		logrus.WithError(err).Error("Failed to fetch station")
		respondError(w, http.StatusInternalServerError, "Failed to fetch station")
		return
	}
	respondSuccess(w, http.StatusOK, station)
}

// UpdateStation handles PUT /api/stations/{id}. Only the provided fields
// change.
func (s *Server) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}

	var upd models.StationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	station, err := s.deps.Flood.UpdateStation(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Station not found")
			return
		}
		logrus.WithError(err).WithField("station_id", id).Error("Failed to update station")
		respondError(w, http.StatusInternalServerError, "Failed to update station")
		return
	}
	respondSuccess(w, http.StatusOK, station)
}

// LatestWaterLevels handles GET /api/water-levels/latest, one newest reading
// per station.
func (s *Server) LatestWaterLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.deps.Flood.LatestWaterLevels(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch latest water levels")
		respondError(w, http.StatusInternalServerError, "Failed to fetch water levels")
		return
	}
	respondSuccess(w, http.StatusOK, levels)
}

// WaterLevelsByStation handles GET /api/water-levels/station/{stationId}
// with limit/offset/start_date/end_date query parameters.
func (s *Server) WaterLevelsByStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "stationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}

	q := db.WaterLevelQuery{}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.StartDate = &t
		}
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.EndDate = &t
		}
	}

	levels, err := s.deps.Flood.WaterLevelsByStation(r.Context(), stationID, q)
	if err != nil {
		logrus.WithError(err).WithField("station_id", stationID).Error("Failed to fetch water levels")
		respondError(w, http.StatusInternalServerError, "Failed to fetch water levels")
		return
	}
	respondSuccess(w, http.StatusOK, levels)
}

// WaterLevelHistory handles GET /api/water-levels/history/{stationId}?days=N
func (s *Server) WaterLevelHistory(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "stationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	levels, err := s.deps.Flood.WaterLevelHistory(r.Context(), stationID, days)
	if err != nil {
		logrus.WithError(err).WithField("station_id", stationID).Error("Failed to fetch water level history")
		respondError(w, http.StatusInternalServerError, "Failed to fetch water level history")
		return
	}
	respondSuccess(w, http.StatusOK, levels)
}

// AddWaterLevel handles POST /api/water-levels. The reading's status is
// classified against the station's threshold levels when not provided.
func (s *Server) AddWaterLevel(w http.ResponseWriter, r *http.Request) {
	var wl models.WaterLevel
	if err := json.NewDecoder(r.Body).Decode(&wl); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if wl.StationID == 0 {
		respondError(w, http.StatusBadRequest, "station_id is required")
		return
	}
	if wl.Datetime.IsZero() {
		wl.Datetime = time.Now()
	}

	if wl.Status == "" {
		station, err := s.deps.Flood.FindStationByID(r.Context(), wl.StationID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Unknown station")
			return
		}
		wl.Status = classifyWaterLevel(wl.WaterLevel, station)
	}

	stored, err := s.deps.Flood.InsertWaterLevel(r.Context(), wl)
	if err != nil {
		logrus.WithError(err).WithField("station_id", wl.StationID).Error("Failed to insert water level")
		respondError(w, http.StatusInternalServerError, "Failed to save water level")
		return
	}
	respondSuccess(w, http.StatusCreated, stored)
}

// classifyWaterLevel maps a level to its flood status band.
func classifyWaterLevel(level float64, station *models.Station) string {
	switch {
	case level >= station.MajorFloodLevel:
		return "Major Flood"
	case level >= station.MinorFloodLevel:
		return "Minor Flood"
	case level >= station.AlertLevel:
		return "Alert"
	default:
		return "Normal"
	}
}

// ListAlerts handles GET /api/alerts, active alerts only.
func (s *Server) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.deps.Flood.ActiveAlerts(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}
	respondSuccess(w, http.StatusOK, alerts)
}

// AlertsByStation handles GET /api/alerts/station/{stationId}
func (s *Server) AlertsByStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "stationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	alerts, err := s.deps.Flood.AlertsByStation(r.Context(), stationID)
	if err != nil {
		logrus.WithError(err).WithField("station_id", stationID).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}
	respondSuccess(w, http.StatusOK, alerts)
}

// CreateAlert handles POST /api/alerts. The stored alert is also broadcast
// over MQTT when a publisher is configured.
func (s *Server) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert models.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if alert.StationID == 0 || alert.MessageEn == "" {
		respondError(w, http.StatusBadRequest, "station_id and message_en are required")
		return
	}
	if alert.Severity == "" {
		alert.Severity = "warning"
	}
	if alert.AlertType == "" {
		alert.AlertType = "flood"
	}

	stored, err := s.deps.Flood.InsertAlert(r.Context(), alert)
	if err != nil {
		logrus.WithError(err).WithField("station_id", alert.StationID).Error("Failed to insert alert")
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	if s.deps.Alerts != nil {
		if err := s.deps.Alerts.PublishAlert(stored); err != nil {
			logrus.WithError(err).WithField("alert_id", stored.ID).Error("Failed to publish alert")
		}
	}

	respondSuccess(w, http.StatusCreated, stored)
}

// DeactivateAlert handles PUT /api/alerts/{id}/deactivate
func (s *Server) DeactivateAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}
	alert, err := s.deps.Flood.DeactivateAlert(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Alert not found")
			return
		}
		logrus.WithError(err).WithField("alert_id", id).Error("Failed to deactivate alert")
		respondError(w, http.StatusInternalServerError, "Failed to deactivate alert")
		return
	}
	respondSuccess(w, http.StatusOK, alert)
}

// DeleteAlert handles DELETE /api/alerts/{id}
func (s *Server) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}
	if err := s.deps.Flood.DeleteAlert(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Alert not found")
			return
		}
		logrus.WithError(err).WithField("alert_id", id).Error("Failed to delete alert")
		respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}
	respondMessage(w, http.StatusOK, "Alert deleted")
}

// ExternalFloodStatus handles GET /api/external-flood/nasa-gfms
func (s *Server) ExternalFloodStatus(w http.ResponseWriter, r *http.Request) {
	obs, note := s.deps.FloodMonitor.FetchBasinStatus(r.Context())
	if note != "" {
		respondSuccessNote(w, http.StatusOK, obs, note)
		return
	}
	respondSuccess(w, http.StatusOK, obs)
}

// ExternalFloodComparison handles GET /api/external-flood/comparison,
// pairing the external basin observation with our own latest gauge
// readings.
func (s *Server) ExternalFloodComparison(w http.ResponseWriter, r *http.Request) {
	obs, note := s.deps.FloodMonitor.FetchBasinStatus(r.Context())
	local, err := s.deps.Flood.LatestWaterLevels(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch latest water levels for comparison")
		respondError(w, http.StatusInternalServerError, "Failed to fetch local readings")
		return
	}

	payload := map[string]interface{}{
		"external": obs,
		"local":    local,
	}
	if note != "" {
		respondSuccessNote(w, http.StatusOK, payload, note)
		return
	}
	respondSuccess(w, http.StatusOK, payload)
}
