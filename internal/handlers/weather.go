package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// CurrentWeather handles GET /api/weather/current. The live observation is
// fetched from OpenWeather and stored before being returned; when the fetch
// fails the most recent stored observation is served instead.
func (s *Server) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	obs, err := s.deps.Weather.FetchCurrent(r.Context())
	if err != nil {
		logrus.WithError(err).Warn("Live weather fetch failed, falling back to stored data")
		stored, dbErr := s.deps.Flood.LatestWeather(r.Context())
		if dbErr != nil {
			respondError(w, http.StatusServiceUnavailable, "Weather data unavailable")
			return
		}
		respondSuccessNote(w, http.StatusOK, stored, "Live fetch failed; serving last stored observation.")
		return
	}

	stored, err := s.deps.Flood.InsertWeather(r.Context(), *obs)
	if err != nil {
		logrus.WithError(err).Error("Failed to store weather observation")
		// Still return the live reading.
		respondSuccess(w, http.StatusOK, obs)
		return
	}
	respondSuccess(w, http.StatusOK, stored)
}

// LatestWeather handles GET /api/weather/latest, the newest stored
// observation.
func (s *Server) LatestWeather(w http.ResponseWriter, r *http.Request) {
	obs, err := s.deps.Flood.LatestWeather(r.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "No weather data recorded yet")
			return
		}
		logrus.WithError(err).Error("Failed to fetch latest weather")
		respondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	respondSuccess(w, http.StatusOK, obs)
}

// DailyWeather handles GET /api/weather/daily, per-day aggregates over the
// last week.
func (s *Server) DailyWeather(w http.ResponseWriter, r *http.Request) {
	days, err := s.deps.Flood.DailyWeather(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch daily weather")
		respondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	respondSuccess(w, http.StatusOK, days)
}
