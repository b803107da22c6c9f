package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecotrack-lk/backend/internal/auth"
	"github.com/ecotrack-lk/backend/internal/clients"
	"github.com/ecotrack-lk/backend/internal/db"
	"github.com/ecotrack-lk/backend/internal/middleware"
	"github.com/ecotrack-lk/backend/internal/models"
)

// AlertPublisher fans issued alerts out to subscribers. Optional: a nil
// publisher means alerts are stored but not broadcast.
type AlertPublisher interface {
	PublishAlert(alert *models.Alert) error
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	AuthService *auth.Service

	Standards db.StandardCollection
	Vehicles  db.VehicleCollection
	History   db.ServiceHistoryCollection
	Users     db.UserCollection
	Flood     *db.FloodStore

	Weather      *clients.WeatherClient
	FloodMonitor *clients.FloodMonitorClient
	ML           *clients.MLClient
	Messaging    *clients.MessagingClient
	Alerts       AlertPublisher
}

// Server holds the router and all request handlers.
type Server struct {
	router *mux.Router
	deps   Deps
}

// NewServer wires every route and returns the ready server.
func NewServer(deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured router.
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Auth
	s.router.HandleFunc("/api/auth/register", s.Register).Methods(http.MethodPost)
	s.router.HandleFunc("/api/auth/login", s.Login).Methods(http.MethodPost)
	s.router.HandleFunc("/api/auth/profile", s.GetProfile).Methods(http.MethodGet)
	s.router.HandleFunc("/api/auth/profile", s.UpdateProfile).Methods(http.MethodPut)
	s.router.HandleFunc("/api/auth/change-password", s.ChangePassword).Methods(http.MethodPost)

	// Maintenance standards + recommendations
	s.router.HandleFunc("/api/maintenance/get", s.GetStandards).Methods(http.MethodGet)
	s.router.HandleFunc("/api/maintenance/add", s.CreateStandard).Methods(http.MethodPost)
	s.router.HandleFunc("/api/maintenance/bulk", s.BulkInsertStandards).Methods(http.MethodPost)
	s.router.HandleFunc("/api/maintenance/types", s.GetVehicleTypes).Methods(http.MethodGet)
	s.router.HandleFunc("/api/maintenance/recommendations", s.GetRecommendations).Methods(http.MethodGet)
	s.router.HandleFunc("/api/maintenance/recommendations/export", s.ExportRecommendations).Methods(http.MethodGet)
	s.router.HandleFunc("/api/maintenance/send", s.SendMaintenanceMessage).Methods(http.MethodPost)

	// Vehicles + service history
	s.router.HandleFunc("/api/vehicles/add", s.CreateVehicle).Methods(http.MethodPost)
	s.router.HandleFunc("/api/vehicles", s.ListVehicles).Methods(http.MethodGet)
	s.router.HandleFunc("/api/vehicles/ids", s.ListVehicleIDs).Methods(http.MethodGet)
	s.router.HandleFunc("/api/vehicles/{vehicleId}/maintenance", s.UpdateVehicleMaintenance).Methods(http.MethodPut)
	s.router.HandleFunc("/api/vehicles/{vehicleId}/history", s.GetServiceHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/api/vehicles/{vehicleId}", s.DeleteVehicle).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/service-history", s.GetAllServiceHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/api/service-history", s.AddServiceHistory).Methods(http.MethodPost)

	// Flood dashboard
	s.router.HandleFunc("/api/stations", s.ListStations).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stations/name/{name}", s.GetStationByName).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stations/{id}", s.GetStation).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stations/{id}", s.UpdateStation).Methods(http.MethodPut)
	s.router.HandleFunc("/api/water-levels/latest", s.LatestWaterLevels).Methods(http.MethodGet)
	s.router.HandleFunc("/api/water-levels/station/{stationId}", s.WaterLevelsByStation).Methods(http.MethodGet)
	s.router.HandleFunc("/api/water-levels/history/{stationId}", s.WaterLevelHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/api/water-levels", s.AddWaterLevel).Methods(http.MethodPost)
	s.router.HandleFunc("/api/weather/current", s.CurrentWeather).Methods(http.MethodGet)
	s.router.HandleFunc("/api/weather/latest", s.LatestWeather).Methods(http.MethodGet)
	s.router.HandleFunc("/api/weather/daily", s.DailyWeather).Methods(http.MethodGet)
	s.router.HandleFunc("/api/predictions/predict", s.Predict).Methods(http.MethodPost)
	s.router.HandleFunc("/api/predictions/forecast", s.Forecast).Methods(http.MethodPost)
	s.router.HandleFunc("/api/predictions/import-history", s.ImportWaterLevelHistory).Methods(http.MethodPost)
	s.router.HandleFunc("/api/predictions/station/{stationId}", s.PredictionsByStation).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts", s.ListAlerts).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts/station/{stationId}", s.AlertsByStation).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts", s.CreateAlert).Methods(http.MethodPost)
	s.router.HandleFunc("/api/alerts/{id}/deactivate", s.DeactivateAlert).Methods(http.MethodPut)
	s.router.HandleFunc("/api/alerts/{id}", s.DeleteAlert).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/external-flood/nasa-gfms", s.ExternalFloodStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/api/external-flood/comparison", s.ExternalFloodComparison).Methods(http.MethodGet)

	s.router.Use(middleware.Logging)
	if s.deps.AuthService != nil {
		authMW := middleware.NewAuthMiddleware(s.deps.AuthService)
		s.router.Use(authMW.Authenticate)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
