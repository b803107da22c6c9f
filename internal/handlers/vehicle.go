package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/db"
	"github.com/ecotrack-lk/backend/internal/models"
	"github.com/ecotrack-lk/backend/internal/recommend"
)

// CreateVehicle handles POST /api/vehicles/add
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if vehicle.VehicleID == "" || vehicle.VehicleType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vehicleId and vehicleType are required"})
		return
	}

	existing, err := s.deps.Vehicles.FindVehicle(r.Context(), vehicle.VehicleID)
	if err != nil && !errors.Is(err, db.ErrVehicleNotFound) {
		logrus.WithError(err).WithField("vehicle_id", vehicle.VehicleID).Error("Failed to look up vehicle")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save vehicle"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Vehicle already registered"})
		return
	}

	if err := s.deps.Vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicle.VehicleID).Error("Failed to insert vehicle")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save vehicle"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Vehicle data saved successfully"})
}

// ListVehicles handles GET /api/vehicles
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.deps.Vehicles.ListVehicles(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list vehicles")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vehicles"})
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// ListVehicleIDs handles GET /api/vehicles/ids
func (s *Server) ListVehicleIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.deps.Vehicles.ListVehicleIDs(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list vehicle ids")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vehicle ids"})
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// maintenanceUpdateRequest is the PUT /api/vehicles/{vehicleId}/maintenance
// body: field-keyed last-done values plus optional service metadata.
type maintenanceUpdateRequest struct {
	Updates       map[string]string `json:"updates"`
	ServiceCenter string            `json:"serviceCenter"`
	Notes         string            `json:"notes"`
}

// UpdateVehicleMaintenance handles PUT /api/vehicles/{vehicleId}/maintenance.
// Each changed field also appends a service-history entry.
func (s *Server) UpdateVehicleMaintenance(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicleId"]

	var req maintenanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if len(req.Updates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No updates provided"})
		return
	}

	vehicle, err := s.deps.Vehicles.FindVehicle(r.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrVehicleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Vehicle not found"})
			return
		}
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to look up vehicle")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update vehicle"})
		return
	}

	// Apply updates in the fixed field order so history entries are
	// recorded deterministically. Only fields whose value actually changes
	// produce a history entry; resubmitting the current value is a no-op.
	applied := 0
	var entries []models.ServiceHistory
	now := time.Now()
	for _, field := range recommend.AllowedUpdateFields {
		value, present := req.Updates[field]
		if !present {
			continue
		}
		current, known := vehicle.LastDone(field)
		if !known {
			continue
		}
		applied++
		if value == current {
			continue
		}
		vehicle.SetLastDone(field, value)
		notes := "Updated to " + value
		if req.Notes != "" {
			notes = req.Notes
		}
		entries = append(entries, models.ServiceHistory{
			VehicleID:       vehicleID,
			MaintenanceItem: recommend.FieldToItem[field],
			ServiceCenter:   req.ServiceCenter,
			Notes:           notes,
			ServiceDate:     now,
		})
	}
	if applied == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No valid maintenance fields in updates"})
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "No changes",
			"updated": 0,
		})
		return
	}

	if err := s.deps.Vehicles.UpdateVehicle(r.Context(), vehicleID, *vehicle); err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to update vehicle maintenance")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update vehicle"})
		return
	}

	if _, err := s.deps.History.BulkInsertServiceHistory(r.Context(), entries); err != nil {
		// The vehicle update already landed; log and carry on.
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to record service history")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Maintenance data updated",
		"updated": len(entries),
	})
}

// DeleteVehicle handles DELETE /api/vehicles/{vehicleId}. The vehicle's
// service history goes with it.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicleId"]

	if err := s.deps.Vehicles.DeleteVehicle(r.Context(), vehicleID); err != nil {
		if errors.Is(err, db.ErrVehicleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Vehicle not found"})
			return
		}
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to delete vehicle")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete vehicle"})
		return
	}

	if err := s.deps.History.DeleteServiceHistory(r.Context(), vehicleID); err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to delete service history")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}

// GetServiceHistory handles GET /api/vehicles/{vehicleId}/history
func (s *Server) GetServiceHistory(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicleId"]

	entries, err := s.deps.History.ListServiceHistory(r.Context(), vehicleID)
	if err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to list service history")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch service history"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetAllServiceHistory handles GET /api/service-history
func (s *Server) GetAllServiceHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.History.ListAllServiceHistory(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list service history")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch service history"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddServiceHistory handles POST /api/service-history
func (s *Server) AddServiceHistory(w http.ResponseWriter, r *http.Request) {
	var entry models.ServiceHistory
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if entry.VehicleID == "" || entry.MaintenanceItem == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vehicleId and maintenanceItem are required"})
		return
	}
	if entry.ServiceDate.IsZero() {
		entry.ServiceDate = time.Now()
	}

	if err := s.deps.History.InsertServiceHistory(r.Context(), entry); err != nil {
		logrus.WithError(err).WithField("vehicle_id", entry.VehicleID).Error("Failed to insert service history")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save service history"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Service history recorded"})
}
