package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/middleware"
	"github.com/ecotrack-lk/backend/internal/models"
	"github.com/ecotrack-lk/backend/internal/recommend"
)

// GetStandards handles GET /api/maintenance/get
func (s *Server) GetStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := s.deps.Standards.ListStandards(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list maintenance standards")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch maintenance standards"})
		return
	}
	writeJSON(w, http.StatusOK, standards)
}

// CreateStandard handles POST /api/maintenance/add
func (s *Server) CreateStandard(w http.ResponseWriter, r *http.Request) {
	var standard models.MaintenanceStandard
	if err := json.NewDecoder(r.Body).Decode(&standard); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if standard.VehicleType == "" || standard.MaintenanceItem == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vehicleType and maintenanceItem are required"})
		return
	}
	if standard.TimeIntervalMonths == "" {
		standard.TimeIntervalMonths = "0"
	}
	if standard.DistanceKmRange == "" {
		standard.DistanceKmRange = "0"
	}
	if len(standard.PollutionImpact) == 0 {
		standard.PollutionImpact = []string{"UNKNOWN"}
	}

	if err := s.deps.Standards.InsertStandard(r.Context(), standard); err != nil {
		logrus.WithError(err).Error("Failed to insert maintenance standard")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save maintenance standard"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Maintenance standard added"})
}

// BulkInsertStandards handles POST /api/maintenance/bulk. The body is keyed
// by vehicle type, each entry an array of rule objects.
func (s *Server) BulkInsertStandards(w http.ResponseWriter, r *http.Request) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	records := recommend.BuildStandards(payload)
	if len(records) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No valid maintenance data provided"})
		return
	}

	inserted, err := s.deps.Standards.BulkInsertStandards(r.Context(), records)
	if err != nil {
		logrus.WithError(err).Error("Bulk insert of maintenance standards failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save maintenance standards"})
		return
	}

	logrus.WithField("inserted", inserted).Info("Bulk maintenance standards stored")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Maintenance data saved successfully",
		"inserted": inserted,
	})
}

// GetVehicleTypes handles GET /api/maintenance/types
func (s *Server) GetVehicleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.deps.Standards.ListVehicleTypes(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list vehicle types")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vehicle types"})
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// GetRecommendations handles GET /api/maintenance/recommendations. The
// response is the bare recommendation array, recomputed on every call.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := recommend.Assemble(r.Context(), s.deps.Vehicles, s.deps.Standards)
	if err != nil {
		logrus.WithError(err).Error("Failed to assemble recommendations")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate recommendations"})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// sendMessageRequest is the POST /api/maintenance/send body. MaintenanceData
// rows come straight from the recommendations endpoint.
type sendMessageRequest struct {
	PhoneNumber     string                  `json:"phoneNumber"`
	VehicleID       string                  `json:"vehicleId"`
	MaintenanceData []models.Recommendation `json:"maintenanceData"`
}

// SendMaintenanceMessage handles POST /api/maintenance/send, delivering a
// vehicle's recommendation summary over WhatsApp.
func (s *Server) SendMaintenanceMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.PhoneNumber == "" {
		// Fall back to the phone number the caller registered with.
		if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
			req.PhoneNumber = claims.PhoneNumber
		}
	}
	if req.PhoneNumber == "" || len(req.MaintenanceData) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phoneNumber and maintenanceData are required"})
		return
	}
	if s.deps.Messaging == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Messaging is not configured"})
		return
	}

	body := formatMaintenanceMessage(req.VehicleID, req.MaintenanceData)
	sid, err := s.deps.Messaging.SendWhatsApp(r.Context(), req.PhoneNumber, body)
	if err != nil {
		logrus.WithError(err).WithField("vehicle_id", req.VehicleID).Error("Failed to send maintenance message")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
		return
	}

	logrus.WithFields(logrus.Fields{"vehicle_id": req.VehicleID, "sid": sid}).Info("Maintenance message sent")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully", "sid": sid})
}

// formatMaintenanceMessage renders one plain-text line per recommendation
// row.
func formatMaintenanceMessage(vehicleID string, recs []models.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maintenance summary for vehicle %s:\n", vehicleID)
	for _, rec := range recs {
		fmt.Fprintf(&b, "%s - Status: %s", rec.MaintenanceItem, rec.Status)
		if rec.NextMaintenanceDays != nil && rec.Status != models.StatusOverdue {
			fmt.Fprintf(&b, " (Next in %.0f days)", *rec.NextMaintenanceDays)
		}
		b.WriteString("\n")
	}
	return b.String()
}
