package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-lk/backend/internal/db"
	"github.com/ecotrack-lk/backend/internal/middleware"
	"github.com/ecotrack-lk/backend/internal/models"
)

// In-memory stores for handler tests.

type memStandards struct {
	standards []models.MaintenanceStandard
	err       error
}

func (m *memStandards) InsertStandard(ctx context.Context, standard models.MaintenanceStandard) error {
	if m.err != nil {
		return m.err
	}
	m.standards = append(m.standards, standard)
	return nil
}

func (m *memStandards) BulkInsertStandards(ctx context.Context, standards []models.MaintenanceStandard) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.standards = append(m.standards, standards...)
	return len(standards), nil
}

func (m *memStandards) ListStandards(ctx context.Context) ([]models.MaintenanceStandard, error) {
	return m.standards, m.err
}

func (m *memStandards) ListVehicleTypes(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	var types []string
	for _, s := range m.standards {
		if !seen[s.VehicleType] {
			seen[s.VehicleType] = true
			types = append(types, s.VehicleType)
		}
	}
	return types, nil
}

type memVehicles struct {
	vehicles []models.Vehicle
	err      error
}

func (m *memVehicles) InsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	if m.err != nil {
		return m.err
	}
	m.vehicles = append(m.vehicles, vehicle)
	return nil
}

func (m *memVehicles) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return m.vehicles, m.err
}

func (m *memVehicles) ListVehicleIDs(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		ids = append(ids, v.VehicleID)
	}
	return ids, nil
}

func (m *memVehicles) FindVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.vehicles {
		if m.vehicles[i].VehicleID == vehicleID {
			v := m.vehicles[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrVehicleNotFound, vehicleID)
}

func (m *memVehicles) UpdateVehicle(ctx context.Context, vehicleID string, vehicle models.Vehicle) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.vehicles {
		if m.vehicles[i].VehicleID == vehicleID {
			m.vehicles[i] = vehicle
			return nil
		}
	}
	return fmt.Errorf("%w: %s", db.ErrVehicleNotFound, vehicleID)
}

func (m *memVehicles) DeleteVehicle(ctx context.Context, vehicleID string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.vehicles {
		if m.vehicles[i].VehicleID == vehicleID {
			m.vehicles = append(m.vehicles[:i], m.vehicles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", db.ErrVehicleNotFound, vehicleID)
}

type memHistory struct {
	entries []models.ServiceHistory
}

func (m *memHistory) InsertServiceHistory(ctx context.Context, entry models.ServiceHistory) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memHistory) BulkInsertServiceHistory(ctx context.Context, entries []models.ServiceHistory) (int, error) {
	m.entries = append(m.entries, entries...)
	return len(entries), nil
}

func (m *memHistory) ListServiceHistory(ctx context.Context, vehicleID string) ([]models.ServiceHistory, error) {
	var out []models.ServiceHistory
	for _, e := range m.entries {
		if e.VehicleID == vehicleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memHistory) ListAllServiceHistory(ctx context.Context) ([]models.ServiceHistory, error) {
	return m.entries, nil
}

func (m *memHistory) DeleteServiceHistory(ctx context.Context, vehicleID string) error {
	var kept []models.ServiceHistory
	for _, e := range m.entries {
		if e.VehicleID != vehicleID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func newTestServer(standards *memStandards, vehicles *memVehicles, history *memHistory) *Server {
	return NewServer(Deps{
		Standards: standards,
		Vehicles:  vehicles,
		History:   history,
	})
}

func TestGetRecommendations(t *testing.T) {
	standards := &memStandards{standards: []models.MaintenanceStandard{
		{VehicleType: "car", MaintenanceItem: "Engine oil change", TimeIntervalMonths: "6", DistanceKmRange: "5000-10000", PollutionImpact: []string{"HC", "CO"}},
		{VehicleType: "car", MaintenanceItem: "Spark plug replace", TimeIntervalMonths: "0", DistanceKmRange: "30000-50000", PollutionImpact: []string{"HC"}},
	}}
	vehicles := &memVehicles{vehicles: []models.Vehicle{
		{VehicleID: "WP-1234", VehicleType: "car", UsageFrequency: "daily", LastOil: "6 Month"},
	}}
	server := newTestServer(standards, vehicles, &memHistory{})

	req := httptest.NewRequest("GET", "/api/maintenance/recommendations", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var recs []models.Recommendation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&recs))
	require.Len(t, recs, 2)

	oil := recs[0]
	assert.Equal(t, models.StatusOverdue, oil.Status)
	assert.Equal(t, models.BasisTime, oil.Basis)
	require.NotNil(t, oil.NextMaintenanceDays)
	assert.Equal(t, 0.0, *oil.NextMaintenanceDays)

	spark := recs[1]
	assert.Equal(t, models.BasisDistance, spark.Basis)
	assert.Equal(t, models.StatusOK, spark.Status)
	require.NotNil(t, spark.EstimatedAnnualKm)
	assert.Equal(t, 9000.0, *spark.EstimatedAnnualKm)
}

func TestGetRecommendationsStoreFailure(t *testing.T) {
	standards := &memStandards{err: fmt.Errorf("mongo down")}
	server := newTestServer(standards, &memVehicles{}, &memHistory{})

	req := httptest.NewRequest("GET", "/api/maintenance/recommendations", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBulkInsertStandards(t *testing.T) {
	standards := &memStandards{}
	server := newTestServer(standards, &memVehicles{}, &memHistory{})

	body := `{
		"car": [{"item": "Engine oil change", "timeIntervalMonths": "6", "distanceKm": "5000-10000", "pollutionImpact": ["HC"]}],
		"bike": [{"item": "Chain lube"}]
	}`
	req := httptest.NewRequest("POST", "/api/maintenance/bulk", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, float64(2), resp["inserted"])
	require.Len(t, standards.standards, 2)

	// Ingestion defaults applied.
	assert.Equal(t, "0", standards.standards[0].TimeIntervalMonths)
	assert.Equal(t, []string{"UNKNOWN"}, standards.standards[0].PollutionImpact)
}

func TestBulkInsertStandardsEmptyPayload(t *testing.T) {
	server := newTestServer(&memStandards{}, &memVehicles{}, &memHistory{})

	req := httptest.NewRequest("POST", "/api/maintenance/bulk", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVehicleTypes(t *testing.T) {
	standards := &memStandards{standards: []models.MaintenanceStandard{
		{VehicleType: "car"}, {VehicleType: "bike"}, {VehicleType: "car"},
	}}
	server := newTestServer(standards, &memVehicles{}, &memHistory{})

	req := httptest.NewRequest("GET", "/api/maintenance/types", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var types []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&types))
	assert.ElementsMatch(t, []string{"car", "bike"}, types)
}

func TestSendMaintenanceMessageUnconfigured(t *testing.T) {
	server := newTestServer(&memStandards{}, &memVehicles{}, &memHistory{})

	body := `{"phoneNumber": "+94771234567", "vehicleId": "WP-1", "maintenanceData": [{"maintenanceItem": "Engine oil change", "status": "OVERDUE"}]}`
	req := httptest.NewRequest("POST", "/api/maintenance/send", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSendMaintenanceMessagePhoneFromToken(t *testing.T) {
	server := newTestServer(&memStandards{}, &memVehicles{}, &memHistory{})

	body := `{"vehicleId": "WP-1", "maintenanceData": [{"maintenanceItem": "Engine oil change", "status": "OVERDUE"}]}`

	// Without an authenticated caller there is no number to send to.
	req := httptest.NewRequest("POST", "/api/maintenance/send", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The caller's registered number fills in when the request omits one;
	// the request then fails only on the unconfigured messaging client.
	claims := &models.Claims{UserID: "u1", Username: "resident", PhoneNumber: "+94771234567", Role: models.RoleResident}
	req = httptest.NewRequest("POST", "/api/maintenance/send", bytes.NewBufferString(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	w = httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFormatMaintenanceMessage(t *testing.T) {
	days := 45.0
	recs := []models.Recommendation{
		{MaintenanceItem: "Engine oil change", Status: models.StatusOverdue, NextMaintenanceDays: floatPtrTest(0)},
		{MaintenanceItem: "Air filter clean/replace", Status: models.StatusDueSoon, NextMaintenanceDays: &days},
	}
	msg := formatMaintenanceMessage("WP-1234", recs)

	assert.Contains(t, msg, "WP-1234")
	assert.Contains(t, msg, "Engine oil change - Status: OVERDUE")
	assert.Contains(t, msg, "Air filter clean/replace - Status: DUE SOON (Next in 45 days)")
	assert.NotContains(t, msg, "OVERDUE (Next")
}

func floatPtrTest(f float64) *float64 { return &f }
