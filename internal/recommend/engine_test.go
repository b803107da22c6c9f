package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-lk/backend/internal/models"
)

func TestParseInterval(t *testing.T) {
	assert.True(t, ParseInterval("0").NoRule)
	assert.True(t, ParseInterval("").NoRule)

	iv := ParseInterval("6")
	assert.False(t, iv.NoRule)
	require.NotNil(t, iv.Months)
	assert.Equal(t, 6.0, *iv.Months)

	iv = ParseInterval("1-2")
	require.NotNil(t, iv.Months)
	assert.Equal(t, 1.0, *iv.Months)

	// Non-numeric intervals keep the time axis but carry no bound.
	iv = ParseInterval("soon")
	assert.False(t, iv.NoRule)
	assert.Nil(t, iv.Months)
}

func timeRule(interval string) *models.MaintenanceStandard {
	return &models.MaintenanceStandard{
		VehicleType:        "car",
		MaintenanceItem:    "Engine oil change",
		TimeIntervalMonths: interval,
		DistanceKmRange:    "5000-10000",
		PollutionImpact:    []string{"HC", "CO"},
	}
}

func distanceRule(kmRange string) *models.MaintenanceStandard {
	return &models.MaintenanceStandard{
		VehicleType:        "car",
		MaintenanceItem:    "Spark plug replace",
		TimeIntervalMonths: "0",
		DistanceKmRange:    kmRange,
		PollutionImpact:    []string{"HC"},
	}
}

func TestEvaluateTimeBasis(t *testing.T) {
	tests := []struct {
		name         string
		lastOil      string
		interval     string
		wantStatus   models.Status
		wantNextDays *float64
	}{
		{"well within interval", "1 Month", "6", models.StatusOK, floatPtr(150)},
		{"exactly at threshold", "4.5 Months", "6", models.StatusDueSoon, floatPtr(45)},
		{"past threshold", "5 Months", "6", models.StatusDueSoon, floatPtr(30)},
		{"exactly at interval", "6 Month", "6", models.StatusOverdue, floatPtr(0)},
		{"long overdue", "2 Years", "6", models.StatusOverdue, floatPtr(0)},
		{"missing last done", "", "6", models.StatusUnknown, nil},
		{"unparseable last done", "recently", "6", models.StatusUnknown, nil},
		{"unparseable interval", "1 Month", "soon", models.StatusUnknown, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := &models.Vehicle{
				VehicleID:      "WP-1234",
				VehicleType:    "car",
				UsageFrequency: "daily",
				LastOil:        tt.lastOil,
			}
			rec := Evaluate(vehicle, timeRule(tt.interval), MonthlyDistance(vehicle.UsageFrequency))

			assert.Equal(t, models.BasisTime, rec.Basis)
			assert.Equal(t, tt.wantStatus, rec.Status)
			if tt.wantNextDays == nil {
				assert.Nil(t, rec.NextMaintenanceDays)
			} else {
				require.NotNil(t, rec.NextMaintenanceDays)
				assert.InDelta(t, *tt.wantNextDays, *rec.NextMaintenanceDays, 0.001)
			}
			assert.Equal(t, "WP-1234", rec.VehicleID)
			assert.Equal(t, []string{"HC", "CO"}, rec.PollutionImpact)
		})
	}
}

// A non-zero time interval always wins over distance, even when the
// vehicle has no usable last-done data.
func TestEvaluateTimeBasisIsNotAFallback(t *testing.T) {
	vehicle := &models.Vehicle{
		VehicleID:      "WP-1234",
		VehicleType:    "car",
		UsageFrequency: "daily", // distance data is available but must be ignored
	}
	rec := Evaluate(vehicle, timeRule("6"), MonthlyDistance(vehicle.UsageFrequency))

	assert.Equal(t, models.BasisTime, rec.Basis)
	assert.Equal(t, models.StatusUnknown, rec.Status)
	assert.Nil(t, rec.EstimatedAnnualKm)
}

func TestEvaluateTimeBasisCarriesRawLastDone(t *testing.T) {
	vehicle := &models.Vehicle{VehicleID: "WP-1", VehicleType: "car", LastOil: "6 Month"}
	rec := Evaluate(vehicle, timeRule("6"), nil)

	require.NotNil(t, rec.LastDone)
	assert.Equal(t, "6 Month", *rec.LastDone)
}

// Items with no field mapping for the vehicle type classify UNKNOWN with
// no last-done value.
func TestEvaluateTimeBasisUnmappedItem(t *testing.T) {
	rule := &models.MaintenanceStandard{
		VehicleType:        "bike",
		MaintenanceItem:    "DPF regeneration/clean",
		TimeIntervalMonths: "12",
		DistanceKmRange:    "0",
	}
	vehicle := &models.Vehicle{VehicleID: "WP-1", VehicleType: "bike", DPFCleaning: "1 Month"}
	rec := Evaluate(vehicle, rule, nil)

	assert.Equal(t, models.StatusUnknown, rec.Status)
	assert.Nil(t, rec.LastDone)
}

func TestEvaluateDistanceBasis(t *testing.T) {
	tests := []struct {
		name         string
		frequency    string
		kmRange      string
		wantStatus   models.Status
		wantNextDays *float64
	}{
		// daily = 750 km/month = 9000 km/year
		{"well under limit", "daily", "15000-25000", models.StatusOK, floatPtr(240)},
		{"at due-soon threshold", "daily", "12000-15000", models.StatusDueSoon, floatPtr(120)},
		{"over limit", "daily", "5000-8000", models.StatusOverdue, floatPtr(0)},
		{"exactly at limit", "daily", "9000-12000", models.StatusOverdue, floatPtr(0)},
		{"zero limit is a real bound", "monthly", "0", models.StatusOverdue, floatPtr(0)},
		{"no usage data", "", "15000-25000", models.StatusUnknown, nil},
		{"no range", "daily", "", models.StatusUnknown, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := &models.Vehicle{
				VehicleID:      "WP-5678",
				VehicleType:    "car",
				UsageFrequency: tt.frequency,
			}
			rec := Evaluate(vehicle, distanceRule(tt.kmRange), MonthlyDistance(vehicle.UsageFrequency))

			assert.Equal(t, models.BasisDistance, rec.Basis)
			assert.Equal(t, tt.wantStatus, rec.Status)
			if tt.wantNextDays == nil {
				assert.Nil(t, rec.NextMaintenanceDays)
			} else {
				require.NotNil(t, rec.NextMaintenanceDays)
				assert.InDelta(t, *tt.wantNextDays, *rec.NextMaintenanceDays, 0.001)
			}
		})
	}
}

func TestEvaluateDistanceBasisAnnualEstimate(t *testing.T) {
	vehicle := &models.Vehicle{VehicleID: "WP-1", VehicleType: "car", UsageFrequency: "weekly"}
	rec := Evaluate(vehicle, distanceRule("15000-25000"), MonthlyDistance(vehicle.UsageFrequency))

	require.NotNil(t, rec.EstimatedAnnualKm)
	assert.Equal(t, 1800.0, *rec.EstimatedAnnualKm)
}
