package recommend

import (
	"math"

	"github.com/ecotrack-lk/backend/internal/models"
)

// noRuleSentinel is the stored string meaning "no time-based rule; evaluate
// by distance". Ingestion writes it and basis selection reads it; both go
// through this package so the convention cannot drift.
const noRuleSentinel = "0"

// Interval is the decoded time_interval_months value of a standard.
type Interval struct {
	// NoRule is set when the stored value is the "0" sentinel: the rule has
	// no time axis and must be evaluated by distance.
	NoRule bool
	// Months is the lower bound of the stored interval. Nil when the stored
	// value is non-numeric; such rules still select the TIME basis but
	// classify UNKNOWN.
	Months *float64
}

// ParseInterval decodes a stored interval string. The single conversion
// point for the "0" sentinel.
func ParseInterval(s string) Interval {
	if s == "" || s == noRuleSentinel {
		return Interval{NoRule: true}
	}
	return Interval{Months: ParseLowerBound(s)}
}

// Evaluate classifies one vehicle against one maintenance standard.
// monthlyKm is the precomputed usage estimate for the vehicle; nil makes
// distance-based rules classify UNKNOWN.
//
// Basis selection is a hard branch: a rule with a non-zero time interval is
// always evaluated on TIME, even when the vehicle's last-done data is
// missing. Distance is never a fallback.
func Evaluate(vehicle *models.Vehicle, rule *models.MaintenanceStandard, monthlyKm *float64) models.Recommendation {
	rec := models.Recommendation{
		VehicleID:       vehicle.VehicleID,
		VehicleType:     vehicle.VehicleType,
		MaintenanceItem: rule.MaintenanceItem,
		PollutionImpact: rule.PollutionImpact,
	}

	interval := ParseInterval(rule.TimeIntervalMonths)
	if !interval.NoRule {
		evaluateTime(&rec, vehicle, rule, interval)
		return rec
	}
	evaluateDistance(&rec, rule, monthlyKm)
	return rec
}

func evaluateTime(rec *models.Recommendation, vehicle *models.Vehicle, rule *models.MaintenanceStandard, interval Interval) {
	rec.Basis = models.BasisTime

	var lastDoneDays *float64
	if field, ok := FieldFor(vehicle.VehicleType, rule.MaintenanceItem); ok {
		if raw, known := vehicle.LastDone(field); known {
			rec.LastDone = &raw
			lastDoneDays = ParseElapsedToDays(raw)
		}
	}

	if interval.Months == nil || lastDoneDays == nil {
		rec.Status = models.StatusUnknown
		return
	}

	intervalDays := *interval.Months * 30
	switch {
	case *lastDoneDays >= intervalDays:
		rec.Status = models.StatusOverdue
		rec.NextMaintenanceDays = floatPtr(0)
	case *lastDoneDays >= intervalDays*0.75:
		rec.Status = models.StatusDueSoon
		rec.NextMaintenanceDays = floatPtr(intervalDays - *lastDoneDays)
	default:
		rec.Status = models.StatusOK
		rec.NextMaintenanceDays = floatPtr(intervalDays - *lastDoneDays)
	}
}

func evaluateDistance(rec *models.Recommendation, rule *models.MaintenanceStandard, monthlyKm *float64) {
	rec.Basis = models.BasisDistance

	if monthlyKm != nil {
		rec.EstimatedAnnualKm = floatPtr(*monthlyKm * 12)
	}

	kmLimit := ParseLowerBound(rule.DistanceKmRange)
	if monthlyKm == nil || kmLimit == nil {
		rec.Status = models.StatusUnknown
		return
	}

	yearlyKm := *monthlyKm * 12
	switch {
	case yearlyKm >= *kmLimit:
		rec.Status = models.StatusOverdue
		rec.NextMaintenanceDays = floatPtr(0)
	case yearlyKm >= *kmLimit*0.75:
		rec.Status = models.StatusDueSoon
		rec.NextMaintenanceDays = floatPtr(distanceDays(*kmLimit, yearlyKm, *monthlyKm))
	default:
		rec.Status = models.StatusOK
		rec.NextMaintenanceDays = floatPtr(distanceDays(*kmLimit, yearlyKm, *monthlyKm))
	}
}

// distanceDays projects days until the km limit is reached. The annualized
// figure divided back through the monthly rate is kept as-is for output
// compatibility.
func distanceDays(kmLimit, yearlyKm, monthlyKm float64) float64 {
	return math.Ceil((kmLimit - yearlyKm) / monthlyKm * 30)
}
