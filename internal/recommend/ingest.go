package recommend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/ecotrack-lk/backend/internal/models"
)

// RawStandardItem is one rule object of the bulk-ingest payload. The
// interval and distance values arrive as numbers or strings depending on
// the producing spreadsheet, so both are accepted and stringified.
type RawStandardItem struct {
	Item               string   `json:"item"`
	TimeIntervalMonths any      `json:"timeIntervalMonths"`
	DistanceKm         any      `json:"distanceKm"`
	PollutionImpact    []string `json:"pollutionImpact"`
}

// BuildStandards flattens a vehicle-type-keyed bulk payload into standard
// rows, applying the ingestion defaults: missing item names become
// "UNKNOWN", absent intervals and ranges become the "0" sentinel, and
// pollution impact is never left empty. Vehicle types whose entry is not an
// array are silently skipped. Types are processed in sorted order so the
// output is deterministic.
func BuildStandards(payload map[string]json.RawMessage) []models.MaintenanceStandard {
	types := make([]string, 0, len(payload))
	for vehicleType := range payload {
		types = append(types, vehicleType)
	}
	sort.Strings(types)

	records := make([]models.MaintenanceStandard, 0)
	for _, vehicleType := range types {
		var items []RawStandardItem
		if err := json.Unmarshal(payload[vehicleType], &items); err != nil {
			continue
		}
		for _, item := range items {
			record := models.MaintenanceStandard{
				VehicleType:        vehicleType,
				MaintenanceItem:    item.Item,
				TimeIntervalMonths: stringifyOrSentinel(item.TimeIntervalMonths),
				DistanceKmRange:    stringifyOrSentinel(item.DistanceKm),
				PollutionImpact:    item.PollutionImpact,
			}
			if record.MaintenanceItem == "" {
				record.MaintenanceItem = "UNKNOWN"
			}
			if len(record.PollutionImpact) == 0 {
				record.PollutionImpact = []string{"UNKNOWN"}
			}
			records = append(records, record)
		}
	}
	return records
}

// stringifyOrSentinel renders an interval or range value the way the
// engine expects it: absent values collapse to the no-rule sentinel so
// basis selection stays in lockstep with ingestion.
func stringifyOrSentinel(v any) string {
	switch t := v.(type) {
	case nil:
		return noRuleSentinel
	case string:
		if t == "" {
			return noRuleSentinel
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
