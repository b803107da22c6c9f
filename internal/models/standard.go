package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceStandard is one maintenance-due rule for a vehicle type and
// maintenance item. Interval and range are stored as strings; "0" is the
// sentinel for "no rule on this axis". Standards are immutable once stored.
type MaintenanceStandard struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleType        string             `bson:"vehicle_type" json:"vehicleType"`
	MaintenanceItem    string             `bson:"maintenance_item" json:"maintenanceItem"`
	TimeIntervalMonths string             `bson:"time_interval_months" json:"timeIntervalMonths"` // "6", "1-2", or "0"
	DistanceKmRange    string             `bson:"distance_km_range" json:"distanceKmRange"`       // "15000-25000" or "0"
	PollutionImpact    []string           `bson:"pollution_impact" json:"pollutionImpact"`        // never empty, defaults to ["UNKNOWN"]
}
