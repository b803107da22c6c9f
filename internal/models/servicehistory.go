package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceHistory records one completed maintenance action on a vehicle.
// Entries are appended whenever a vehicle's maintenance field changes and
// can also be added directly by the service-history endpoint.
type ServiceHistory struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID       string             `bson:"vehicle_id" json:"vehicleId"`
	MaintenanceItem string             `bson:"maintenance_item" json:"maintenanceItem"`
	ServiceCenter   string             `bson:"service_center,omitempty" json:"serviceCenter,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ServiceDate     time.Time          `bson:"service_date" json:"serviceDate"`
}
