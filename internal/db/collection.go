package db

import (
	"context"
	"errors"

	"github.com/ecotrack-lk/backend/internal/models"
)

// ErrVehicleNotFound distinguishes a missing vehicle from a store failure.
var ErrVehicleNotFound = errors.New("vehicle not found")

// StandardCollection defines the interface for maintenance-standard
// operations. Standards are read-only once stored; there is no update.
type StandardCollection interface {
	InsertStandard(ctx context.Context, standard models.MaintenanceStandard) error
	BulkInsertStandards(ctx context.Context, standards []models.MaintenanceStandard) (int, error)
	ListStandards(ctx context.Context) ([]models.MaintenanceStandard, error)
	ListVehicleTypes(ctx context.Context) ([]string, error)
}

// VehicleCollection defines the interface for vehicle operations, keyed by
// the externally assigned vehicleId.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListVehicleIDs(ctx context.Context) ([]string, error)
	FindVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicleID string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, vehicleID string) error
}

// ServiceHistoryCollection defines the interface for service-history
// operations.
type ServiceHistoryCollection interface {
	InsertServiceHistory(ctx context.Context, entry models.ServiceHistory) error
	BulkInsertServiceHistory(ctx context.Context, entries []models.ServiceHistory) (int, error)
	ListServiceHistory(ctx context.Context, vehicleID string) ([]models.ServiceHistory, error)
	ListAllServiceHistory(ctx context.Context) ([]models.ServiceHistory, error)
	DeleteServiceHistory(ctx context.Context, vehicleID string) error
}
