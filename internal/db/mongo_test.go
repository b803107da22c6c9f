package db

import (
	"context"
	"testing"

	"github.com/ecotrack-lk/backend/internal/models"
)

func TestInsertStandard_NilCollection(t *testing.T) {
	coll := &MongoStandardCollection{Collection: nil}
	err := coll.InsertStandard(context.Background(), models.MaintenanceStandard{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestBulkInsertStandards_NilCollection(t *testing.T) {
	coll := &MongoStandardCollection{Collection: nil}
	_, err := coll.BulkInsertStandards(context.Background(), []models.MaintenanceStandard{{}})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestBulkInsertStandards_EmptyBatch(t *testing.T) {
	coll := &MongoStandardCollection{Collection: nil}
	count, err := coll.BulkInsertStandards(context.Background(), nil)
	if err == nil {
		t.Error("expected error when collection is nil")
	}
	if count != 0 {
		t.Errorf("expected 0 inserted, got %d", count)
	}
}

func TestInsertVehicle_NilCollection(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}
	err := coll.InsertVehicle(context.Background(), models.Vehicle{VehicleID: "WP-1"})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestFindVehicle_NilCollection(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}
	vehicle, err := coll.FindVehicle(context.Background(), "WP-1")
	if err == nil {
		t.Error("expected error when collection is nil")
	}
	if vehicle != nil {
		t.Error("expected nil vehicle on error")
	}
}

func TestInsertServiceHistory_NilCollection(t *testing.T) {
	coll := &MongoServiceHistoryCollection{Collection: nil}
	err := coll.InsertServiceHistory(context.Background(), models.ServiceHistory{VehicleID: "WP-1"})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}
