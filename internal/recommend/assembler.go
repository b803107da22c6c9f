package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecotrack-lk/backend/internal/models"
)

// VehicleSource is the bulk read the assembler needs from the vehicle
// store.
type VehicleSource interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
}

// StandardSource is the bulk read the assembler needs from the standards
// store.
type StandardSource interface {
	ListStandards(ctx context.Context) ([]models.MaintenanceStandard, error)
}

// Assemble evaluates every vehicle against every standard matching its
// vehicle type and returns the flattened result list. Results follow
// vehicle order then standard order as returned by the stores; duplicate
// standards yield duplicate results. The two bulk reads run concurrently
// and both must complete before classification starts; either failing
// aborts the whole computation with no partial results.
func Assemble(ctx context.Context, vehicles VehicleSource, standards StandardSource) ([]models.Recommendation, error) {
	var (
		wg         sync.WaitGroup
		vs         []models.Vehicle
		ss         []models.MaintenanceStandard
		vErr, sErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		vs, vErr = vehicles.ListVehicles(ctx)
	}()
	go func() {
		defer wg.Done()
		ss, sErr = standards.ListStandards(ctx)
	}()
	wg.Wait()

	if vErr != nil {
		return nil, fmt.Errorf("load vehicles: %w", vErr)
	}
	if sErr != nil {
		return nil, fmt.Errorf("load standards: %w", sErr)
	}

	results := make([]models.Recommendation, 0, len(vs))
	for i := range vs {
		vehicle := &vs[i]
		monthlyKm := MonthlyDistance(vehicle.UsageFrequency)
		for j := range ss {
			if ss[j].VehicleType != vehicle.VehicleType {
				continue
			}
			results = append(results, Evaluate(vehicle, &ss[j], monthlyKm))
		}
	}
	return results, nil
}
