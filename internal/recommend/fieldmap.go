package recommend

import "github.com/ecotrack-lk/backend/internal/models"

// fieldMap translates a maintenance item name into the vehicle record's
// last-serviced field for each vehicle type. The table is static: vehicle
// types without an entry get no time-based data at all, and items missing
// for a type evaluate with a nil last-done value.
var fieldMap = map[string]map[string]string{
	"bike": {
		"Engine oil change":         models.FieldLastOil,
		"Air filter clean/replace":  models.FieldLastAir,
		"Spark plug replace":        models.FieldLastSpark,
		"Catalytic converter check": models.FieldCatConverter,
	},
	"car": {
		"Engine oil change":         models.FieldLastOil,
		"Air filter clean/replace":  models.FieldLastAir,
		"Spark plug replace":        models.FieldLastSpark,
		"Catalytic converter check": models.FieldCatConverter,
		"Injector cleaning":         models.FieldInjectorCleaning,
		"EGR cleaning (diesel)":     models.FieldEGRCleaning,
		"O₂ sensor replacement":     models.FieldO2Sensor,
	},
	"van": {
		"Engine oil change":         models.FieldLastOil,
		"Air filter clean/replace":  models.FieldLastAir,
		"Spark plug replace":        models.FieldLastSpark,
		"Catalytic converter check": models.FieldCatConverter,
		"Injector cleaning":         models.FieldInjectorCleaning,
		"EGR cleaning":              models.FieldEGRCleaning,
		"DPF regeneration/clean":    models.FieldDPFCleaning,
	},
	"truck": {
		"Engine oil change":         models.FieldLastOil,
		"Air filter clean/replace":  models.FieldLastAir,
		"Spark plug replace":        models.FieldLastSpark,
		"Catalytic converter check": models.FieldCatConverter,
		"Injector service":          models.FieldInjectorCleaning,
		"EGR / DPF inspection":      models.FieldEGRCleaning,
		"DPF regeneration/clean":    models.FieldDPFCleaning,
		"Exhaust system inspection": models.FieldExhaustInspection,
	},
}

// FieldFor resolves the vehicle field holding the last-done value for a
// maintenance item on a given vehicle type.
func FieldFor(vehicleType, maintenanceItem string) (string, bool) {
	fields, ok := fieldMap[vehicleType]
	if !ok {
		return "", false
	}
	field, ok := fields[maintenanceItem]
	return field, ok
}

// FieldToItem maps a vehicle field key back to its display name. Used when
// recording service history from maintenance-field updates.
var FieldToItem = map[string]string{
	models.FieldLastOil:           "Engine oil change",
	models.FieldLastAir:           "Air filter clean/replace",
	models.FieldLastSpark:         "Spark plug replace",
	models.FieldCatConverter:      "Catalytic converter",
	models.FieldO2Sensor:          "O₂ Sensor",
	models.FieldInjectorCleaning:  "Injector Cleaning",
	models.FieldEGRCleaning:       "EGR Cleaning",
	models.FieldDPFCleaning:       "DPF Cleaning",
	models.FieldExhaustInspection: "Exhaust Inspection",
}

// AllowedUpdateFields lists the maintenance fields the vehicle-update
// endpoint may change, in the order changes are applied.
var AllowedUpdateFields = []string{
	models.FieldLastOil,
	models.FieldLastAir,
	models.FieldLastSpark,
	models.FieldCatConverter,
	models.FieldO2Sensor,
	models.FieldInjectorCleaning,
	models.FieldEGRCleaning,
	models.FieldDPFCleaning,
	models.FieldExhaustInspection,
}
