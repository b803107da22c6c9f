package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a customer-registered vehicle, keyed by the externally
// assigned VehicleID. The "last done" fields hold free-text elapsed times
// such as "6 Month" or "1.5 Years".
type Vehicle struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID      string             `bson:"vehicle_id" json:"vehicleId"` // unique, assigned externally
	Model          string             `bson:"model" json:"model"`
	Odometer       string             `bson:"odometer" json:"odometer"`
	CurrentCity    string             `bson:"current_city" json:"currentCity"`
	UsageFrequency string             `bson:"usage_frequency" json:"usageFrequency"` // "daily", "weekly", "monthly"
	VehicleType    string             `bson:"vehicle_type" json:"vehicleType"`       // "bike", "car", "van", "truck"

	LastOil           string `bson:"last_oil" json:"lastOil"`
	LastAir           string `bson:"last_air" json:"lastAir"`
	LastSpark         string `bson:"last_spark" json:"lastSpark"`
	CatConverter      string `bson:"cat_converter" json:"catconverter"`
	O2Sensor          string `bson:"o2_sensor" json:"Osensor"`
	InjectorCleaning  string `bson:"injector_cleaning" json:"injectorcleaning"`
	EGRCleaning       string `bson:"egr_cleaning" json:"EGRcleaning"`
	DPFCleaning       string `bson:"dpf_cleaning" json:"DPFcleaning"`
	ExhaustInspection string `bson:"exhaust_inspection" json:"Exhaustsysteminspection"`

	// Latest emissions test readings, stored as entered.
	HC       string `bson:"hc" json:"hc"`
	CO       string `bson:"co" json:"co"`
	CO2      string `bson:"co2" json:"co2"`
	TestDate string `bson:"test_date" json:"testDate"`

	Phone     string    `bson:"phone" json:"phone"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Maintenance field keys used by the item-to-field mapping and the
// maintenance-update endpoint. These are wire-level names and must not
// drift from the JSON keys above.
const (
	FieldLastOil           = "lastOil"
	FieldLastAir           = "lastAir"
	FieldLastSpark         = "lastSpark"
	FieldCatConverter      = "catconverter"
	FieldO2Sensor          = "Osensor"
	FieldInjectorCleaning  = "injectorcleaning"
	FieldEGRCleaning       = "EGRcleaning"
	FieldDPFCleaning       = "DPFcleaning"
	FieldExhaustInspection = "Exhaustsysteminspection"
)

// LastDone returns the vehicle's stored value for a maintenance field key.
// Unknown keys return ok=false rather than resolving to an empty value, so
// a typo in a field map cannot masquerade as missing data.
func (v *Vehicle) LastDone(field string) (value string, ok bool) {
	switch field {
	case FieldLastOil:
		return v.LastOil, true
	case FieldLastAir:
		return v.LastAir, true
	case FieldLastSpark:
		return v.LastSpark, true
	case FieldCatConverter:
		return v.CatConverter, true
	case FieldO2Sensor:
		return v.O2Sensor, true
	case FieldInjectorCleaning:
		return v.InjectorCleaning, true
	case FieldEGRCleaning:
		return v.EGRCleaning, true
	case FieldDPFCleaning:
		return v.DPFCleaning, true
	case FieldExhaustInspection:
		return v.ExhaustInspection, true
	default:
		return "", false
	}
}

// SetLastDone sets the vehicle's value for a maintenance field key.
func (v *Vehicle) SetLastDone(field, value string) bool {
	switch field {
	case FieldLastOil:
		v.LastOil = value
	case FieldLastAir:
		v.LastAir = value
	case FieldLastSpark:
		v.LastSpark = value
	case FieldCatConverter:
		v.CatConverter = value
	case FieldO2Sensor:
		v.O2Sensor = value
	case FieldInjectorCleaning:
		v.InjectorCleaning = value
	case FieldEGRCleaning:
		v.EGRCleaning = value
	case FieldDPFCleaning:
		v.DPFCleaning = value
	case FieldExhaustInspection:
		v.ExhaustInspection = value
	default:
		return false
	}
	return true
}
