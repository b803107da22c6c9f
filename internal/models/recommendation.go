package models

// Status classifies how urgently a maintenance item is due.
type Status string

const (
	StatusOK      Status = "OK"
	StatusDueSoon Status = "DUE SOON"
	StatusOverdue Status = "OVERDUE"
	StatusUnknown Status = "UNKNOWN"
)

// Basis says whether a rule was evaluated on elapsed time or accumulated
// distance.
type Basis string

const (
	BasisTime     Basis = "TIME"
	BasisDistance Basis = "DISTANCE"
)

// Recommendation is one (vehicle, standard) evaluation result. It is
// derived on every request and never persisted. TIME rows carry the raw
// last-done string, DISTANCE rows the estimated annual km.
type Recommendation struct {
	VehicleID           string   `json:"vehicleId"`
	VehicleType         string   `json:"vehicleType"`
	MaintenanceItem     string   `json:"maintenanceItem"`
	Status              Status   `json:"status"`
	Basis               Basis    `json:"basis"`
	LastDone            *string  `json:"lastDone,omitempty"`
	EstimatedAnnualKm   *float64 `json:"estimatedAnnualKm,omitempty"`
	NextMaintenanceDays *float64 `json:"nextMaintenanceDays"`
	PollutionImpact     []string `json:"pollutionImpact"`
}
