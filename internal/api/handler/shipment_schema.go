package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// createShipmentRequest creates a new ledger record. transit_stations may be
// empty: such a shipment can never advance and only reaches a terminal
// status through an explicit override.
type createShipmentRequest struct {
	ID              uint64   `json:"id"               validate:"required,gt=0"`
	Origin          string   `json:"origin"           validate:"required"`
	Destination     string   `json:"destination"      validate:"required"`
	Quantity        uint64   `json:"quantity"         validate:"required,gt=0"`
	TransitStations []string `json:"transit_stations"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered cancelled"`
}

type reportDamageRequest struct {
	Quantity uint64 `json:"quantity"`
	Reason   string `json:"reason" validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer, intentionally separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type shipmentLinks struct {
	Self          string `json:"self"`
	Damage        string `json:"damage"`
	Notifications string `json:"notifications"`
}

type damageClaimResponse struct {
	Quantity uint64 `json:"quantity"`
	Reason   string `json:"reason"`
}

type createShipmentResponse struct {
	ID     uint64        `json:"id"`
	Status string        `json:"status"`
	Links  shipmentLinks `json:"_links"`
}

type getShipmentResponse struct {
	ID                   uint64              `json:"id"`
	Origin               string              `json:"origin"`
	Destination          string              `json:"destination"`
	Quantity             uint64              `json:"quantity"`
	Status               string              `json:"status"`
	TransitStations      []string            `json:"transit_stations"`
	CurrentStationIndex  int                 `json:"current_station_index"`
	TotalDamagedQuantity uint64              `json:"total_damaged_quantity"`
	Reporters            []string            `json:"reporters"`
	StationsPassed       []string            `json:"stations_passed"`
	CallerClaim          damageClaimResponse `json:"caller_claim"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	Links                shipmentLinks       `json:"_links"`
}

type damageReportResponse struct {
	Station  string `json:"station"`
	Quantity uint64 `json:"quantity"`
	Reason   string `json:"reason"`
}

type stationPassedResponse struct {
	ShipmentID uint64 `json:"shipment_id"`
	Station    string `json:"station"`
	Passed     bool   `json:"passed"`
}

type notificationResponse struct {
	Sequence  uint64    `json:"sequence"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status,omitempty"`
	Station   string    `json:"station,omitempty"`
	Quantity  uint64    `json:"quantity,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}
