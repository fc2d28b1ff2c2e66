package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a shipment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrShipmentExists = errors.New("shipment already exists")
var ErrShipmentNotFound = errors.New("shipment not found")
var ErrUnauthorized = errors.New("caller is not authorized for this shipment")
var ErrInvalidState = errors.New("operation not valid in current status")
var ErrStationsExhausted = errors.New("no further transit station")
var ErrUnknownStatus = errors.New("unknown shipment status")

// ErrStaleRevision signals a lost optimistic-concurrency race on write.
// Under the mutation scheduler this should never happen for a healthy store.
var ErrStaleRevision = errors.New("shipment record was modified concurrently")

// ParseStatus converts an external status string to a Status, rejecting
// anything outside the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Terminal reports whether no further station progression is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// DamageClaim is a station's latest declared damage against a shipment.
type DamageClaim struct {
	Quantity uint64 `json:"quantity" bson:"quantity"`
	Reason   string `json:"reason" bson:"reason"`
}

// Shipment is the core aggregate root: one ledger record per tracked unit of
// goods, created once and mutated in place, never removed.
type Shipment struct {
	ID          uint64 `json:"id" bson:"_id"`
	Origin      string `json:"origin" bson:"origin"`
	Destination string `json:"destination" bson:"destination"`
	Quantity    uint64 `json:"quantity" bson:"quantity"`
	Status      Status `json:"status" bson:"status"`

	// TransitStations is the ordered custody chain, immutable after creation.
	// CurrentStationIndex is always within [0, len(TransitStations)] and never
	// decreases.
	TransitStations     []string `json:"transit_stations" bson:"transit_stations"`
	CurrentStationIndex int      `json:"current_station_index" bson:"current_station_index"`

	// TotalDamagedQuantity accumulates every claim ever filed, while
	// DamageReports keeps only each station's latest claim. Reporters lists
	// stations that filed at least once, in insertion order.
	TotalDamagedQuantity uint64                 `json:"total_damaged_quantity" bson:"total_damaged_quantity"`
	Reporters            []string               `json:"reporters" bson:"reporters"`
	DamageReports        map[string]DamageClaim `json:"damage_reports" bson:"damage_reports"`

	// StationsPassed is monotonic: once a station is recorded as having had
	// custody it is never removed.
	StationsPassed map[string]bool `json:"stations_passed" bson:"stations_passed"`

	// Revision guards writes; FeedSequence numbers emitted notifications.
	Revision     uint64 `json:"-" bson:"revision"`
	FeedSequence uint64 `json:"-" bson:"feed_sequence"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewShipment initializes a fresh ledger record: status pending, index 0,
// empty damage and custody state.
func NewShipment(id uint64, origin, destination string, quantity uint64, stations []string) *Shipment {
	now := time.Now().UTC()
	return &Shipment{
		ID:              id,
		Origin:          origin,
		Destination:     destination,
		Quantity:        quantity,
		Status:          StatusPending,
		TransitStations: append([]string(nil), stations...),
		DamageReports:   make(map[string]DamageClaim),
		StationsPassed:  make(map[string]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CurrentStation returns the station expected to act next. ok is false when
// the index has reached the end of the transit chain (or the chain is empty).
func (s *Shipment) CurrentStation() (string, bool) {
	if s.CurrentStationIndex >= len(s.TransitStations) {
		return "", false
	}
	return s.TransitStations[s.CurrentStationIndex], true
}

// HasPassed reports whether station was ever recorded as having custody.
func (s *Shipment) HasPassed(station string) bool {
	return s.StationsPassed[station]
}

// ClaimBy returns the caller's own latest claim, zero-valued if the caller
// never filed one.
func (s *Shipment) ClaimBy(station string) DamageClaim {
	return s.DamageReports[station]
}

// Clone returns a deep copy so readers never alias ledger state.
func (s *Shipment) Clone() *Shipment {
	clone := *s
	clone.TransitStations = append([]string(nil), s.TransitStations...)
	clone.Reporters = append([]string(nil), s.Reporters...)
	clone.DamageReports = make(map[string]DamageClaim, len(s.DamageReports))
	for k, v := range s.DamageReports {
		clone.DamageReports[k] = v
	}
	clone.StationsPassed = make(map[string]bool, len(s.StationsPassed))
	for k, v := range s.StationsPassed {
		clone.StationsPassed[k] = v
	}
	return &clone
}
