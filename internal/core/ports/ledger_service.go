package ports

import (
	"context"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// CreateShipmentInput carries all data needed to create a new ledger record.
// Caller identity is deliberately absent: creation is open to any
// authenticated identity for a fresh identifier.
type CreateShipmentInput struct {
	ID              uint64
	Origin          string
	Destination     string
	Quantity        uint64
	TransitStations []string
}

// ShipmentDetail is the full record view returned by Get, extended with the
// calling station's own damage claim (zero-valued if it never filed one).
type ShipmentDetail struct {
	Shipment    domain.Shipment
	CallerClaim domain.DamageClaim
}

// DamageReportView is one (station, latest claim) pair, in reporter
// insertion order.
type DamageReportView struct {
	Station  string
	Quantity uint64
	Reason   string
}

// LedgerService defines the operations of the shipment custody ledger.
// Every mutating operation threads the verified caller identity explicitly.
type LedgerService interface {
	Create(ctx context.Context, input CreateShipmentInput) error
	SetStatus(ctx context.Context, id uint64, status string, caller string) error
	Advance(ctx context.Context, id uint64, caller string) error
	ReportDamage(ctx context.Context, id uint64, caller string, quantity uint64, reason string) error

	Get(ctx context.Context, id uint64, caller string) (*ShipmentDetail, error)
	ListDamageReports(ctx context.Context, id uint64) ([]DamageReportView, error)
	StationHasPassed(ctx context.Context, id uint64, station string) (bool, error)
	ListNotifications(ctx context.Context, id uint64) ([]domain.Notification, error)
}
