package ports

import (
	"context"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// ShipmentRepository defines persistence operations for shipment records.
// The store is a keyed table: one document per shipment identifier, holding
// the full record including the passed-station set.
type ShipmentRepository interface {
	// Insert creates a new record. Returns domain.ErrShipmentExists when the
	// identifier is already present.
	Insert(ctx context.Context, s *domain.Shipment) error

	// Find retrieves a record by identifier. Returns domain.ErrShipmentNotFound
	// when absent. The returned record is owned by the caller.
	Find(ctx context.Context, id uint64) (*domain.Shipment, error)

	// Replace overwrites the record guarded by its revision, bumping the
	// revision on success. Returns domain.ErrStaleRevision when the stored
	// revision no longer matches, leaving the record untouched.
	Replace(ctx context.Context, s *domain.Shipment) error
}
