package ports

import (
	"context"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// NotificationRepository persists the durable append-only notification feed.
type NotificationRepository interface {
	Append(ctx context.Context, n *domain.Notification) error
	// ListByShipment returns the shipment's feed ordered by sequence.
	ListByShipment(ctx context.Context, shipmentID uint64) ([]domain.Notification, error)
}

// NotificationPublisher pushes feed entries to external subscribers.
// Publishing is best-effort: a committed mutation is never rolled back
// because a subscriber-side push failed.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}
