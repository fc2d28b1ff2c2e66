package ports

import (
	"context"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// StationRepository defines persistence for station identity accounts.
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) (*domain.Station, error)
	FindByStationID(ctx context.Context, stationID string) (*domain.Station, error)
}
