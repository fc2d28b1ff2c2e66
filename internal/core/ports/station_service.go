package ports

import (
	"context"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// StationService provisions and authenticates station identities. The ledger
// core never calls this; it exists so the HTTP boundary can hand the core a
// verified caller identity.
type StationService interface {
	Register(ctx context.Context, stationID, name, password string) (*domain.Station, error)
	Login(ctx context.Context, stationID, password string) (string, *domain.Station, error)
}
