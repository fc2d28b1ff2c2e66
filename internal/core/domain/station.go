package domain

import (
	"errors"
	"time"
)

var ErrStationExists = errors.New("station already registered")
var ErrStationNotFound = errors.New("station not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Station models a custodian identity along the transit path. The ledger core
// treats the station ID as an opaque caller identity; this record exists only
// so the identity-provisioning boundary can authenticate callers.
type Station struct {
	ID           string    `json:"id"`
	StationID    string    `json:"station_id"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
