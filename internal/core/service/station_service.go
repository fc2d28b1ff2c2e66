package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// StationService provisions station identities and issues the tokens the
// ledger boundary uses to establish a verified caller identity.
type StationService struct {
	repo      ports.StationRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewStationService(repo ports.StationRepository, jwtSecret string, tokenTTL time.Duration) *StationService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &StationService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *StationService) Register(ctx context.Context, stationID, name, password string) (*domain.Station, error) {
	if stationID == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	station := &domain.Station{
		StationID:    stationID,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, station)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *StationService) Login(ctx context.Context, stationID, password string) (string, *domain.Station, error) {
	if stationID == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	station, err := s.repo.FindByStationID(ctx, stationID)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(station.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(station)
	if err != nil {
		return "", nil, err
	}

	return token, station, nil
}

func (s *StationService) generateToken(station *domain.Station) (string, error) {
	claims := jwt.MapClaims{
		"station_id": station.StationID,
		"name":       station.Name,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
