package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

const collectionStations = "stations"

// StationRepository persists station identity accounts.
type StationRepository struct {
	col *mongo.Collection
}

func NewStationRepository(db *mongo.Database) *StationRepository {
	return &StationRepository{col: db.Collection(collectionStations)}
}

type stationDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	StationID    string             `bson:"station_id"`
	Name         string             `bson:"name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *StationRepository) Create(ctx context.Context, station *domain.Station) (*domain.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := stationDoc{
		StationID:    station.StationID,
		Name:         station.Name,
		PasswordHash: station.PasswordHash,
		CreatedAt:    station.CreatedAt.Unix(),
		UpdatedAt:    station.UpdatedAt.Unix(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStationExists
		}
		return nil, fmt.Errorf("insert station: %w", err)
	}

	// fetch back to get the generated ID
	return r.FindByStationID(ctx, station.StationID)
}

func (r *StationRepository) FindByStationID(ctx context.Context, stationID string) (*domain.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc stationDoc
	if err := r.col.FindOne(ctx, bson.M{"station_id": stationID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStationNotFound
		}
		return nil, fmt.Errorf("find station: %w", err)
	}

	return &domain.Station{
		ID:           doc.ID.Hex(),
		StationID:    doc.StationID,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}, nil
}

// EnsureIndexes creates the unique station_id index.
func (r *StationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "station_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.col.Indexes().CreateOne(ctx, index)
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
