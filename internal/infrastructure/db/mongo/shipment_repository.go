package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

const collectionShipments = "shipments"

// ShipmentRepository persists shipment records as one document per
// identifier, the shipment ID serving as _id. The passed-station set and
// damage state live inside the document, so every mutation is a single
// atomic replace.
type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments)}
}

// Insert creates a new record; a duplicate identifier maps to
// domain.ErrShipmentExists.
func (r *ShipmentRepository) Insert(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrShipmentExists
		}
		return err
	}
	return nil
}

// Find retrieves a record by identifier.
func (r *ShipmentRepository) Find(ctx context.Context, id uint64) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	if s.DamageReports == nil {
		s.DamageReports = make(map[string]domain.DamageClaim)
	}
	if s.StationsPassed == nil {
		s.StationsPassed = make(map[string]bool)
	}
	return &s, nil
}

// Replace overwrites the record guarded by the revision it was read at. A
// non-matching revision means another writer got there first; nothing is
// written and domain.ErrStaleRevision is returned.
func (r *ShipmentRepository) Replace(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": s.ID, "revision": s.Revision}
	s.Revision++

	res, err := r.col.ReplaceOne(ctx, filter, s)
	if err != nil {
		s.Revision--
		return err
	}
	if res.MatchedCount == 0 {
		s.Revision--
		return domain.ErrStaleRevision
	}
	return nil
}
