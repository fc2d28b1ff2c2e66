package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

const collectionNotifications = "ledger_notifications"

// NotificationRepository implements the durable append-only feed on a Mongo
// collection. Entries are never updated or deleted.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

// Append persists one feed entry.
func (r *NotificationRepository) Append(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, n)
	return err
}

// ListByShipment returns the shipment's feed ordered by sequence.
func (r *NotificationRepository) ListByShipment(ctx context.Context, shipmentID uint64) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []domain.Notification
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// EnsureIndexes creates the feed's ordering index. The (shipment_id,
// sequence) pair is unique because sequences are assigned under the
// per-shipment mutation lock.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "shipment_id", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.col.Indexes().CreateOne(ctx, index)
	return err
}
