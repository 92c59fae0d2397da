package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shipwatch/tracking-engine/internal/core/domain"
)

const collectionShipments = "shipments"

type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments)}
}

// Create inserts a new shipment document. The unique index on order_id
// enforces one shipment per order; violations surface as ErrShipmentExists.
func (r *ShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	s.Version = 1
	_, err := r.col.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrShipmentExists
		}
		return err
	}
	return nil
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ShipmentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

func (r *ShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.col.FindOne(ctx, filter).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update persists a mutated shipment guarded by its version: the write only
// matches the document if nobody bumped the version since this copy was
// loaded. delivered_date is deliberately not written here; ClaimDelivery
// owns that field.
func (r *ShipmentRepository) Update(ctx context.Context, s *domain.Shipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": s.ID, "version": s.Version}
	update := bson.M{
		"$set": bson.M{
			"carrier":              s.Carrier,
			"tracking_number":      s.TrackingNumber,
			"status":               s.Status,
			"tracking_history":     s.TrackingHistory,
			"status_history":       s.StatusHistory,
			"last_updated":         s.LastUpdated,
			"raw_carrier_response": s.RawCarrierResponse,
		},
		"$inc": bson.M{"version": 1},
	}
	if s.EstimatedDeliveryDate != nil {
		update["$set"].(bson.M)["estimated_delivery_date"] = s.EstimatedDeliveryDate
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Missing document and stale version both produce zero matches;
		// look the document up to tell them apart.
		if _, err := r.FindByID(ctx, s.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	s.Version++
	return nil
}

// ClaimDelivery sets delivered_date iff it is still unset. The filter is
// evaluated atomically by the server, so of any number of concurrent
// claimants exactly one observes a match.
func (r *ShipmentRepository) ClaimDelivery(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "delivered_date": nil}
	update := bson.M{"$set": bson.M{"delivered_date": at.UTC()}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	// No match: either already claimed or the shipment is gone.
	if _, err := r.FindByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *ShipmentRepository) CountByStatus(ctx context.Context) (map[domain.CanonicalStatus]int64, error) {
	buckets, err := r.groupCount(ctx, "$status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.CanonicalStatus]int64, len(buckets))
	for k, v := range buckets {
		out[domain.CanonicalStatus(k)] = v
	}
	return out, nil
}

func (r *ShipmentRepository) CountByCarrier(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "$carrier")
}

func (r *ShipmentRepository) groupCount(ctx context.Context, field string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]int64)
	for cursor.Next(ctx) {
		var bucket struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&bucket); err != nil {
			return nil, err
		}
		out[bucket.ID] = bucket.Count
	}
	return out, cursor.Err()
}

func (r *ShipmentRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since.UTC()}})
}

// EnsureIndexes creates necessary indexes on the shipments collection. The
// unique order_id index is what backs the one-shipment-per-order rule.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "carrier", Value: 1}, {Key: "tracking_number", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
