package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "hotelier/internal/domain/availability"
)

// AvailabilityRepository keeps one ledger document per (hotel, room). Holds
// are pushed into an embedded array; the whole array is never rewritten.
type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	col := db.Collection("agg_room_availability")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "hotel_id", Value: 1}, {Key: "room_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &AvailabilityRepository{col: col}
}

// Record fetches the ledger row for a room, creating an empty one on first
// access.
func (r *AvailabilityRepository) Record(ctx context.Context, hotelID, roomID int64) (*domainavailability.RoomAvailability, error) {
	now := time.Now().UTC()
	filter := bson.M{"hotel_id": hotelID, "room_id": roomID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"hotel_id":   hotelID,
			"room_id":    roomID,
			"holds":      []holdDocument{},
			"created_at": now.UnixMilli(),
			"updated_at": now.UnixMilli(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc availabilityDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AvailabilityRepository) AppendHold(ctx context.Context, hotelID, roomID int64, hold domainavailability.Hold) error {
	filter := bson.M{"hotel_id": hotelID, "room_id": roomID}
	update := bson.M{
		"$push": bson.M{"holds": newHoldDocument(hold)},
		"$set":  bson.M{"updated_at": time.Now().UTC().UnixMilli()},
	}
	out, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if out.MatchedCount == 0 {
		return errors.New("mongo: availability record missing")
	}
	return nil
}

func (r *AvailabilityRepository) ShiftHoldEnd(ctx context.Context, hotelID, roomID int64, linkID string, newTo time.Time) error {
	filter := bson.M{"hotel_id": hotelID, "room_id": roomID}
	update := bson.M{
		"$set": bson.M{
			"holds.$[h].to": newTo.UnixMilli(),
			"updated_at":    time.Now().UTC().UnixMilli(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"h.link_id": linkID}},
	})
	out, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if out.MatchedCount == 0 || out.ModifiedCount == 0 {
		return domainavailability.ErrHoldNotFound
	}
	return nil
}

type availabilityDocument struct {
	HotelID   int64          `bson:"hotel_id"`
	RoomID    int64          `bson:"room_id"`
	Holds     []holdDocument `bson:"holds"`
	CreatedAt int64          `bson:"created_at"`
	UpdatedAt int64          `bson:"updated_at"`
}

type holdDocument struct {
	From      int64  `bson:"from"`
	To        int64  `bson:"to"`
	Kind      string `bson:"kind"`
	LinkID    string `bson:"link_id"`
	CreatedAt int64  `bson:"created_at"`
}

func newHoldDocument(h domainavailability.Hold) holdDocument {
	return holdDocument{
		From:      h.From.UnixMilli(),
		To:        h.To.UnixMilli(),
		Kind:      string(h.Kind),
		LinkID:    h.LinkID,
		CreatedAt: h.CreatedAt.UnixMilli(),
	}
}

func (d availabilityDocument) toAggregate() *domainavailability.RoomAvailability {
	agg := &domainavailability.RoomAvailability{
		HotelID:   d.HotelID,
		RoomID:    d.RoomID,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
	for _, h := range d.Holds {
		agg.Holds = append(agg.Holds, domainavailability.Hold{
			From:      timestampToTime(h.From),
			To:        timestampToTime(h.To),
			Kind:      domainavailability.HoldKind(h.Kind),
			LinkID:    h.LinkID,
			CreatedAt: timestampToTime(h.CreatedAt),
		})
	}
	return agg
}

var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
