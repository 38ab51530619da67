package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "hotelier/internal/domain/booking"
	"hotelier/internal/domain/shared/daterange"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, hotelID int64, id string) (*domainbooking.Booking, error) {
	var doc bookingDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id, "quote.hotel_id": hotelID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	out, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if out.MatchedCount == 0 && out.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

// Replace overwrites the stored document whole, used at settlement where the
// recomputed quote and the breakup must land together.
func (r *BookingRepository) Replace(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	out, err := r.col.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return err
	}
	if out.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ByCheckInDay(ctx context.Context, hotelID int64, day time.Time) ([]*domainbooking.Booking, error) {
	start := daterange.Day(day)
	filter := bson.M{
		"quote.hotel_id": hotelID,
		"quote.stay.check_in": bson.M{
			"$gte": start.UnixMilli(),
			"$lt":  start.AddDate(0, 0, 1).UnixMilli(),
		},
	}
	return r.find(ctx, filter)
}

func (r *BookingRepository) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"quote.hotel_id": hotelID,
		"quote.stay.check_in": bson.M{
			"$gte": daterange.Day(from).UnixMilli(),
			"$lte": daterange.Day(to).UnixMilli(),
		},
	}
	return r.find(ctx, filter)
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "quote.stay.check_in", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID        string          `bson:"_id"`
	GuestID   string          `bson:"guest_id"`
	ResID     string          `bson:"res_id,omitempty"`
	Quote     quoteDocument   `bson:"quote"`
	Status    string          `bson:"status"`
	Payment   paymentDocument `bson:"payment"`
	CreatedAt int64           `bson:"created_at"`
	UpdatedAt int64           `bson:"updated_at"`
	Version   int64           `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        b.ID,
		GuestID:   b.GuestID,
		ResID:     b.ResID,
		Quote:     newQuoteDocument(b.Quote),
		Status:    string(b.Status),
		Payment:   newPaymentDocument(b.Payment),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        d.ID,
		GuestID:   d.GuestID,
		ResID:     d.ResID,
		Quote:     d.Quote.toQuote(),
		Status:    domainbooking.Status(d.Status),
		Payment:   d.Payment.toDetails(),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
