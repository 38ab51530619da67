package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainreservation "hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("agg_reservation")}
}

func (r *ReservationRepository) ByID(ctx context.Context, hotelID int64, id string) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id, "quote.hotel_id": hotelID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
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
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ActiveFrom(ctx context.Context, hotelID int64, day time.Time) ([]*domainreservation.Reservation, error) {
	filter := bson.M{
		"quote.hotel_id":      hotelID,
		"status":              string(domainreservation.StatusActive),
		"quote.stay.check_in": bson.M{"$gte": daterange.Day(day).UnixMilli()},
	}
	return r.find(ctx, filter)
}

func (r *ReservationRepository) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainreservation.Reservation, error) {
	filter := bson.M{
		"quote.hotel_id": hotelID,
		"quote.stay.check_in": bson.M{
			"$gte": daterange.Day(from).UnixMilli(),
			"$lte": daterange.Day(to).UnixMilli(),
		},
	}
	return r.find(ctx, filter)
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M) ([]*domainreservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "quote.stay.check_in", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainreservation.Reservation
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type reservationDocument struct {
	ID           string          `bson:"_id"`
	GuestID      string          `bson:"guest_id"`
	Quote        quoteDocument   `bson:"quote"`
	Status       string          `bson:"status"`
	Confirmation string          `bson:"confirmation"`
	CheckedIn    bool            `bson:"checked_in"`
	CheckedOut   bool            `bson:"checked_out"`
	Payment      paymentDocument `bson:"payment"`
	CreatedAt    int64           `bson:"created_at"`
	UpdatedAt    int64           `bson:"updated_at"`
	Version      int64           `bson:"version"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:           res.ID,
		GuestID:      res.GuestID,
		Quote:        newQuoteDocument(res.Quote),
		Status:       string(res.Status),
		Confirmation: string(res.Confirmation),
		CheckedIn:    res.CheckedIn,
		CheckedOut:   res.CheckedOut,
		Payment:      newPaymentDocument(res.Payment),
		CreatedAt:    res.CreatedAt.UnixMilli(),
		UpdatedAt:    res.UpdatedAt.UnixMilli(),
		Version:      res.Version,
	}
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	return &domainreservation.Reservation{
		ID:           d.ID,
		GuestID:      d.GuestID,
		Quote:        d.Quote.toQuote(),
		Status:       domainreservation.Status(d.Status),
		Confirmation: domainreservation.Confirmation(d.Confirmation),
		CheckedIn:    d.CheckedIn,
		CheckedOut:   d.CheckedOut,
		Payment:      d.Payment.toDetails(),
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
}

var _ domainreservation.Repository = (*ReservationRepository)(nil)
