package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainguest "hotelier/internal/domain/guest"
)

type GuestRepository struct {
	col *mongo.Collection
}

func NewGuestRepository(db *mongo.Database) *GuestRepository {
	return &GuestRepository{col: db.Collection("agg_guest")}
}

func (r *GuestRepository) Create(ctx context.Context, g *domainguest.Guest) error {
	_, err := r.col.InsertOne(ctx, newGuestDocument(g))
	return err
}

func (r *GuestRepository) ByID(ctx context.Context, id string) (*domainguest.Guest, error) {
	var doc guestDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainguest.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

type guestDocument struct {
	ID          string `bson:"_id"`
	HotelID     int64  `bson:"hotel_id"`
	FirstName   string `bson:"first_name"`
	LastName    string `bson:"last_name,omitempty"`
	Email       string `bson:"email,omitempty"`
	PhoneNum    string `bson:"phone_num,omitempty"`
	IdentityNum string `bson:"identity_num,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
}

func newGuestDocument(g *domainguest.Guest) guestDocument {
	return guestDocument{
		ID:          g.ID,
		HotelID:     g.HotelID,
		FirstName:   g.FirstName,
		LastName:    g.LastName,
		Email:       g.Email,
		PhoneNum:    g.PhoneNum,
		IdentityNum: g.IdentityNum,
		CreatedAt:   g.CreatedAt.UnixMilli(),
	}
}

func (d guestDocument) toAggregate() *domainguest.Guest {
	return &domainguest.Guest{
		ID:          d.ID,
		HotelID:     d.HotelID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNum:    d.PhoneNum,
		IdentityNum: d.IdentityNum,
		CreatedAt:   timestampToTime(d.CreatedAt),
	}
}

var _ domainguest.Repository = (*GuestRepository)(nil)
