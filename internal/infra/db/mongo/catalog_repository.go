package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domaincatalog "hotelier/internal/domain/catalog"
)

// CatalogRepository reads the pricing inputs: rooms, rate cards and discount
// definitions. All lookups are by natural key; missing rows map to the
// catalog sentinel errors.
type CatalogRepository struct {
	rooms    *mongo.Collection
	rates    *mongo.Collection
	coupons  *mongo.Collection
	vouchers *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		rooms:    db.Collection("cat_room"),
		rates:    db.Collection("cat_rate"),
		coupons:  db.Collection("cat_coupon"),
		vouchers: db.Collection("cat_voucher"),
	}
}

func (r *CatalogRepository) Room(ctx context.Context, hotelID, roomID int64) (domaincatalog.Room, error) {
	var doc roomDocument
	err := r.rooms.FindOne(ctx, bson.M{"hotel_id": hotelID, "room_id": roomID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaincatalog.Room{}, domaincatalog.ErrRoomNotFound
		}
		return domaincatalog.Room{}, err
	}
	return domaincatalog.Room(doc), nil
}

func (r *CatalogRepository) RoomRate(ctx context.Context, hotelID, roomID int64) (domaincatalog.Rate, error) {
	var doc rateDocument
	err := r.rates.FindOne(ctx, bson.M{"hotel_id": hotelID, "room_id": roomID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaincatalog.Rate{}, domaincatalog.ErrRateNotFound
		}
		return domaincatalog.Rate{}, err
	}
	return domaincatalog.Rate(doc), nil
}

func (r *CatalogRepository) Coupon(ctx context.Context, hotelID int64, code string) (domaincatalog.Coupon, error) {
	var doc couponDocument
	err := r.coupons.FindOne(ctx, bson.M{"hotel_id": hotelID, "code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaincatalog.Coupon{}, domaincatalog.ErrCouponNotFound
		}
		return domaincatalog.Coupon{}, err
	}
	return domaincatalog.Coupon(doc), nil
}

func (r *CatalogRepository) Voucher(ctx context.Context, hotelID int64, code string) (domaincatalog.Voucher, error) {
	var doc voucherDocument
	err := r.vouchers.FindOne(ctx, bson.M{"hotel_id": hotelID, "code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaincatalog.Voucher{}, domaincatalog.ErrVoucherNotFound
		}
		return domaincatalog.Voucher{}, err
	}
	return domaincatalog.Voucher(doc), nil
}

type roomDocument struct {
	HotelID     int64 `bson:"hotel_id"`
	RoomID      int64 `bson:"room_id"`
	RoomNumber  int   `bson:"room_number"`
	RoomType    int   `bson:"room_type"`
	NumPerson   int   `bson:"num_person"`
	MaxMattress int   `bson:"max_mattress"`
}

type rateDocument struct {
	HotelID       int64   `bson:"hotel_id"`
	RoomID        int64   `bson:"room_id"`
	PerDayCharge  float64 `bson:"per_day_charge"`
	EarlyCheckIn  float64 `bson:"early_check_in"`
	LateCheckOut  float64 `bson:"late_check_out"`
	ExtraMattress float64 `bson:"extra_mattress"`
}

type couponDocument struct {
	HotelID     int64   `bson:"hotel_id"`
	Code        string  `bson:"code"`
	DiscountPer float64 `bson:"discount_per"`
	IsValid     bool    `bson:"is_valid"`
}

type voucherDocument struct {
	HotelID int64   `bson:"hotel_id"`
	Code    string  `bson:"code"`
	Amount  float64 `bson:"amount"`
	IsValid bool    `bson:"is_valid"`
}

var (
	_ domaincatalog.RoomSource     = (*CatalogRepository)(nil)
	_ domaincatalog.RateSource     = (*CatalogRepository)(nil)
	_ domaincatalog.DiscountSource = (*CatalogRepository)(nil)
)
