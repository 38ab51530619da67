// Package catalog holds the read-only inputs to pricing: rooms with their
// capacity, per-room rates and per-hotel discount definitions. The engine
// never mutates any of these.
package catalog

import (
	"context"
	"errors"
)

var (
	ErrRoomNotFound    = errors.New("catalog: room not found")
	ErrRateNotFound    = errors.New("catalog: rate not found")
	ErrCouponNotFound  = errors.New("catalog: coupon not found")
	ErrVoucherNotFound = errors.New("catalog: voucher not found")
)

type Room struct {
	HotelID     int64
	RoomID      int64
	RoomNumber  int
	RoomType    int
	NumPerson   int
	MaxMattress int
}

// Rate is the static per-room price card.
type Rate struct {
	HotelID       int64
	RoomID        int64
	PerDayCharge  float64
	EarlyCheckIn  float64
	LateCheckOut  float64
	ExtraMattress float64
}

type Coupon struct {
	HotelID     int64
	Code        string
	DiscountPer float64
	IsValid     bool
}

type Voucher struct {
	HotelID int64
	Code    string
	Amount  float64
	IsValid bool
}

type RoomSource interface {
	Room(ctx context.Context, hotelID, roomID int64) (Room, error)
}

type RateSource interface {
	RoomRate(ctx context.Context, hotelID, roomID int64) (Rate, error)
}

type DiscountSource interface {
	Coupon(ctx context.Context, hotelID int64, code string) (Coupon, error)
	Voucher(ctx context.Context, hotelID int64, code string) (Voucher, error)
}
