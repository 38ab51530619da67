// Package rateshop prices a candidate stay against current rates, discounts
// and room availability. Quoting performs read-only lookups and has no side
// effects, so callers may repeat it freely.
package rateshop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelier/internal/domain/availability"
	"hotelier/internal/domain/catalog"
	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/shared/daterange"
)

var (
	ErrNoRooms          = errors.New("rateshop: at least one room required")
	ErrCapacityExceeded = errors.New("rateshop: persons or mattresses exceed combined room capacity")
)

// Request is the client-supplied stay candidate.
type Request struct {
	RoomIDs            []int64
	CheckIn            time.Time
	CheckOut           time.Time
	NumOfPersons       int
	NumOfExtraMattress int
	CouponCode         string
	VoucherCode        string
}

// Engine combines the read-only lookups into a quote. All collaborators are
// injected; the engine holds no ambient state.
type Engine struct {
	Rooms        catalog.RoomSource
	Rates        catalog.RateSource
	Discounts    catalog.DiscountSource
	Availability availability.Repository
}

// Quote prices the stay or fails without partial results. Any occupied room
// or insufficient combined capacity rejects the whole request.
func (e *Engine) Quote(ctx context.Context, hotelID int64, req Request) (pricing.Quote, error) {
	if len(req.RoomIDs) == 0 {
		return pricing.Quote{}, ErrNoRooms
	}
	stay, err := daterange.New(req.CheckIn, req.CheckOut)
	if err != nil {
		return pricing.Quote{}, err
	}

	var capPersons, capMattress int
	for _, roomID := range req.RoomIDs {
		record, err := e.Availability.Record(ctx, hotelID, roomID)
		if err != nil {
			return pricing.Quote{}, fmt.Errorf("rateshop: availability for room %d: %w", roomID, err)
		}
		if !record.IsFree(stay) {
			return pricing.Quote{}, fmt.Errorf("rateshop: room %d: %w", roomID, availability.ErrRoomUnavailable)
		}
		room, err := e.Rooms.Room(ctx, hotelID, roomID)
		if err != nil {
			return pricing.Quote{}, err
		}
		capPersons += room.NumPerson
		capMattress += room.MaxMattress
	}
	if capPersons < req.NumOfPersons || capMattress < req.NumOfExtraMattress {
		return pricing.Quote{}, ErrCapacityExceeded
	}

	quote := pricing.Quote{
		HotelID:            hotelID,
		RoomIDs:            append([]int64(nil), req.RoomIDs...),
		Stay:               stay,
		NumOfPersons:       req.NumOfPersons,
		NumOfExtraMattress: req.NumOfExtraMattress,
		CouponCode:         req.CouponCode,
		VoucherCode:        req.VoucherCode,
	}
	for _, roomID := range req.RoomIDs {
		rate, err := e.Rates.RoomRate(ctx, hotelID, roomID)
		if err != nil {
			return pricing.Quote{}, err
		}
		quote.Rates.PerDayCharge += rate.PerDayCharge
		// Rooms booked together share these policy rates; the last room's
		// values win.
		quote.Rates.EarlyCheckIn = rate.EarlyCheckIn
		quote.Rates.LateCheckOut = rate.LateCheckOut
		quote.Rates.ExtraMattress = rate.ExtraMattress
	}
	if err := quote.Price(); err != nil {
		return pricing.Quote{}, err
	}

	quote.Charges.VoucherAmount, err = ResolveVoucher(ctx, e.Discounts, hotelID, req.VoucherCode)
	if err != nil {
		return pricing.Quote{}, err
	}
	quote.Charges.CouponDisPercentage, err = ResolveCoupon(ctx, e.Discounts, hotelID, req.CouponCode)
	if err != nil {
		return pricing.Quote{}, err
	}
	return quote, nil
}

// ResolveCoupon turns a coupon code into its discount percentage. Missing or
// invalidated codes contribute zero; only storage failures propagate.
func ResolveCoupon(ctx context.Context, src catalog.DiscountSource, hotelID int64, code string) (float64, error) {
	if code == "" {
		return 0, nil
	}
	coupon, err := src.Coupon(ctx, hotelID, code)
	if err != nil {
		if errors.Is(err, catalog.ErrCouponNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !coupon.IsValid {
		return 0, nil
	}
	return coupon.DiscountPer, nil
}

// ResolveVoucher turns a voucher code into its flat amount, zero when the
// code misses or is no longer valid.
func ResolveVoucher(ctx context.Context, src catalog.DiscountSource, hotelID int64, code string) (float64, error) {
	if code == "" {
		return 0, nil
	}
	voucher, err := src.Voucher(ctx, hotelID, code)
	if err != nil {
		if errors.Is(err, catalog.ErrVoucherNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !voucher.IsValid {
		return 0, nil
	}
	return voucher.Amount, nil
}
