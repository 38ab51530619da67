package stays

import (
	"context"
	"time"

	"hotelier/internal/app/queries"
	"hotelier/internal/app/rateshop"
	"hotelier/internal/domain/pricing"
)

const rateShopKey = "stays.rate_shop"

// RateShopQuery prices a candidate stay without persisting anything, so
// desks can preview charges before committing a guest.
type RateShopQuery struct {
	HotelID            int64
	RoomIDs            []int64
	CheckIn            time.Time
	CheckOut           time.Time
	NumOfPersons       int
	NumOfExtraMattress int
	CouponCode         string
	VoucherCode        string
}

func (q RateShopQuery) Key() string { return rateShopKey }

type RateShopHandler struct {
	Engine *rateshop.Engine
}

func (h *RateShopHandler) Handle(ctx context.Context, query RateShopQuery) (*pricing.Quote, error) {
	quote, err := h.Engine.Quote(ctx, query.HotelID, rateshop.Request{
		RoomIDs:            query.RoomIDs,
		CheckIn:            query.CheckIn,
		CheckOut:           query.CheckOut,
		NumOfPersons:       query.NumOfPersons,
		NumOfExtraMattress: query.NumOfExtraMattress,
		CouponCode:         query.CouponCode,
		VoucherCode:        query.VoucherCode,
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

var _ queries.Handler[RateShopQuery, *pricing.Quote] = (*RateShopHandler)(nil)
