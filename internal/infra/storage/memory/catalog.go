package memory

import (
	"context"
	"sync"

	domaincatalog "hotelier/internal/domain/catalog"
)

// Catalog is a static in-memory catalog: rooms, rate cards and discount
// definitions keyed the way the database indexes them.
type Catalog struct {
	mu       sync.RWMutex
	rooms    map[ledgerKey]domaincatalog.Room
	rates    map[ledgerKey]domaincatalog.Rate
	coupons  map[codeKey]domaincatalog.Coupon
	vouchers map[codeKey]domaincatalog.Voucher
}

type codeKey struct {
	hotelID int64
	code    string
}

func NewCatalog() *Catalog {
	return &Catalog{
		rooms:    make(map[ledgerKey]domaincatalog.Room),
		rates:    make(map[ledgerKey]domaincatalog.Rate),
		coupons:  make(map[codeKey]domaincatalog.Coupon),
		vouchers: make(map[codeKey]domaincatalog.Voucher),
	}
}

func (c *Catalog) AddRoom(room domaincatalog.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[ledgerKey{hotelID: room.HotelID, roomID: room.RoomID}] = room
}

func (c *Catalog) AddRate(rate domaincatalog.Rate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[ledgerKey{hotelID: rate.HotelID, roomID: rate.RoomID}] = rate
}

func (c *Catalog) AddCoupon(coupon domaincatalog.Coupon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupons[codeKey{hotelID: coupon.HotelID, code: coupon.Code}] = coupon
}

func (c *Catalog) AddVoucher(voucher domaincatalog.Voucher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vouchers[codeKey{hotelID: voucher.HotelID, code: voucher.Code}] = voucher
}

func (c *Catalog) Room(ctx context.Context, hotelID, roomID int64) (domaincatalog.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	room, ok := c.rooms[ledgerKey{hotelID: hotelID, roomID: roomID}]
	if !ok {
		return domaincatalog.Room{}, domaincatalog.ErrRoomNotFound
	}
	return room, nil
}

func (c *Catalog) RoomRate(ctx context.Context, hotelID, roomID int64) (domaincatalog.Rate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.rates[ledgerKey{hotelID: hotelID, roomID: roomID}]
	if !ok {
		return domaincatalog.Rate{}, domaincatalog.ErrRateNotFound
	}
	return rate, nil
}

func (c *Catalog) Coupon(ctx context.Context, hotelID int64, code string) (domaincatalog.Coupon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coupon, ok := c.coupons[codeKey{hotelID: hotelID, code: code}]
	if !ok {
		return domaincatalog.Coupon{}, domaincatalog.ErrCouponNotFound
	}
	return coupon, nil
}

func (c *Catalog) Voucher(ctx context.Context, hotelID int64, code string) (domaincatalog.Voucher, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	voucher, ok := c.vouchers[codeKey{hotelID: hotelID, code: code}]
	if !ok {
		return domaincatalog.Voucher{}, domaincatalog.ErrVoucherNotFound
	}
	return voucher, nil
}

var (
	_ domaincatalog.RoomSource     = (*Catalog)(nil)
	_ domaincatalog.RateSource     = (*Catalog)(nil)
	_ domaincatalog.DiscountSource = (*Catalog)(nil)
)
