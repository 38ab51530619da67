package availability

import (
	"context"
	"errors"
	"time"

	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
)

var (
	ErrRoomUnavailable = errors.New("availability: room is held for an overlapping range")
	ErrHoldNotFound    = errors.New("availability: hold not found")
)

// HoldKind mirrors the confirmation type of the record that placed the hold.
// GREEN holds are backed by an advance payment, GREY ones are not.
type HoldKind string

const (
	HoldGreen HoldKind = "GREEN"
	HoldGrey  HoldKind = "GREY"
)

// Hold blocks a room for [From, To). LinkID points at the reservation or
// booking that placed it; holds are appended, never removed.
type Hold struct {
	From      time.Time
	To        time.Time
	Kind      HoldKind
	LinkID    string
	CreatedAt time.Time
}

// RoomAvailability is the per-room ledger record, one per (hotel, room).
type RoomAvailability struct {
	HotelID int64
	RoomID  int64
	Holds   []Hold

	CreatedAt time.Time
	UpdatedAt time.Time
	events.Recorder
}

// Repository persists ledger records. Record upserts: a missing row is
// created empty on first access, matching the original collection behavior.
type Repository interface {
	Record(ctx context.Context, hotelID, roomID int64) (*RoomAvailability, error)
	AppendHold(ctx context.Context, hotelID, roomID int64, hold Hold) error
	ShiftHoldEnd(ctx context.Context, hotelID, roomID int64, linkID string, newTo time.Time) error
}

func NewRecord(hotelID, roomID int64, now time.Time) *RoomAvailability {
	return &RoomAvailability{HotelID: hotelID, RoomID: roomID, CreatedAt: now.UTC(), UpdatedAt: now.UTC()}
}

// IsFree reports whether no existing hold overlaps the requested range.
func (r *RoomAvailability) IsFree(stay daterange.StayRange) bool {
	for _, h := range r.Holds {
		if stay.Overlaps(daterange.StayRange{CheckIn: h.From, CheckOut: h.To}) {
			return false
		}
	}
	return true
}

// PlaceHold appends a hold after re-checking the overlap invariant. Callers
// run this inside the orchestrator's transaction so the check and the write
// commit together.
func (r *RoomAvailability) PlaceHold(stay daterange.StayRange, kind HoldKind, linkID string, now time.Time) (Hold, error) {
	if !r.IsFree(stay) {
		r.Record(HoldRejected(r.HotelID, r.RoomID, stay, now))
		return Hold{}, ErrRoomUnavailable
	}
	hold := Hold{From: stay.CheckIn, To: stay.CheckOut, Kind: kind, LinkID: linkID, CreatedAt: now.UTC()}
	r.Holds = append(r.Holds, hold)
	r.UpdatedAt = now.UTC()
	r.Record(HoldPlaced(r.HotelID, r.RoomID, stay, kind, linkID, now))
	return hold, nil
}

// ShiftHoldEnd moves the end date of the hold placed by linkID, used when a
// checkout lands on a different date than booked.
func (r *RoomAvailability) ShiftHoldEnd(linkID string, newTo time.Time, now time.Time) error {
	for i := range r.Holds {
		if r.Holds[i].LinkID == linkID {
			r.Holds[i].To = daterange.Day(newTo)
			r.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrHoldNotFound
}
