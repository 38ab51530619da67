package availability

import (
	"fmt"
	"time"

	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
)

type HoldPlacedEvent struct {
	events.Base
	HotelID int64     `json:"hotel_id"`
	RoomID  int64     `json:"room_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Kind    HoldKind  `json:"kind"`
	LinkID  string    `json:"link_id"`
}

func HoldPlaced(hotelID, roomID int64, stay daterange.StayRange, kind HoldKind, linkID string, now time.Time) HoldPlacedEvent {
	return HoldPlacedEvent{
		Base:    events.Base{Name: "availability.hold_placed", Aggregate: recordKey(hotelID, roomID), Time: now.UTC()},
		HotelID: hotelID,
		RoomID:  roomID,
		From:    stay.CheckIn,
		To:      stay.CheckOut,
		Kind:    kind,
		LinkID:  linkID,
	}
}

type HoldRejectedEvent struct {
	events.Base
	HotelID int64     `json:"hotel_id"`
	RoomID  int64     `json:"room_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// HoldRejected marks a prevented double booking.
func HoldRejected(hotelID, roomID int64, stay daterange.StayRange, now time.Time) HoldRejectedEvent {
	return HoldRejectedEvent{
		Base:    events.Base{Name: "availability.hold_rejected", Aggregate: recordKey(hotelID, roomID), Time: now.UTC()},
		HotelID: hotelID,
		RoomID:  roomID,
		From:    stay.CheckIn,
		To:      stay.CheckOut,
	}
}

func recordKey(hotelID, roomID int64) string {
	return fmt.Sprintf("%d/%d", hotelID, roomID)
}
