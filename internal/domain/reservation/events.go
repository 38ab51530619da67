package reservation

import (
	"time"

	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
)

type CreatedEvent struct {
	events.Base
	HotelID      int64        `json:"hotel_id"`
	GuestID      string       `json:"guest_id"`
	CheckIn      time.Time    `json:"check_in"`
	CheckOut     time.Time    `json:"check_out"`
	Confirmation Confirmation `json:"confirmation"`
}

func Created(id string, hotelID int64, guestID string, stay daterange.StayRange, confirmation Confirmation, now time.Time) CreatedEvent {
	return CreatedEvent{
		Base:         events.Base{Name: "reservation.created", Aggregate: id, Time: now.UTC()},
		HotelID:      hotelID,
		GuestID:      guestID,
		CheckIn:      stay.CheckIn,
		CheckOut:     stay.CheckOut,
		Confirmation: confirmation,
	}
}

type CheckedInEvent struct {
	events.Base
	HotelID int64 `json:"hotel_id"`
}

func CheckedIn(id string, hotelID int64, now time.Time) CheckedInEvent {
	return CheckedInEvent{
		Base:    events.Base{Name: "reservation.checked_in", Aggregate: id, Time: now.UTC()},
		HotelID: hotelID,
	}
}
