package booking

import (
	"time"

	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
)

type CreatedEvent struct {
	events.Base
	HotelID  int64     `json:"hotel_id"`
	GuestID  string    `json:"guest_id"`
	ResID    string    `json:"res_id,omitempty"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func Created(id string, hotelID int64, guestID, resID string, stay daterange.StayRange, now time.Time) CreatedEvent {
	return CreatedEvent{
		Base:     events.Base{Name: "booking.created", Aggregate: id, Time: now.UTC()},
		HotelID:  hotelID,
		GuestID:  guestID,
		ResID:    resID,
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
	}
}

type ClosedEvent struct {
	events.Base
	HotelID      int64   `json:"hotel_id"`
	TotalPayable float64 `json:"total_payable"`
}

func Closed(id string, hotelID int64, totalPayable float64, now time.Time) ClosedEvent {
	return ClosedEvent{
		Base:         events.Base{Name: "booking.closed", Aggregate: id, Time: now.UTC()},
		HotelID:      hotelID,
		TotalPayable: totalPayable,
	}
}
