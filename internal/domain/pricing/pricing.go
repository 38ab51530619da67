package pricing

import (
	"errors"

	"hotelier/internal/domain/shared/daterange"
)

var ErrNoBillableDays = errors.New("pricing: stay must cover at least one day")

// Rates is the price card snapshot a quote was computed from. PerDayCharge
// is summed across the requested rooms; the remaining fields carry the last
// room's values, which the rooms of one stay share.
type Rates struct {
	PerDayCharge  float64
	EarlyCheckIn  float64
	LateCheckOut  float64
	ExtraMattress float64
}

// ChargesDetails is the itemized result of rate shopping. Discount fields
// stay zero when no (valid) code was supplied.
type ChargesDetails struct {
	TotalDaysCharge     float64
	ExtraMattress       float64
	CouponDisPercentage float64
	VoucherAmount       float64
}

// Quote is a priced stay proposal. It is ephemeral: reservations and
// bookings embed a copy, nothing persists a quote on its own.
type Quote struct {
	HotelID            int64
	RoomIDs            []int64
	Stay               daterange.StayRange
	TotalNumDays       int
	NumOfPersons       int
	NumOfExtraMattress int
	CouponCode         string
	VoucherCode        string
	Rates              Rates
	Charges            ChargesDetails
}

// Price fills the day-dependent charge figures from the collected rates.
func (q *Quote) Price() error {
	days := q.Stay.Nights()
	if days <= 0 {
		return ErrNoBillableDays
	}
	q.TotalNumDays = days
	q.Charges.TotalDaysCharge = float64(days) * q.Rates.PerDayCharge
	q.Charges.ExtraMattress = q.Rates.ExtraMattress * float64(q.NumOfExtraMattress)
	return nil
}

func (q Quote) Copy() Quote {
	clone := q
	clone.RoomIDs = append([]int64(nil), q.RoomIDs...)
	return clone
}
