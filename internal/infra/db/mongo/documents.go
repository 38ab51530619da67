package mongo

import (
	"time"

	domainpricing "hotelier/internal/domain/pricing"
	domainrange "hotelier/internal/domain/shared/daterange"
	domainpayment "hotelier/internal/domain/shared/payment"
)

// Documents store instants as Unix milliseconds and rehydrate them as UTC.

type stayDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newStayDocument(s domainrange.StayRange) stayDocument {
	return stayDocument{CheckIn: s.CheckIn.UnixMilli(), CheckOut: s.CheckOut.UnixMilli()}
}

func (d stayDocument) toRange() domainrange.StayRange {
	return domainrange.StayRange{CheckIn: timestampToTime(d.CheckIn), CheckOut: timestampToTime(d.CheckOut)}
}

type quoteDocument struct {
	HotelID            int64                        `bson:"hotel_id"`
	RoomIDs            []int64                      `bson:"room_ids"`
	Stay               stayDocument                 `bson:"stay"`
	TotalNumDays       int                          `bson:"total_num_days"`
	NumOfPersons       int                          `bson:"num_of_persons"`
	NumOfExtraMattress int                          `bson:"num_of_extra_mattress"`
	CouponCode         string                       `bson:"coupon_code,omitempty"`
	VoucherCode        string                       `bson:"voucher_code,omitempty"`
	Rates              domainpricing.Rates          `bson:"rates"`
	Charges            domainpricing.ChargesDetails `bson:"charges"`
}

func newQuoteDocument(q domainpricing.Quote) quoteDocument {
	return quoteDocument{
		HotelID:            q.HotelID,
		RoomIDs:            q.RoomIDs,
		Stay:               newStayDocument(q.Stay),
		TotalNumDays:       q.TotalNumDays,
		NumOfPersons:       q.NumOfPersons,
		NumOfExtraMattress: q.NumOfExtraMattress,
		CouponCode:         q.CouponCode,
		VoucherCode:        q.VoucherCode,
		Rates:              q.Rates,
		Charges:            q.Charges,
	}
}

func (d quoteDocument) toQuote() domainpricing.Quote {
	return domainpricing.Quote{
		HotelID:            d.HotelID,
		RoomIDs:            d.RoomIDs,
		Stay:               d.Stay.toRange(),
		TotalNumDays:       d.TotalNumDays,
		NumOfPersons:       d.NumOfPersons,
		NumOfExtraMattress: d.NumOfExtraMattress,
		CouponCode:         d.CouponCode,
		VoucherCode:        d.VoucherCode,
		Rates:              d.Rates,
		Charges:            d.Charges,
	}
}

type paymentDocument struct {
	AdvancePayment     float64                `bson:"advance_payment"`
	AdvancePaymentMode string                 `bson:"advance_payment_mode,omitempty"`
	Breakup            *domainpayment.Breakup `bson:"breakup,omitempty"`
}

func newPaymentDocument(p domainpayment.Details) paymentDocument {
	return paymentDocument{
		AdvancePayment:     p.AdvancePayment,
		AdvancePaymentMode: p.AdvancePaymentMode,
		Breakup:            p.Breakup,
	}
}

func (d paymentDocument) toDetails() domainpayment.Details {
	return domainpayment.Details{
		AdvancePayment:     d.AdvancePayment,
		AdvancePaymentMode: d.AdvancePaymentMode,
		Breakup:            d.Breakup,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
