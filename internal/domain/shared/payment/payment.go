package payment

// Details travels with a reservation or booking from creation on. The
// breakup is only filled at checkout, when the stay is settled.
type Details struct {
	AdvancePayment     float64
	AdvancePaymentMode string
	Breakup            *Breakup
}

// Breakup is the finalized charge sheet computed at checkout.
type Breakup struct {
	TotalCharges        float64
	ExtraMattressCharge float64
	CouponDiscount      float64
	VoucherAmountUsed   float64
	TaxAmount           float64
	AdvancePayment      float64
	TotalPayable        float64
	PaymentMode         string
	Remarks             string
}
