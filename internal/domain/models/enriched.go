package models

import "encoding/json"

// EnrichedBooking is a booking joined with its selected payment. It is a read
// model only and is rebuilt on every fetch.
type EnrichedBooking struct {
	Booking       Booking
	Payment       *Payment
	PaymentStatus string
	PaymentAmount float64
	// PaymentCount is how many payment records reference the booking.
	PaymentCount int
}

// PaymentID is the selected payment's id, empty when there is none.
func (e EnrichedBooking) PaymentID() ID {
	if e.Payment == nil {
		return ""
	}
	return e.Payment.PaymentID
}

// HasPayment reports whether at least one payment references the booking.
func (e EnrichedBooking) HasPayment() bool {
	return e.Payment != nil || e.PaymentCount > 0
}

// MarshalJSON flattens the booking record, the display names and the derived
// payment fields into one object.
func (e EnrichedBooking) MarshalJSON() ([]byte, error) {
	out := e.Booking.record()
	out["studentName"] = e.Booking.Student.FullName()
	out["tutorName"] = e.Booking.Tutor.Student.FullName()
	out["payment"] = e.Payment
	out["paymentId"] = e.PaymentID()
	out["paymentStatus"] = e.PaymentStatus
	out["paymentAmount"] = e.PaymentAmount
	out["paymentCount"] = e.PaymentCount
	return json.Marshal(out)
}
