package models

// Payment statuses as the remote API spells them.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

// NoPayment is the derived status of a booking without any payment record.
const NoPayment = "No Payment"

// PaymentStatuses lists every status a payment may carry.
var PaymentStatuses = []string{PaymentPending, PaymentCompleted, PaymentFailed}

// BookingRef is the payment's foreign key to a booking.
type BookingRef struct {
	BookingID ID `json:"bookingId"`
}

// Payment is one record of GET /payment/getAllPayments.
type Payment struct {
	PaymentID ID         `json:"payment_id"`
	Booking   BookingRef `json:"booking"`
	Status    string     `json:"status"`
	Amount    float64    `json:"amount"`
}

// Final reports whether the payment is settled.
func (p Payment) Final() bool {
	return p.Status == PaymentCompleted
}

// PaymentDraft is the body of a payment create.
type PaymentDraft struct {
	Booking BookingRef `json:"booking"`
	Status  string     `json:"status"`
	Amount  float64    `json:"amount"`
}

// PaymentUpdate is the body of a payment update; the remote expects the id in
// the payload as well as in the path.
type PaymentUpdate struct {
	PaymentID ID         `json:"payment_id"`
	Booking   BookingRef `json:"booking"`
	Status    string     `json:"status"`
	Amount    float64    `json:"amount"`
}

// IsPaymentStatus reports whether s is one of PaymentStatuses.
func IsPaymentStatus(s string) bool {
	for _, st := range PaymentStatuses {
		if st == s {
			return true
		}
	}
	return false
}
