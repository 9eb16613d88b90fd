package services

import (
	"time"

	"sessiondesk/internal/domain/models"
)

// BookingPayments pairs a booking with every payment that references it.
type BookingPayments struct {
	Booking  models.Booking
	Payments []models.Payment
}

// JoinPayments matches payments to bookings by booking.bookingId. Every
// booking appears once, in booking order, with its payments in remote order;
// a booking without payments gets an empty, non-nil slice.
func JoinPayments(bookings []models.Booking, payments []models.Payment) []BookingPayments {
	byBooking := make(map[models.ID][]models.Payment, len(payments))
	for _, p := range payments {
		id := p.Booking.BookingID
		if id.Empty() {
			continue
		}
		byBooking[id] = append(byBooking[id], p)
	}

	out := make([]BookingPayments, 0, len(bookings))
	for _, b := range bookings {
		matched := byBooking[b.BookingID]
		if matched == nil || b.BookingID.Empty() {
			matched = []models.Payment{}
		}
		out = append(out, BookingPayments{Booking: b, Payments: matched})
	}
	return out
}

// Enrich applies policy to one booking's payments.
func Enrich(bp BookingPayments, policy SelectionPolicy) models.EnrichedBooking {
	eb := models.EnrichedBooking{
		Booking:       bp.Booking,
		PaymentStatus: models.NoPayment,
		PaymentCount:  len(bp.Payments),
	}
	if policy == nil {
		policy = PreferOpen
	}
	if selected, ok := policy(bp.Payments); ok {
		p := selected
		eb.Payment = &p
		eb.PaymentStatus = p.Status
		eb.PaymentAmount = p.Amount
	}
	return eb
}

// Snapshot is one consistent fetch of both remote collections and the read
// model derived from it. It is never modified after BuildSnapshot returns;
// a refresh replaces it as a whole.
type Snapshot struct {
	Bookings          []models.Booking
	Payments          []models.Payment
	Enriched          []models.EnrichedBooking
	UnmatchedPayments int
	FetchedAt         time.Time

	seq   uint64
	index map[models.ID]int
}

// BuildSnapshot joins and enriches the two collections.
func BuildSnapshot(bookings []models.Booking, payments []models.Payment, policy SelectionPolicy, fetchedAt time.Time) *Snapshot {
	joined := JoinPayments(bookings, payments)

	s := &Snapshot{
		Bookings:  bookings,
		Payments:  payments,
		Enriched:  make([]models.EnrichedBooking, 0, len(joined)),
		FetchedAt: fetchedAt,
		index:     make(map[models.ID]int, len(joined)),
	}
	for i, bp := range joined {
		s.Enriched = append(s.Enriched, Enrich(bp, policy))
		if _, dup := s.index[bp.Booking.BookingID]; !dup {
			s.index[bp.Booking.BookingID] = i
		}
	}
	s.UnmatchedPayments = countUnmatched(bookings, payments)
	return s
}

func countUnmatched(bookings []models.Booking, payments []models.Payment) int {
	known := make(map[models.ID]struct{}, len(bookings))
	for _, b := range bookings {
		known[b.BookingID] = struct{}{}
	}
	n := 0
	for _, p := range payments {
		if _, ok := known[p.Booking.BookingID]; !ok || p.Booking.BookingID.Empty() {
			n++
		}
	}
	return n
}

// Find returns the enriched booking with id.
func (s *Snapshot) Find(id models.ID) (models.EnrichedBooking, bool) {
	if s == nil {
		return models.EnrichedBooking{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return models.EnrichedBooking{}, false
	}
	return s.Enriched[i], true
}

// PaymentsFor scans the full payment collection for records referencing
// bookingID, in remote order.
func (s *Snapshot) PaymentsFor(bookingID models.ID) []models.Payment {
	out := []models.Payment{}
	if s == nil || bookingID.Empty() {
		return out
	}
	for _, p := range s.Payments {
		if p.Booking.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out
}

// ForTutor returns the enriched bookings whose tutor.tutor_id is tutorID.
func (s *Snapshot) ForTutor(tutorID string) []models.EnrichedBooking {
	out := []models.EnrichedBooking{}
	if s == nil || tutorID == "" {
		return out
	}
	for _, eb := range s.Enriched {
		if eb.Booking.Tutor.TutorID.String() == tutorID {
			out = append(out, eb)
		}
	}
	return out
}

// StatusCounts counts bookings per status; every known status is present.
func (s *Snapshot) StatusCounts() map[string]int {
	counts := make(map[string]int, len(models.BookingStatuses))
	for _, st := range models.BookingStatuses {
		counts[st] = 0
	}
	if s == nil {
		return counts
	}
	for _, b := range s.Bookings {
		counts[b.Status]++
	}
	return counts
}
