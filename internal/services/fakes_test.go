package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
	"sessiondesk/internal/repositories"
)

// fakeRemote is an in-memory booking/payment API that records every
// mutating call in order.
type fakeRemote struct {
	mu sync.Mutex

	bookings []models.Booking
	payments []models.Payment

	calls []string
	lists int

	listErr          error
	deletePaymentErr map[models.ID]error
	deleteBookingErr error
	updateBookingErr error
	writeErr         error

	updated []models.Booking
	writes  []models.PaymentWrite

	// beforePayments runs once, outside the lock, at the start of the next
	// ListPayments call.
	beforePayments func()
}

func (f *fakeRemote) ListBookings(ctx context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeRemote) ListPayments(ctx context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	hook := f.beforePayments
	f.beforePayments = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Payment(nil), f.payments...), nil
}

func (f *fakeRemote) UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "PUT booking/"+b.BookingID.String())
	if f.updateBookingErr != nil {
		return models.Booking{}, f.updateBookingErr
	}
	f.updated = append(f.updated, b)
	for i := range f.bookings {
		if f.bookings[i].BookingID == b.BookingID {
			f.bookings[i] = b
		}
	}
	return b, nil
}

func (f *fakeRemote) DeleteBooking(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "DELETE booking/"+id.String())
	if f.deleteBookingErr != nil {
		return f.deleteBookingErr
	}
	kept := f.bookings[:0]
	for _, b := range f.bookings {
		if b.BookingID != id {
			kept = append(kept, b)
		}
	}
	f.bookings = kept
	return nil
}

func (f *fakeRemote) DeletePayment(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "DELETE payment/"+id.String())
	if err := f.deletePaymentErr[id]; err != nil {
		return err
	}
	kept := f.payments[:0]
	for _, p := range f.payments {
		if p.PaymentID != id {
			kept = append(kept, p)
		}
	}
	f.payments = kept
	return nil
}

func (f *fakeRemote) WritePayment(ctx context.Context, w models.PaymentWrite) (models.ResponseBody, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch w := w.(type) {
	case models.UpdatePayment:
		f.calls = append(f.calls, "PUT payment/"+w.ID.String())
	case models.CreatePayment:
		f.calls = append(f.calls, "POST payment")
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.writes = append(f.writes, w)
	return models.TextBody{Text: "ok"}, nil
}

func (f *fakeRemote) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []repositories.JournalEntry
	err     error
}

func (j *fakeJournal) Record(ctx context.Context, e repositories.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return j.err
}

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService(remote *fakeRemote, journal Journal) *SessionService {
	svc := NewSessionService(remote, remote, journal, PreferOpen)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func booking(t *testing.T, id, tutorID int, status string) models.Booking {
	t.Helper()
	raw := fmt.Sprintf(`{"bookingId":%d,"subject":"Math","sessionDateTime":"2024-05-01T10:00",
		"status":%q,"student":{"first_name":"Ana","last_name":"Diaz"},
		"tutor":{"tutor_id":%d,"student":{"first_name":"Ben","last_name":"Ng"}},"room":"B2"}`, id, status, tutorID)
	var b models.Booking
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("booking fixture: %v", err)
	}
	return b
}

func payment(id, bookingID, status string, amount float64) models.Payment {
	return models.Payment{
		PaymentID: models.ID(id),
		Booking:   models.BookingRef{BookingID: models.ID(bookingID)},
		Status:    status,
		Amount:    amount,
	}
}

var tutorOne = domain.RequestContext{Subject: "u1", Role: domain.RoleTutor, TutorID: "1"}
