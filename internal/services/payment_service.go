package services

import (
	"context"
	"fmt"
	"strings"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
	"sessiondesk/internal/utils"
)

// PaymentForm prefills the payment dialog of a booking.
type PaymentForm struct {
	BookingID  models.ID `json:"bookingId"`
	PaymentID  models.ID `json:"paymentId"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	Exists     bool      `json:"exists"`
	Candidates int       `json:"candidates"`
}

// PaymentInput is what the dialog submits. Amount stays text until
// validation because it is only meaningful for Completed payments.
type PaymentInput struct {
	Status string
	Amount string
}

// UpsertResult reports which write was issued and what the remote answered.
type UpsertResult struct {
	Write    models.PaymentWrite
	Response models.ResponseBody
	Snapshot *Snapshot
}

// Action names the write for logs and responses.
func (r UpsertResult) Action() string {
	if _, ok := r.Write.(models.UpdatePayment); ok {
		return ActionUpdatePayment
	}
	return ActionCreatePayment
}

// PaymentForm resolves the selected payment of booking id.
func (s *SessionService) PaymentForm(ctx context.Context, rc domain.RequestContext, id models.ID) (PaymentForm, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return PaymentForm{}, err
	}
	if _, err := visibleBooking(snap, rc, id); err != nil {
		return PaymentForm{}, err
	}

	candidates := snap.PaymentsFor(id)
	form := PaymentForm{BookingID: id, Candidates: len(candidates)}
	if selected, ok := s.policy()(candidates); ok {
		form.PaymentID = selected.PaymentID
		form.Status = selected.Status
		form.Amount = selected.Amount
		form.Exists = true
	}
	return form, nil
}

// ValidatePaymentInput checks status and amount and returns the amount to
// send: the parsed positive amount for Completed, 0 for every other status.
func ValidatePaymentInput(in PaymentInput) (string, float64, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return "", 0, domain.ValidationError{Field: "status", Msg: "please select a payment status"}
	}
	if !models.IsPaymentStatus(status) {
		return "", 0, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("must be one of %s", strings.Join(models.PaymentStatuses, ", "))}
	}
	if status != models.PaymentCompleted {
		return status, 0, nil
	}

	amount, err := utils.ParseAmount(in.Amount)
	if err != nil || amount <= 0 {
		return "", 0, domain.ValidationError{Field: "amount", Msg: "please enter a valid payment amount for completed payments", Err: err}
	}
	return status, amount, nil
}

// UpsertPayment validates the input locally, then updates the payment chosen
// by the selection policy, or creates one when the booking has none. Exactly
// one write is sent. A selected payment without an id blocks the upsert, since
// creating would duplicate it.
func (s *SessionService) UpsertPayment(ctx context.Context, rc domain.RequestContext, id models.ID, in PaymentInput) (UpsertResult, error) {
	status, amount, err := ValidatePaymentInput(in)
	if err != nil {
		return UpsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	snap, err := s.Current(ctx)
	if err != nil {
		return UpsertResult{}, err
	}
	if _, err := visibleBooking(snap, rc, id); err != nil {
		return UpsertResult{}, err
	}

	draft := models.PaymentDraft{
		Booking: models.BookingRef{BookingID: id},
		Status:  status,
		Amount:  amount,
	}
	var write models.PaymentWrite = models.CreatePayment{Draft: draft}
	if selected, ok := s.policy()(snap.PaymentsFor(id)); ok {
		if selected.PaymentID.Empty() {
			err := domain.InconsistentStateError{BookingID: id.String(), Msg: "selected payment has no payment_id"}
			s.record(ctx, ActionUpdatePayment, id, "", err)
			return UpsertResult{}, err
		}
		write = models.UpdatePayment{ID: selected.PaymentID, Draft: draft}
	}
	result := UpsertResult{Write: write}

	var paymentID models.ID
	if u, ok := write.(models.UpdatePayment); ok {
		paymentID = u.ID
	}

	resp, err := s.Payments.WritePayment(ctx, write)
	if err != nil {
		s.record(ctx, result.Action(), id, paymentID, err)
		return UpsertResult{}, err
	}
	s.record(ctx, result.Action(), id, paymentID, nil)
	result.Response = resp

	snap, err = s.reload(ctx)
	result.Snapshot = snap
	return result, err
}
