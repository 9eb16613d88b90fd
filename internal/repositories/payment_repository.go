package repositories

import (
	"context"
	"fmt"
	"net/http"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
)

// PaymentRepository reads and mutates payments on the remote API.
type PaymentRepository struct {
	Remote Remote
}

// ListPayments -> GET /payment/getAllPayments
func (r PaymentRepository) ListPayments(ctx context.Context) ([]models.Payment, error) {
	raw, err := r.Remote.do(ctx, "list payments", http.MethodGet, r.Remote.endpoint("payment", "getAllPayments"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Payment]("list payments", raw)
}

// WritePayment dispatches on the write variant chosen by the caller.
func (r PaymentRepository) WritePayment(ctx context.Context, w models.PaymentWrite) (models.ResponseBody, error) {
	switch w := w.(type) {
	case models.CreatePayment:
		return r.CreatePayment(ctx, w.Draft)
	case models.UpdatePayment:
		return r.UpdatePayment(ctx, w.ID, w.Draft)
	default:
		return nil, domain.InternalError{Msg: fmt.Sprintf("unsupported payment write %T", w)}
	}
}

// CreatePayment -> POST /payment/addPayment
func (r PaymentRepository) CreatePayment(ctx context.Context, draft models.PaymentDraft) (models.ResponseBody, error) {
	if draft.Booking.BookingID.Empty() {
		return nil, domain.ValidationError{Field: "booking.bookingId", Msg: "missing"}
	}
	raw, err := r.Remote.do(ctx, "create payment", http.MethodPost, r.Remote.endpoint("payment", "addPayment"), draft)
	if err != nil {
		return nil, err
	}
	return decodeBody(raw), nil
}

// UpdatePayment -> PUT /payment/updatePayment/{payment_id}
func (r PaymentRepository) UpdatePayment(ctx context.Context, id models.ID, draft models.PaymentDraft) (models.ResponseBody, error) {
	if id.Empty() {
		return nil, domain.ValidationError{Field: "payment_id", Msg: "missing"}
	}
	w := models.UpdatePayment{ID: id, Draft: draft}
	raw, err := r.Remote.do(ctx, "update payment", http.MethodPut, r.Remote.endpoint("payment", "updatePayment", id.String()), w.Body())
	if err != nil {
		return nil, err
	}
	return decodeBody(raw), nil
}

// DeletePayment -> DELETE /payment/delete/{payment_id}
func (r PaymentRepository) DeletePayment(ctx context.Context, id models.ID) error {
	if id.Empty() {
		return domain.ValidationError{Field: "payment_id", Msg: "missing"}
	}
	_, err := r.Remote.do(ctx, "delete payment", http.MethodDelete, r.Remote.endpoint("payment", "delete", id.String()), nil)
	return err
}
