package repositories

import (
	"context"
	"encoding/json"
	"net/http"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
)

// BookingRepository reads and mutates bookings on the remote API.
type BookingRepository struct {
	Remote Remote
}

// ListBookings -> GET /booking/all
func (r BookingRepository) ListBookings(ctx context.Context) ([]models.Booking, error) {
	raw, err := r.Remote.do(ctx, "list bookings", http.MethodGet, r.Remote.endpoint("booking", "all"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Booking]("list bookings", raw)
}

// UpdateBooking sends the complete record to PUT /booking/update/{bookingId}.
// When the remote answers with something other than a booking object the
// record as sent is returned.
func (r BookingRepository) UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	if b.BookingID.Empty() {
		return models.Booking{}, domain.ValidationError{Field: "bookingId", Msg: "missing"}
	}
	raw, err := r.Remote.do(ctx, "update booking", http.MethodPut, r.Remote.endpoint("booking", "update", b.BookingID.String()), b)
	if err != nil {
		return models.Booking{}, err
	}

	body, ok := decodeBody(raw).(models.JSONBody)
	if !ok {
		return b, nil
	}
	var updated models.Booking
	if err := json.Unmarshal(body.Value, &updated); err != nil || updated.BookingID.Empty() {
		return b, nil
	}
	return updated, nil
}

// DeleteBooking -> DELETE /booking/delete/{bookingId}
func (r BookingRepository) DeleteBooking(ctx context.Context, id models.ID) error {
	if id.Empty() {
		return domain.ValidationError{Field: "bookingId", Msg: "missing"}
	}
	_, err := r.Remote.do(ctx, "delete booking", http.MethodDelete, r.Remote.endpoint("booking", "delete", id.String()), nil)
	return err
}
