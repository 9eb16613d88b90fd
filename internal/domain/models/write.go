package models

import "encoding/json"

// PaymentWrite is either a CreatePayment or an UpdatePayment. The
// orchestrator picks the variant; repositories never infer it from fields.
type PaymentWrite interface {
	isPaymentWrite()
	Values() PaymentDraft
}

// CreatePayment posts a new payment for a booking.
type CreatePayment struct {
	Draft PaymentDraft
}

// UpdatePayment replaces the payment identified by ID.
type UpdatePayment struct {
	ID    ID
	Draft PaymentDraft
}

func (CreatePayment) isPaymentWrite() {}
func (UpdatePayment) isPaymentWrite() {}

func (w CreatePayment) Values() PaymentDraft { return w.Draft }
func (w UpdatePayment) Values() PaymentDraft { return w.Draft }

// Body returns the update payload, id included.
func (w UpdatePayment) Body() PaymentUpdate {
	return PaymentUpdate{
		PaymentID: w.ID,
		Booking:   w.Draft.Booking,
		Status:    w.Draft.Status,
		Amount:    w.Draft.Amount,
	}
}

// ResponseBody is a decoded remote response: JSONBody when the payload was
// valid JSON, TextBody otherwise.
type ResponseBody interface {
	isResponseBody()
}

type JSONBody struct {
	Value json.RawMessage
}

type TextBody struct {
	Text string
}

func (JSONBody) isResponseBody() {}
func (TextBody) isResponseBody() {}

// DecodeResponseBody classifies raw once, at the client boundary.
func DecodeResponseBody(raw []byte) ResponseBody {
	if len(raw) > 0 && json.Valid(raw) {
		return JSONBody{Value: json.RawMessage(append([]byte(nil), raw...))}
	}
	return TextBody{Text: string(raw)}
}

// MarshalJSON lets handlers echo the remote answer: JSON verbatim, text as a
// successMessage object.
func (b JSONBody) MarshalJSON() ([]byte, error) {
	if len(b.Value) == 0 {
		return []byte("null"), nil
	}
	return b.Value, nil
}

func (b TextBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"successMessage": b.Text})
}
