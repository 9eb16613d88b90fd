package models

import (
	"encoding/json"

	"sessiondesk/internal/utils"
)

// Booking statuses as the remote API spells them.
const (
	BookingScheduled = "Scheduled"
	BookingPending   = "Pending"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

// BookingStatuses lists every status a booking may carry, in display order.
var BookingStatuses = []string{BookingScheduled, BookingPending, BookingCompleted, BookingCancelled}

// PersonName is the nested name object used for students and tutors.
type PersonName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p PersonName) FullName() string {
	return utils.NormalizeSpace(p.FirstName + " " + p.LastName)
}

// Tutor is the booking's tutor reference; the tutor's own name lives in the
// nested student record.
type Tutor struct {
	TutorID ID         `json:"tutor_id"`
	Student PersonName `json:"student"`
}

// Booking is one tutoring session as returned by GET /booking/all.
//
// The remote update endpoint expects a complete record, so every top-level
// field received is kept and written back, including the ones this service
// does not model.
type Booking struct {
	BookingID       ID         `json:"bookingId"`
	Subject         string     `json:"subject"`
	SessionDateTime string     `json:"sessionDateTime"`
	Status          string     `json:"status"`
	Student         PersonName `json:"student"`
	Tutor           Tutor      `json:"tutor"`

	fields map[string]json.RawMessage
}

type bookingAlias Booking

func (b *Booking) UnmarshalJSON(data []byte) error {
	var a bookingAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*b = Booking(a)
	b.fields = fields
	return nil
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.record())
}

// record is the full representation sent to the remote API: received fields
// first, then the modelled fields on top.
func (b Booking) record() map[string]any {
	out := make(map[string]any, len(b.fields)+6)
	for k, v := range b.fields {
		out[k] = v
	}
	out["bookingId"] = b.BookingID
	out["subject"] = b.Subject
	out["sessionDateTime"] = b.SessionDateTime
	out["status"] = b.Status
	if _, ok := b.fields["student"]; !ok {
		out["student"] = b.Student
	}
	if _, ok := b.fields["tutor"]; !ok {
		out["tutor"] = b.Tutor
	}
	return out
}

// BookingPatch carries the editable fields of a booking; nil means unchanged.
type BookingPatch struct {
	Subject         *string `json:"subject"`
	SessionDateTime *string `json:"sessionDateTime"`
	Status          *string `json:"status"`
}

// Empty reports whether the patch changes nothing.
func (p BookingPatch) Empty() bool {
	return p.Subject == nil && p.SessionDateTime == nil && p.Status == nil
}

// Apply merges the patch onto a copy of the full original record.
func (p BookingPatch) Apply(b Booking) Booking {
	out := b
	if b.fields != nil {
		out.fields = make(map[string]json.RawMessage, len(b.fields))
		for k, v := range b.fields {
			out.fields[k] = v
		}
	}
	if p.Subject != nil {
		out.Subject = *p.Subject
	}
	if p.SessionDateTime != nil {
		out.SessionDateTime = *p.SessionDateTime
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out
}

// IsBookingStatus reports whether s is one of BookingStatuses.
func IsBookingStatus(s string) bool {
	for _, st := range BookingStatuses {
		if st == s {
			return true
		}
	}
	return false
}
