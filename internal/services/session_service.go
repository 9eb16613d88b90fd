package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
	"sessiondesk/internal/repositories"
	"sessiondesk/internal/utils"

	"go.uber.org/zap"
)

// BookingStore is the booking half of the remote API.
type BookingStore interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	DeleteBooking(ctx context.Context, id models.ID) error
}

// PaymentStore is the payment half of the remote API.
type PaymentStore interface {
	ListPayments(ctx context.Context) ([]models.Payment, error)
	WritePayment(ctx context.Context, w models.PaymentWrite) (models.ResponseBody, error)
	DeletePayment(ctx context.Context, id models.ID) error
}

// Journal records orchestrated steps.
type Journal interface {
	Record(ctx context.Context, e repositories.JournalEntry) error
}

// Journal actions.
const (
	ActionEditBooking   = "edit_booking"
	ActionDeleteBooking = "delete_booking"
	ActionDeletePayment = "delete_payment"
	ActionCreatePayment = "create_payment"
	ActionUpdatePayment = "update_payment"
)

// SessionService owns the enriched read model and sequences every mutation
// across the booking and payment collections. Reads load the current
// snapshot without locking; mutations run one at a time and always end with
// a full refetch.
type SessionService struct {
	Bookings BookingStore
	Payments PaymentStore
	Journal  Journal
	Policy   SelectionPolicy
	Now      func() time.Time

	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex

	// fetchSeq numbers every fetch; fetches numbered at or below staleBefore
	// started before a committed mutation and are never installed.
	fetchSeq    atomic.Uint64
	staleBefore atomic.Uint64
}

func NewSessionService(bookings BookingStore, payments PaymentStore, journal Journal, policy SelectionPolicy) *SessionService {
	if policy == nil {
		policy = PreferOpen
	}
	return &SessionService{
		Bookings: bookings,
		Payments: payments,
		Journal:  journal,
		Policy:   policy,
		Now:      utils.NowUTC,
	}
}

// AdminSummary is the admin dashboard: every session plus per-status counts.
type AdminSummary struct {
	Sessions          []models.EnrichedBooking `json:"sessions"`
	Counts            map[string]int           `json:"counts"`
	Total             int                      `json:"total"`
	UnmatchedPayments int                      `json:"unmatchedPayments"`
	FetchedAt         time.Time                `json:"fetchedAt"`
}

// Snapshot returns the last built snapshot, or nil before the first load.
func (s *SessionService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Refresh fetches bookings then payments and replaces the snapshot. On
// failure the previous snapshot stays in place. A fetch that started before
// a committed mutation, or before a newer installed fetch, is discarded and
// the installed snapshot is returned instead.
func (s *SessionService) Refresh(ctx context.Context) (*Snapshot, error) {
	reqID := utils.RequestIDFrom(ctx)
	seq := s.fetchSeq.Add(1)

	bookings, err := s.Bookings.ListBookings(ctx)
	if err != nil {
		utils.LogFailure(reqID, "sessions", "refresh", err, zap.String("step", "bookings"))
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	payments, err := s.Payments.ListPayments(ctx)
	if err != nil {
		utils.LogFailure(reqID, "sessions", "refresh", err, zap.String("step", "payments"))
		return nil, fmt.Errorf("load payments: %w", err)
	}

	snap := BuildSnapshot(bookings, payments, s.policy(), s.now())
	snap.seq = seq
	if installed, ok := s.install(snap); !ok {
		utils.LogEvent(reqID, "sessions", "refresh", "stale fetch discarded", zap.Uint64("fetch_seq", seq))
		return installed, nil
	}
	utils.LogEvent(reqID, "sessions", "refresh", "snapshot rebuilt",
		zap.Int("bookings", len(bookings)),
		zap.Int("payments", len(payments)),
		zap.Int("unmatched_payments", snap.UnmatchedPayments),
	)
	return snap, nil
}

// install stores snap unless it is stale. When it is, the installed snapshot
// (or snap itself when nothing usable is installed) is returned with false.
func (s *SessionService) install(snap *Snapshot) (*Snapshot, bool) {
	for {
		cur := s.snapshot.Load()
		if snap.seq <= s.staleBefore.Load() || (cur != nil && cur.seq > snap.seq) {
			if cur != nil && cur.seq > s.staleBefore.Load() {
				return cur, false
			}
			return snap, false
		}
		if s.snapshot.CompareAndSwap(cur, snap) {
			return snap, true
		}
	}
}

// invalidate marks every fetch started so far as stale. Mutations call it
// after each committed remote step.
func (s *SessionService) invalidate() {
	s.staleBefore.Store(s.fetchSeq.Load())
}

// Current returns the snapshot, loading it on first use or when a committed
// mutation has not been followed by a successful reload.
func (s *SessionService) Current(ctx context.Context) (*Snapshot, error) {
	if snap := s.snapshot.Load(); snap != nil && snap.seq > s.staleBefore.Load() {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// TutorSessions returns the sessions visible to rc: a tutor's own, or all for admins.
func (s *SessionService) TutorSessions(ctx context.Context, rc domain.RequestContext) ([]models.EnrichedBooking, *Snapshot, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	if rc.IsAdmin() && rc.TutorID == "" {
		return snap.Enriched, snap, nil
	}
	if rc.TutorID == "" {
		return nil, nil, domain.ValidationError{Field: "tutor_id", Msg: "tutor id not found, please login again"}
	}
	return snap.ForTutor(rc.TutorID), snap, nil
}

// Summary builds the admin dashboard view.
func (s *SessionService) Summary(ctx context.Context) (AdminSummary, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return AdminSummary{}, err
	}
	return AdminSummary{
		Sessions:          snap.Enriched,
		Counts:            snap.StatusCounts(),
		Total:             len(snap.Bookings),
		UnmatchedPayments: snap.UnmatchedPayments,
		FetchedAt:         snap.FetchedAt,
	}, nil
}

// EditBooking merges patch onto the full booking record from the current
// snapshot and sends it as one update. The snapshot is rebuilt on success
// and left untouched on failure.
func (s *SessionService) EditBooking(ctx context.Context, rc domain.RequestContext, id models.ID, patch models.BookingPatch) (*Snapshot, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	eb, err := visibleBooking(snap, rc, id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(eb.Booking)
	if _, err := s.Bookings.UpdateBooking(ctx, merged); err != nil {
		s.record(ctx, ActionEditBooking, id, "", err)
		return nil, err
	}
	s.record(ctx, ActionEditBooking, id, "", nil)

	return s.reload(ctx)
}

// DeleteBooking removes a booking and, first, every payment referencing it.
// Nothing is sent unless confirmed is true. When a payment is known for the
// booking but its id cannot be resolved from the payment collection the
// delete is refused, so no payment is ever left pointing at a deleted
// booking. A failed payment delete stops the sequence before the booking is
// touched.
func (s *SessionService) DeleteBooking(ctx context.Context, rc domain.RequestContext, id models.ID, confirmed bool) (*Snapshot, error) {
	if !confirmed {
		return nil, domain.ValidationError{Field: "confirm", Msg: "deletion must be confirmed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	eb, err := visibleBooking(snap, rc, id)
	if err != nil {
		return nil, err
	}
	paymentIDs, err := resolvePaymentIDs(snap, eb)
	if err != nil {
		s.record(ctx, ActionDeleteBooking, id, "", err)
		return nil, err
	}

	for i, pid := range paymentIDs {
		if err := s.Payments.DeletePayment(ctx, pid); err != nil {
			s.record(ctx, ActionDeletePayment, id, pid, err)
			if i > 0 {
				s.reloadQuietly(ctx)
			}
			return nil, fmt.Errorf("delete payment %s: %w", pid, err)
		}
		s.record(ctx, ActionDeletePayment, id, pid, nil)
	}

	if err := s.Bookings.DeleteBooking(ctx, id); err != nil {
		s.record(ctx, ActionDeleteBooking, id, "", err)
		if len(paymentIDs) > 0 {
			s.reloadQuietly(ctx)
		}
		return nil, fmt.Errorf("delete booking %s: %w", id, err)
	}
	s.record(ctx, ActionDeleteBooking, id, "", nil)

	return s.reload(ctx)
}

// resolvePaymentIDs scans the full payment collection rather than trusting
// the id cached on the enriched booking.
func resolvePaymentIDs(snap *Snapshot, eb models.EnrichedBooking) ([]models.ID, error) {
	if !eb.HasPayment() {
		return nil, nil
	}
	id := eb.Booking.BookingID
	candidates := snap.PaymentsFor(id)
	if len(candidates) == 0 {
		return nil, domain.InconsistentStateError{BookingID: id.String(), Msg: "payment exists but its id cannot be resolved"}
	}
	ids := make([]models.ID, 0, len(candidates))
	for _, p := range candidates {
		if p.PaymentID.Empty() {
			return nil, domain.InconsistentStateError{BookingID: id.String(), Msg: "payment exists but its id cannot be resolved"}
		}
		ids = append(ids, p.PaymentID)
	}
	return ids, nil
}

func validatePatch(p models.BookingPatch) error {
	if p.Empty() {
		return domain.ValidationError{Msg: "nothing to update"}
	}
	if p.Subject != nil && strings.TrimSpace(*p.Subject) == "" {
		return domain.ValidationError{Field: "subject", Msg: "must not be empty"}
	}
	if p.SessionDateTime != nil {
		if _, err := utils.ParseSessionDateTime(*p.SessionDateTime); err != nil {
			return domain.ValidationError{Field: "sessionDateTime", Msg: "invalid date time", Err: err}
		}
	}
	if p.Status != nil && !models.IsBookingStatus(*p.Status) {
		return domain.ValidationError{Field: "status", Msg: fmt.Sprintf("must be one of %s", strings.Join(models.BookingStatuses, ", "))}
	}
	return nil
}

// visibleBooking finds id in snap. Tutors only see their own bookings; any
// other id reads as not found.
func visibleBooking(snap *Snapshot, rc domain.RequestContext, id models.ID) (models.EnrichedBooking, error) {
	if id.Empty() {
		return models.EnrichedBooking{}, domain.ValidationError{Field: "bookingId", Msg: "missing"}
	}
	eb, ok := snap.Find(id)
	if !ok {
		return models.EnrichedBooking{}, domain.NotFoundError{Resource: "booking " + id.String()}
	}
	if !rc.IsAdmin() && eb.Booking.Tutor.TutorID.String() != rc.TutorID {
		return models.EnrichedBooking{}, domain.NotFoundError{Resource: "booking " + id.String()}
	}
	return eb, nil
}

// reload rebuilds the snapshot after a committed mutation.
func (s *SessionService) reload(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, domain.DomainError{Code: domain.CodeRefreshFailed, Err: err}
	}
	return snap, nil
}

// reloadQuietly refreshes after a partially applied sequence so the read
// model does not keep records that were already deleted.
func (s *SessionService) reloadQuietly(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		utils.LogFailure(utils.RequestIDFrom(ctx), "sessions", "reload", err)
	}
}

func (s *SessionService) record(ctx context.Context, action string, bookingID, paymentID models.ID, stepErr error) {
	reqID := utils.RequestIDFrom(ctx)
	entry := repositories.JournalEntry{
		RequestID: reqID,
		Action:    action,
		BookingID: bookingID.String(),
		PaymentID: paymentID.String(),
		Outcome:   repositories.OutcomeOK,
	}
	switch {
	case stepErr == nil:
		s.invalidate()
		utils.LogEvent(reqID, "sessions", action, "step applied",
			zap.String("booking_id", entry.BookingID), zap.String("payment_id", entry.PaymentID))
	case domain.IsInconsistentState(stepErr):
		entry.Outcome = repositories.OutcomeBlocked
		entry.Detail = stepErr.Error()
		utils.LogFailure(reqID, "sessions", action, stepErr, zap.String("booking_id", entry.BookingID))
	default:
		entry.Outcome = repositories.OutcomeFailed
		entry.Detail = stepErr.Error()
		utils.LogFailure(reqID, "sessions", action, stepErr,
			zap.String("booking_id", entry.BookingID), zap.String("payment_id", entry.PaymentID))
	}

	if s.Journal == nil {
		return
	}
	if err := s.Journal.Record(ctx, entry); err != nil {
		utils.LogFailure(reqID, "journal", "record", err, zap.String("journal_action", action))
	}
}

func (s *SessionService) policy() SelectionPolicy {
	if s.Policy != nil {
		return s.Policy
	}
	return PreferOpen
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}
