package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "sessiondesk/internal/config"
	intdb "sessiondesk/internal/db"
)

// Journal outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeBlocked = "blocked"
)

// JournalEntry is one orchestrated step against the remote API.
type JournalEntry struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Action    string    `json:"action"`
	BookingID string    `json:"booking_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalRepository appends mutation steps to mutation_journal. With no
// database configured every call is a no-op.
type JournalRepository struct {
	DB *sql.DB
}

func (r JournalRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r JournalRepository) table() string {
	return "mutation_journal"
}

// Enabled reports whether a database is attached.
func (r JournalRepository) Enabled() bool {
	return r.db() != nil
}

// EnsureTable creates mutation_journal when missing.
func (r JournalRepository) EnsureTable(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return nil
	}
	if intdb.HasTable(ctx, db, r.table()) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS mutation_journal (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	request_id VARCHAR(64) NOT NULL DEFAULT '',
	action VARCHAR(64) NOT NULL,
	booking_id VARCHAR(64) NOT NULL,
	payment_id VARCHAR(64) NULL,
	outcome VARCHAR(16) NOT NULL,
	detail TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_booking (booking_id),
	KEY idx_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create mutation_journal: %w", err)
	}
	return nil
}

// Record appends e.
func (r JournalRepository) Record(ctx context.Context, e JournalEntry) error {
	db := r.db()
	if db == nil {
		return nil
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO `+r.table()+` (request_id, action, booking_id, payment_id, outcome, detail) VALUES (?,?,?,?,?,?)`,
		e.RequestID, e.Action, e.BookingID, intdb.NullIfEmpty(e.PaymentID), e.Outcome, intdb.NullIfEmpty(e.Detail),
	)
	return err
}

// Recent returns the newest entries first, optionally for one booking.
func (r JournalRepository) Recent(ctx context.Context, bookingID string, limit int) ([]JournalEntry, error) {
	db := r.db()
	if db == nil {
		return []JournalEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id,
		       COALESCE(request_id,''),
		       action,
		       booking_id,
		       COALESCE(payment_id,''),
		       outcome,
		       COALESCE(detail,''),
		       created_at
		FROM ` + r.table()
	args := []any{}
	if bookingID != "" {
		query += ` WHERE booking_id=?`
		args = append(args, bookingID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JournalEntry{}
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Action, &e.BookingID, &e.PaymentID, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
