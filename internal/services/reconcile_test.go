package services

import (
	"testing"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferOpenPicksFirstNonCompleted(t *testing.T) {
	cases := []struct {
		name     string
		payments []models.Payment
		want     models.ID
		ok       bool
	}{
		{"none", nil, "", false},
		{"failed before completed", []models.Payment{
			payment("3", "9", models.PaymentFailed, 0),
			payment("4", "9", models.PaymentCompleted, 100),
		}, "3", true},
		{"completed before pending", []models.Payment{
			payment("1", "9", models.PaymentCompleted, 100),
			payment("2", "9", models.PaymentPending, 0),
			payment("3", "9", models.PaymentPending, 0),
		}, "2", true},
		{"all completed falls back to first", []models.Payment{
			payment("4", "9", models.PaymentCompleted, 100),
			payment("6", "9", models.PaymentCompleted, 50),
		}, "4", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PreferOpen(tc.payments)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got.PaymentID)
		})
	}
}

func TestFirstRecordedIgnoresStatus(t *testing.T) {
	got, ok := FirstRecorded([]models.Payment{
		payment("4", "9", models.PaymentCompleted, 100),
		payment("3", "9", models.PaymentFailed, 0),
	})
	require.True(t, ok)
	assert.Equal(t, models.ID("4"), got.PaymentID)
}

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"", "prefer-open", " Prefer-Open ", "first"} {
		p, err := PolicyByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, p)
	}
	_, err := PolicyByName("latest")
	assert.True(t, domain.IsValidation(err))
}

func TestJoinPaymentsKeepsOrderAndEmptySlices(t *testing.T) {
	bookings := []models.Booking{booking(t, 7, 1, "Scheduled"), booking(t, 9, 1, "Pending")}
	payments := []models.Payment{
		payment("4", "9", models.PaymentCompleted, 100),
		payment("8", "99", models.PaymentPending, 0),
		payment("3", "9", models.PaymentFailed, 0),
	}

	joined := JoinPayments(bookings, payments)
	require.Len(t, joined, 2)
	assert.Equal(t, models.ID("7"), joined[0].Booking.BookingID)
	assert.NotNil(t, joined[0].Payments)
	assert.Empty(t, joined[0].Payments)

	require.Len(t, joined[1].Payments, 2)
	assert.Equal(t, models.ID("4"), joined[1].Payments[0].PaymentID)
	assert.Equal(t, models.ID("3"), joined[1].Payments[1].PaymentID)
}

func TestBuildSnapshotEnrichment(t *testing.T) {
	bookings := []models.Booking{booking(t, 7, 1, "Scheduled"), booking(t, 9, 2, "Completed")}
	payments := []models.Payment{
		payment("3", "9", models.PaymentFailed, 0),
		payment("4", "9", models.PaymentCompleted, 250),
		payment("8", "404", models.PaymentPending, 0),
	}
	snap := BuildSnapshot(bookings, payments, PreferOpen, fixedNow)

	none, ok := snap.Find("7")
	require.True(t, ok)
	assert.Equal(t, models.NoPayment, none.PaymentStatus)
	assert.Zero(t, none.PaymentAmount)
	assert.False(t, none.HasPayment())

	nine, ok := snap.Find("9")
	require.True(t, ok)
	assert.Equal(t, models.ID("3"), nine.PaymentID())
	assert.Equal(t, models.PaymentFailed, nine.PaymentStatus)
	assert.Equal(t, 2, nine.PaymentCount)

	assert.Equal(t, 1, snap.UnmatchedPayments)
	assert.Len(t, snap.ForTutor("2"), 1)
	assert.Empty(t, snap.ForTutor(""))

	counts := snap.StatusCounts()
	assert.Equal(t, 1, counts[models.BookingScheduled])
	assert.Equal(t, 1, counts[models.BookingCompleted])
	assert.Equal(t, 0, counts[models.BookingCancelled])
	assert.Equal(t, fixedNow, snap.FetchedAt)
}

func TestBuildSnapshotWithFirstPolicy(t *testing.T) {
	snap := BuildSnapshot(
		[]models.Booking{booking(t, 9, 1, "Pending")},
		[]models.Payment{payment("4", "9", models.PaymentCompleted, 80), payment("3", "9", models.PaymentFailed, 0)},
		FirstRecorded, fixedNow,
	)
	eb, ok := snap.Find("9")
	require.True(t, ok)
	assert.Equal(t, models.ID("4"), eb.PaymentID())
	assert.Equal(t, 80.0, eb.PaymentAmount)
}

func TestNilSnapshotIsSafe(t *testing.T) {
	var snap *Snapshot
	_, ok := snap.Find("1")
	assert.False(t, ok)
	assert.Empty(t, snap.PaymentsFor("1"))
	assert.Len(t, snap.StatusCounts(), len(models.BookingStatuses))
}
