package database

import (
	"context"
	"testing"
	"time"

	"sportclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireReservations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	field := createTestField(t, db, "Campo A")
	yesterday := createTestReservation(t, db, field.ID, "2025-05-31", "20:00", "21:00", models.StatusConfirmed)
	morning := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusConfirmed)
	endsNow := createTestReservation(t, db, field.ID, "2025-06-01", "11:00", "12:00", models.StatusConfirmed)
	later := createTestReservation(t, db, field.ID, "2025-06-01", "13:00", "14:00", models.StatusConfirmed)
	pending := createTestReservation(t, db, field.ID, "2025-05-30", "10:00", "11:00", models.StatusPending)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, rome)
	expired, err := db.ExpireReservations(ctx, now, rome)
	require.NoError(t, err)

	ids := make([]int64, 0, len(expired))
	for _, r := range expired {
		assert.Equal(t, models.StatusExpired, r.Status)
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []int64{yesterday.ID, morning.ID, endsNow.ID}, ids)

	for _, id := range []int64{later.ID, pending.ID} {
		got, err := db.GetReservation(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, models.StatusExpired, got.Status)
	}

	// second run is a no-op
	again, err := db.ExpireReservations(ctx, now, rome)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestAutoAcceptReservations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	p1 := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusPending)
	p2 := createTestReservation(t, db, field.ID, "2025-06-02", "10:00", "11:00", models.StatusPending)
	createTestReservation(t, db, field.ID, "2025-06-03", "10:00", "11:00", models.StatusConfirmed)

	none, err := db.AutoAcceptReservations(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)

	accepted, err := db.AutoAcceptReservations(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, accepted, 2)
	assert.ElementsMatch(t, []int64{p1.ID, p2.ID}, []int64{accepted[0].ID, accepted[1].ID})

	got, err := db.GetReservation(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestPurgeReservations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusCancelled)
	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusExpired)
	keep := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusConfirmed)

	n, err := db.PurgeReservations(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = db.PurgeReservations(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := db.GetReservations(ctx, field.ID, models.MustDate("2025-06-01"), nil)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
}

func TestGetReservationsForReminder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	due := createTestReservation(t, db, field.ID, "2025-06-01", "14:00", "15:00", models.StatusConfirmed)
	createTestReservation(t, db, field.ID, "2025-06-01", "17:00", "18:00", models.StatusConfirmed)
	createTestReservation(t, db, field.ID, "2025-06-01", "14:10", "14:50", models.StatusCancelled)
	reminded := createTestReservation(t, db, field.ID, "2025-06-01", "13:50", "14:00", models.StatusConfirmed)
	require.NoError(t, db.MarkReminderSent(ctx, reminded.ID))

	got, err := db.GetReservationsForReminder(ctx, models.MustDate("2025-06-01"),
		models.MustTimeOfDay("13:45"), models.MustTimeOfDay("14:15"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}
