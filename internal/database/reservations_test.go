package database

import (
	"context"
	"testing"

	"sportclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	userID := int64(42)

	r := &models.Reservation{
		FieldID:        field.ID,
		UserID:         &userID,
		Date:           models.MustDate("2025-06-01"),
		StartTime:      models.MustTimeOfDay("10:00"),
		EndTime:        models.MustTimeOfDay("11:00"),
		ActivityType:   "calcetto",
		Phone:          "+39333111222",
		DocumentType:   models.DocumentIdentity,
		DocumentNumber: "AB12345",
	}
	require.NoError(t, db.CreateReservation(ctx, r))
	assert.NotZero(t, r.ID)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Equal(t, int64(1), r.Version)

	got, err := db.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campo A", got.FieldName)
	assert.Equal(t, "2025-06-01", got.Date.String())
	assert.Equal(t, "10:00", got.StartTime.String())
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
	assert.Nil(t, got.TeamID)
	assert.False(t, got.ReminderSent)

	_, err = db.GetReservation(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReservation_Overlap(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	other := createTestField(t, db, "Campo B")

	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusConfirmed)

	tests := []struct {
		name    string
		fieldID int64
		date    string
		start   string
		end     string
		wantErr bool
	}{
		{"same slot", field.ID, "2025-06-01", "10:00", "11:00", true},
		{"partial overlap", field.ID, "2025-06-01", "10:30", "11:30", true},
		{"enclosing", field.ID, "2025-06-01", "09:00", "12:00", true},
		{"adjacent before", field.ID, "2025-06-01", "09:00", "10:00", false},
		{"adjacent after", field.ID, "2025-06-01", "11:00", "12:00", false},
		{"other day", field.ID, "2025-06-02", "10:00", "11:00", false},
		{"other field", other.ID, "2025-06-01", "10:00", "11:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.Reservation{
				FieldID:   tt.fieldID,
				Date:      models.MustDate(tt.date),
				StartTime: models.MustTimeOfDay(tt.start),
				EndTime:   models.MustTimeOfDay(tt.end),
				Phone:     "1",
			}
			err := db.CreateReservation(ctx, r)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSlotConflict)
				return
			}
			require.NoError(t, err)
			// release the slot for the next case
			_, err = db.UpdateReservationStatus(ctx, r.ID, r.Version, models.StatusCancelled)
			require.NoError(t, err)
		})
	}
}

func TestCreateReservation_CancelledDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	field := createTestField(t, db, "Campo A")
	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusCancelled)
	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusExpired)
	createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusPending)
}

func TestGetReservations_StatusFilter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	date := models.MustDate("2025-06-01")

	createTestReservation(t, db, field.ID, "2025-06-01", "11:00", "12:00", models.StatusConfirmed)
	createTestReservation(t, db, field.ID, "2025-06-01", "09:00", "10:00", models.StatusPending)
	createTestReservation(t, db, field.ID, "2025-06-01", "13:00", "14:00", models.StatusCancelled)
	createTestReservation(t, db, field.ID, "2025-06-02", "09:00", "10:00", models.StatusPending)

	active, err := db.GetReservations(ctx, field.ID, date, models.ActiveStatuses)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "09:00", active[0].StartTime.String())
	assert.Equal(t, "11:00", active[1].StartTime.String())

	all, err := db.GetReservations(ctx, field.ID, date, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rng, err := db.GetReservationsByDateRange(ctx, date, date.AddDays(1))
	require.NoError(t, err)
	assert.Len(t, rng, 4)
}

func TestUpdateReservationStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	r := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusPending)

	confirmed, err := db.UpdateReservationStatus(ctx, r.ID, r.Version, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, int64(2), confirmed.Version)

	// stale version
	_, err = db.UpdateReservationStatus(ctx, r.ID, r.Version, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	_, err = db.UpdateReservationStatus(ctx, 9999, 1, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReservationStatus_ReopenRechecksOverlap(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")

	first := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusPending)
	cancelled, err := db.UpdateReservationStatus(ctx, first.ID, first.Version, models.StatusCancelled)
	require.NoError(t, err)

	createTestReservation(t, db, field.ID, "2025-06-01", "10:30", "11:30", models.StatusPending)

	_, err = db.UpdateReservationStatus(ctx, cancelled.ID, cancelled.Version, models.StatusPending)
	assert.ErrorIs(t, err, ErrSlotConflict)

	got, err := db.GetReservation(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestUserReservationsAndReminderFlag(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	userID := int64(7)

	for _, date := range []string{"2025-06-01", "2025-06-03"} {
		r := &models.Reservation{
			FieldID: field.ID, UserID: &userID, Date: models.MustDate(date),
			StartTime: models.MustTimeOfDay("10:00"), EndTime: models.MustTimeOfDay("11:00"), Phone: "1",
		}
		require.NoError(t, db.CreateReservation(ctx, r))
	}
	createTestReservation(t, db, field.ID, "2025-06-02", "10:00", "11:00", models.StatusPending)

	mine, err := db.GetUserReservations(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2025-06-03", mine[0].Date.String())

	require.NoError(t, db.MarkReminderSent(ctx, mine[0].ID))
	got, err := db.GetReservation(ctx, mine[0].ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)

	require.NoError(t, db.DeleteReservation(ctx, got.ID))
	assert.ErrorIs(t, db.DeleteReservation(ctx, got.ID), ErrNotFound)
}
