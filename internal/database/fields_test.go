package database

import (
	"context"
	"testing"

	"sportclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	field := &models.Field{
		Name:        "Campo A",
		Address:     "Via dello Sport 1",
		SurfaceType: "grass",
		Lighting:    true,
		Active:      true,
	}
	require.NoError(t, db.CreateField(ctx, field))
	assert.NotZero(t, field.ID)

	got, err := db.GetField(ctx, field.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campo A", got.Name)
	assert.True(t, got.Lighting)
	assert.False(t, got.Indoor)

	got.Active = false
	got.Description = "closed for works"
	require.NoError(t, db.UpdateField(ctx, got))

	createTestField(t, db, "Campo B")

	all, err := db.ListFields(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := db.ListFields(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Campo B", active[0].Name)

	require.NoError(t, db.DeleteField(ctx, field.ID))
	_, err = db.GetField(ctx, field.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteField(ctx, field.ID), ErrNotFound)
	assert.ErrorIs(t, db.UpdateField(ctx, &models.Field{ID: 999, Name: "x"}), ErrNotFound)
}

func TestDeleteField_CascadesToSchedulesAndReservations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo C")

	s := &models.FieldSchedule{FieldID: field.ID, StartTime: models.MustTimeOfDay("09:00"), EndTime: models.MustTimeOfDay("10:00"), Active: true}
	require.NoError(t, db.CreateSchedule(ctx, s))
	r := createTestReservation(t, db, field.ID, "2025-06-01", "09:00", "10:00", models.StatusPending)

	require.NoError(t, db.DeleteField(ctx, field.ID))

	_, err := db.GetSchedule(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetReservation(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
