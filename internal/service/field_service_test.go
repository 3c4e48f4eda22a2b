package service

import (
	"context"
	"io"
	"testing"

	"sportclub/internal/database"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	svc := NewFieldService(db, &logger)
	ctx := context.Background()

	open := &models.Field{Name: "  Campo A  ", Active: true}
	closed := &models.Field{Name: "Campo B", Active: false}
	require.NoError(t, svc.CreateField(ctx, open))
	require.NoError(t, svc.CreateField(ctx, closed))
	assert.Equal(t, "Campo A", open.Name)

	t.Run("EmptyName", func(t *testing.T) {
		assert.ErrorIs(t, svc.CreateField(ctx, &models.Field{Name: " "}), ErrFieldNameRequired)
	})

	t.Run("ListFields", func(t *testing.T) {
		public, err := svc.ListFields(ctx, false)
		require.NoError(t, err)
		require.Len(t, public, 1)
		assert.Equal(t, open.ID, public[0].ID)

		all, err := svc.ListFields(ctx, true)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Schedules", func(t *testing.T) {
		monday := 1
		row := &models.FieldSchedule{
			FieldID:   open.ID,
			Weekday:   &monday,
			StartTime: models.MustTimeOfDay("18:00"),
			EndTime:   models.MustTimeOfDay("19:00"),
			Active:    true,
		}
		require.NoError(t, svc.CreateSchedule(ctx, row))

		rows, err := svc.ListSchedules(ctx, open.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		update := &models.FieldSchedule{ID: row.ID, Weekday: &monday,
			StartTime: row.StartTime, EndTime: row.EndTime, Active: false}
		require.NoError(t, svc.UpdateSchedule(ctx, update))
		assert.Equal(t, open.ID, update.FieldID)
		rows, err = svc.ListSchedules(ctx, open.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)

		require.NoError(t, svc.DeleteSchedule(ctx, row.ID))
	})

	t.Run("InvalidSchedule", func(t *testing.T) {
		bad := 7
		err := svc.CreateSchedule(ctx, &models.FieldSchedule{FieldID: open.ID, Weekday: &bad,
			StartTime: models.MustTimeOfDay("10:00"), EndTime: models.MustTimeOfDay("11:00")})
		assert.ErrorIs(t, err, ErrInvalidWeekday)

		err = svc.CreateSchedule(ctx, &models.FieldSchedule{FieldID: open.ID,
			StartTime: models.MustTimeOfDay("11:00"), EndTime: models.MustTimeOfDay("10:00")})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		err = svc.CreateSchedule(ctx, &models.FieldSchedule{FieldID: 999,
			StartTime: models.MustTimeOfDay("10:00"), EndTime: models.MustTimeOfDay("11:00")})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteField(ctx, closed.ID))
		_, err := svc.GetField(ctx, closed.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}
