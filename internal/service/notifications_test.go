package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"sportclub/internal/database"
	"sportclub/internal/events"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, kind string, r *models.Reservation) error {
	return m.Called(ctx, kind, r).Error(0)
}

func TestSubscribeNotifications(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	field := &models.Field{Name: "Campo A", Active: true}
	require.NoError(t, db.CreateField(ctx, field))
	r := &models.Reservation{
		FieldID:   field.ID,
		Date:      models.MustDate("2030-05-11"),
		StartTime: models.MustTimeOfDay("18:00"),
		EndTime:   models.MustTimeOfDay("19:00"),
		Phone:     "+39000",
	}
	require.NoError(t, db.CreateReservation(ctx, r))

	bus := events.NewEventBus()
	enq := new(mockEnqueuer)
	SubscribeNotifications(bus, db, enq, &logger)

	enq.On("Enqueue", mock.Anything, events.EventReservationCreated, mock.MatchedBy(func(got *models.Reservation) bool {
		return got.ID == r.ID && got.Phone == "+39000" && got.FieldName == "Campo A"
	})).Return(nil).Once()

	require.NoError(t, bus.PublishJSON(events.EventReservationCreated, events.NewReservationPayload(r, "user")))
	enq.AssertExpectations(t)

	t.Run("MissingReservation", func(t *testing.T) {
		var handlerErr error
		bus.OnError(func(_ *events.Event, err error) { handlerErr = err })

		ghost := *r
		ghost.ID = 999
		require.NoError(t, bus.PublishJSON(events.EventReservationCancelled, events.NewReservationPayload(&ghost, "admin")))
		assert.True(t, errors.Is(handlerErr, database.ErrNotFound))
		enq.AssertNumberOfCalls(t, "Enqueue", 1)
	})
}
