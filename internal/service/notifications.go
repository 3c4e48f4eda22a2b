package service

import (
	"context"
	"fmt"
	"time"

	"sportclub/internal/domain"
	"sportclub/internal/events"

	"github.com/rs/zerolog"
)

// SubscribeNotifications turns reservation events into queued notifications.
func SubscribeNotifications(bus *events.EventBus, repo domain.ReservationRepository, enqueuer domain.NotificationEnqueuer, logger *zerolog.Logger) {
	bus.SubscribeMany(events.ReservationEvents, func(event *events.Event) error {
		var payload events.ReservationEventPayload
		if err := event.Decode(&payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		r, err := repo.GetReservation(ctx, payload.ReservationID)
		if err != nil {
			return fmt.Errorf("load reservation %d: %w", payload.ReservationID, err)
		}
		return enqueuer.Enqueue(ctx, event.Type, r)
	})

	bus.OnError(func(event *events.Event, err error) {
		logger.Error().Err(err).Str("event_type", event.Type).Msg("Event handler failed")
	})
}
