package notify

import (
	"context"
	"errors"

	"sportclub/internal/domain"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// LogNotifier records every notification in the application log.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, kind string, r *models.Reservation) error {
	if r == nil {
		return errors.New("reservation is nil")
	}
	ev := n.logger.Info().
		Str("kind", kind).
		Int64("reservation_id", r.ID).
		Int64("field_id", r.FieldID).
		Str("date", r.Date.String()).
		Str("start", r.StartTime.String()).
		Str("end", r.EndTime.String()).
		Str("status", r.Status)
	if r.UserID != nil {
		ev = ev.Int64("user_id", *r.UserID)
	}
	ev.Msg("Reservation notification")
	return nil
}

// MultiNotifier fans a notification out to every notifier and joins their errors.
type MultiNotifier []domain.Notifier

func (m MultiNotifier) Notify(ctx context.Context, kind string, r *models.Reservation) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, kind, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
