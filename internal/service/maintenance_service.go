package service

import (
	"context"
	"fmt"
	"time"

	"sportclub/internal/domain"
	"sportclub/internal/events"
	"sportclub/internal/metrics"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// MaintenanceOptions carries the lifecycle knobs from config.
type MaintenanceOptions struct {
	AutoAcceptAfter time.Duration
	RetentionDays   int
}

// MaintenanceService expires finished reservations, confirms stale pending
// ones and purges old history.
type MaintenanceService struct {
	repo     domain.MaintenanceRepository
	eventBus domain.EventPublisher
	now      func() time.Time
	loc      *time.Location
	opts     MaintenanceOptions
	logger   *zerolog.Logger
}

func NewMaintenanceService(repo domain.MaintenanceRepository, eventBus domain.EventPublisher, now func() time.Time, loc *time.Location, opts MaintenanceOptions, logger *zerolog.Logger) *MaintenanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	if opts.AutoAcceptAfter <= 0 {
		opts.AutoAcceptAfter = models.DefaultAutoAcceptAfter
	}
	if opts.RetentionDays < 0 {
		opts.RetentionDays = 0
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &MaintenanceService{
		repo:     repo,
		eventBus: eventBus,
		now:      now,
		loc:      loc,
		opts:     opts,
		logger:   logger,
	}
}

func (s *MaintenanceService) Run(ctx context.Context) (*models.MaintenanceReport, error) {
	now := s.now().In(s.loc)
	report := &models.MaintenanceReport{}

	expired, err := s.repo.ExpireReservations(ctx, now, s.loc)
	if err != nil {
		return report, fmt.Errorf("expire reservations: %w", err)
	}
	report.Expired = len(expired)
	metrics.AddMaintenance("expired", int64(len(expired)))
	s.publishAll(events.EventReservationExpired, expired)

	cutoff := now.AddDate(0, 0, -s.opts.RetentionDays)
	purged, err := s.repo.PurgeReservations(ctx, cutoff)
	if err != nil {
		return report, fmt.Errorf("purge reservations: %w", err)
	}
	report.Purged = purged
	metrics.AddMaintenance("purged", purged)

	if n, err := s.repo.PurgeNotificationTasks(ctx, cutoff); err != nil {
		s.logger.Warn().Err(err).Msg("Purge notification tasks failed")
	} else if n > 0 {
		s.logger.Debug().Int64("count", n).Msg("Notification tasks purged")
	}

	accepted, err := s.repo.AutoAcceptReservations(ctx, now.Add(-s.opts.AutoAcceptAfter))
	if err != nil {
		return report, fmt.Errorf("auto-accept reservations: %w", err)
	}
	report.AutoAccepted = len(accepted)
	metrics.AddMaintenance("auto_accepted", int64(len(accepted)))
	s.publishAll(events.EventReservationConfirmed, accepted)

	return report, nil
}

func (s *MaintenanceService) publishAll(eventType string, list []*models.Reservation) {
	if s.eventBus == nil {
		return
	}
	for _, r := range list {
		if err := s.eventBus.PublishJSON(eventType, events.NewReservationPayload(r, "system")); err != nil {
			s.logger.Error().Err(err).Str("event_type", eventType).Int64("reservation_id", r.ID).Msg("publish event error")
		}
	}
}
