package worker

import (
	"context"
	"time"

	"sportclub/internal/domain"

	"github.com/rs/zerolog"
)

// MaintenanceScheduler runs the maintenance pass on a fixed interval.
type MaintenanceScheduler struct {
	svc      domain.MaintenanceService
	interval time.Duration
	logger   *zerolog.Logger
}

func NewMaintenanceScheduler(svc domain.MaintenanceService, interval time.Duration, logger *zerolog.Logger) *MaintenanceScheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &MaintenanceScheduler{svc: svc, interval: interval, logger: logger}
}

func (s *MaintenanceScheduler) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("Maintenance scheduler started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		report, err := s.svc.Run(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Maintenance run failed")
		} else if report.Expired+report.AutoAccepted > 0 || report.Purged > 0 {
			s.logger.Info().
				Int("expired", report.Expired).
				Int("auto_accepted", report.AutoAccepted).
				Int64("purged", report.Purged).
				Msg("Maintenance completed")
		}

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Maintenance scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}
