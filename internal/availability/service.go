package availability

import (
	"context"
	"fmt"
	"time"

	"sportclub/internal/metrics"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// Repository is the read side the resolver needs.
type Repository interface {
	GetScheduleForField(ctx context.Context, fieldID int64, weekday int) ([]*models.FieldSchedule, error)
	GetDefaultSchedule(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error)
	GetReservations(ctx context.Context, fieldID int64, date models.Date, statuses []string) ([]*models.Reservation, error)
}

type Service struct {
	repo     Repository
	clock    Clock
	loc      *time.Location
	leadTime time.Duration
	logger   *zerolog.Logger
}

func NewService(repo Repository, clock Clock, loc *time.Location, leadTime time.Duration, logger *zerolog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		repo:     repo,
		clock:    clock,
		loc:      loc,
		leadTime: leadTime,
		logger:   logger,
	}
}

// Now returns the current instant in the club time zone.
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) Today() models.Date {
	return models.DateOf(s.Now())
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) LeadTime() time.Duration { return s.leadTime }

// ScheduleFor returns the rows that apply on date: the weekday's own rows,
// or the default rows when the weekday has none.
func (s *Service) ScheduleFor(ctx context.Context, fieldID int64, date models.Date) ([]*models.FieldSchedule, error) {
	rows, err := s.repo.GetScheduleForField(ctx, fieldID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("load weekday schedule: %w", err)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	rows, err = s.repo.GetDefaultSchedule(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("load default schedule: %w", err)
	}
	return rows, nil
}

// GetAvailability resolves the slots of a field on date. An unknown field
// or a day without schedule yields an empty list.
func (s *Service) GetAvailability(ctx context.Context, fieldID int64, date models.Date) ([]models.AvailabilitySlot, error) {
	schedules, err := s.ScheduleFor(ctx, fieldID, date)
	if err != nil {
		metrics.IncAvailability("error")
		return nil, err
	}
	if len(schedules) == 0 {
		metrics.IncAvailability("empty")
		return []models.AvailabilitySlot{}, nil
	}

	reservations, err := s.repo.GetReservations(ctx, fieldID, date, models.ActiveStatuses)
	if err != nil {
		metrics.IncAvailability("error")
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	slots := Resolve(date, schedules, reservations, s.Now(), s.leadTime)

	s.logger.Debug().
		Int64("field_id", fieldID).
		Str("date", date.String()).
		Int("schedules", len(schedules)).
		Int("reservations", len(reservations)).
		Int("slots", len(slots)).
		Msg("Availability resolved")

	if len(slots) == 0 {
		metrics.IncAvailability("empty")
	} else {
		metrics.IncAvailability("ok")
	}
	return slots, nil
}
