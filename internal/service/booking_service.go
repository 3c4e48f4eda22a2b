package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportclub/internal/database"
	"sportclub/internal/domain"
	"sportclub/internal/events"
	"sportclub/internal/metrics"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// BookingOptions carries the booking.* configuration.
type BookingOptions struct {
	MaxAdvanceDays int
	RateLimit      int
	RateWindow     time.Duration
}

type BookingService struct {
	repo        domain.Repository
	resolver    domain.AvailabilityResolver
	rateLimiter domain.RateLimitStore
	eventBus    domain.EventPublisher
	opts        BookingOptions
	logger      *zerolog.Logger
}

func NewBookingService(repo domain.Repository, resolver domain.AvailabilityResolver, rateLimiter domain.RateLimitStore, eventBus domain.EventPublisher, opts BookingOptions, logger *zerolog.Logger) *BookingService {
	if opts.MaxAdvanceDays <= 0 {
		opts.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = models.DefaultBookingRateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = models.DefaultBookingRateWindow
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BookingService{
		repo:        repo,
		resolver:    resolver,
		rateLimiter: rateLimiter,
		eventBus:    eventBus,
		opts:        opts,
		logger:      logger,
	}
}

// allowedTransitions maps a current status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCancelled, models.StatusExpired},
	models.StatusCancelled: {models.StatusPending},
}

func canTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateSlot checks that the requested slot can still be booked.
func (s *BookingService) ValidateSlot(ctx context.Context, r *models.Reservation) error {
	if r.StartTime >= r.EndTime {
		return ErrInvalidTimeRange
	}

	// Проверяем, что слот не в прошлом и не раньше lead time
	now := s.resolver.Now()
	today := s.resolver.Today()
	if r.Date.Before(today.Time) {
		return ErrPastSlot
	}
	start := r.Date.At(r.StartTime, s.resolver.Location())
	if start.Before(now) {
		return ErrPastSlot
	}
	if start.Before(now.Add(s.resolver.LeadTime())) {
		return ErrLeadTime
	}

	// Проверяем максимальную дату
	if r.Date.After(today.AddDays(s.opts.MaxAdvanceDays).Time) {
		return ErrDateTooFar
	}

	schedules, err := s.resolver.ScheduleFor(ctx, r.FieldID, r.Date)
	if err != nil {
		return err
	}
	for _, row := range schedules {
		if row.Active && row.Covers(r.StartTime, r.EndTime) {
			return nil
		}
	}
	return ErrSlotNotScheduled
}

// CreateReservation books a pending slot. Overlap is enforced by the ledger insert.
func (s *BookingService) CreateReservation(ctx context.Context, r *models.Reservation) error {
	field, err := s.repo.GetField(ctx, r.FieldID)
	if err != nil {
		return err
	}
	if !field.Active {
		return ErrFieldInactive
	}

	if err := s.ValidateSlot(ctx, r); err != nil {
		return err
	}

	if err := s.checkRateLimit(ctx, r); err != nil {
		return err
	}

	r.Status = models.StatusPending
	if err := s.repo.CreateReservation(ctx, r); err != nil {
		if errors.Is(err, database.ErrSlotConflict) {
			metrics.IncReservationConflict()
		}
		return err
	}
	r.FieldName = field.Name
	metrics.IncReservationCreated()

	s.logger.Info().
		Int64("reservation_id", r.ID).
		Int64("field_id", r.FieldID).
		Str("date", r.Date.String()).
		Str("start", r.StartTime.String()).
		Msg("Reservation created")

	s.publishEvent(events.EventReservationCreated, r, "user")
	return nil
}

func (s *BookingService) checkRateLimit(ctx context.Context, r *models.Reservation) error {
	if s.rateLimiter == nil {
		return nil
	}

	key := "booking:phone:" + r.Phone
	if r.UserID != nil {
		key = fmt.Sprintf("booking:user:%d", *r.UserID)
	}

	allowed, err := s.rateLimiter.CheckRateLimit(ctx, key, s.opts.RateLimit, s.opts.RateWindow)
	if err != nil {
		// Лимитер недоступен: не блокируем бронирование
		s.logger.Warn().Err(err).Str("key", key).Msg("Rate limit check failed")
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

func (s *BookingService) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

func (s *BookingService) GetUserReservations(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	return s.repo.GetUserReservations(ctx, userID)
}

func (s *BookingService) GetReservationsByDateRange(ctx context.Context, from, to models.Date) ([]*models.Reservation, error) {
	return s.repo.GetReservationsByDateRange(ctx, from, to)
}

// CancelReservation cancels on behalf of a user. A nil userID skips the
// ownership check and is reserved for trusted callers; the public endpoint
// always passes one.
func (s *BookingService) CancelReservation(ctx context.Context, id, version int64, userID *int64) (*models.Reservation, error) {
	current, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != nil && (current.UserID == nil || *current.UserID != *userID) {
		return nil, ErrNotOwner
	}
	return s.transition(ctx, current, version, models.StatusCancelled, "user")
}

// ChangeStatus is the administrator transition.
func (s *BookingService) ChangeStatus(ctx context.Context, id, version int64, status string) (*models.Reservation, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidTransition)
	}
	current, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, current, version, status, "admin")
}

func (s *BookingService) transition(ctx context.Context, current *models.Reservation, version int64, status, changedBy string) (*models.Reservation, error) {
	if !canTransition(current.Status, status) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, status, ErrInvalidTransition)
	}

	updated, err := s.repo.UpdateReservationStatus(ctx, current.ID, version, status)
	if err != nil {
		if errors.Is(err, database.ErrSlotConflict) {
			metrics.IncReservationConflict()
		}
		return nil, err
	}

	s.logger.Info().
		Int64("reservation_id", updated.ID).
		Str("from", current.Status).
		Str("to", status).
		Str("by", changedBy).
		Msg("Reservation status changed")

	s.publishEvent(statusEvent(status), updated, changedBy)
	return updated, nil
}

func statusEvent(to string) string {
	switch to {
	case models.StatusConfirmed:
		return events.EventReservationConfirmed
	case models.StatusCancelled:
		return events.EventReservationCancelled
	case models.StatusExpired:
		return events.EventReservationExpired
	default:
		return events.EventReservationReopened
	}
}

func (s *BookingService) DeleteReservation(ctx context.Context, id int64) error {
	return s.repo.DeleteReservation(ctx, id)
}

func (s *BookingService) publishEvent(eventType string, r *models.Reservation, changedBy string) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.PublishJSON(eventType, events.NewReservationPayload(r, changedBy)); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("reservation_id", r.ID).Msg("publish event error")
	}
}
