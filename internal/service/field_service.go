package service

import (
	"context"
	"strings"

	"sportclub/internal/domain"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// FieldRepository combines what field administration needs from storage.
type FieldRepository interface {
	domain.FieldRepository
	domain.ScheduleRepository
}

type FieldService struct {
	repo   FieldRepository
	logger *zerolog.Logger
}

func NewFieldService(repo FieldRepository, logger *zerolog.Logger) *FieldService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FieldService{repo: repo, logger: logger}
}

// ListFields returns active fields unless includeInactive is set.
func (s *FieldService) ListFields(ctx context.Context, includeInactive bool) ([]*models.Field, error) {
	return s.repo.ListFields(ctx, !includeInactive)
}

func (s *FieldService) GetField(ctx context.Context, id int64) (*models.Field, error) {
	return s.repo.GetField(ctx, id)
}

func (s *FieldService) CreateField(ctx context.Context, field *models.Field) error {
	if err := validateField(field); err != nil {
		return err
	}
	if err := s.repo.CreateField(ctx, field); err != nil {
		return err
	}
	s.logger.Info().Int64("field_id", field.ID).Str("name", field.Name).Msg("Field created")
	return nil
}

func (s *FieldService) UpdateField(ctx context.Context, field *models.Field) error {
	if err := validateField(field); err != nil {
		return err
	}
	if err := s.repo.UpdateField(ctx, field); err != nil {
		return err
	}
	stored, err := s.repo.GetField(ctx, field.ID)
	if err != nil {
		return err
	}
	*field = *stored
	return nil
}

// DeleteField removes the field with its schedules and reservations.
func (s *FieldService) DeleteField(ctx context.Context, id int64) error {
	if err := s.repo.DeleteField(ctx, id); err != nil {
		return err
	}
	s.logger.Warn().Int64("field_id", id).Msg("Field deleted")
	return nil
}

// ListSchedules returns the active rows of a field, default rows included.
func (s *FieldService) ListSchedules(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error) {
	if _, err := s.repo.GetField(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, fieldID, true)
}

func (s *FieldService) CreateSchedule(ctx context.Context, row *models.FieldSchedule) error {
	if err := validateSchedule(row); err != nil {
		return err
	}
	if _, err := s.repo.GetField(ctx, row.FieldID); err != nil {
		return err
	}
	return s.repo.CreateSchedule(ctx, row)
}

func (s *FieldService) UpdateSchedule(ctx context.Context, row *models.FieldSchedule) error {
	if err := validateSchedule(row); err != nil {
		return err
	}
	if err := s.repo.UpdateSchedule(ctx, row); err != nil {
		return err
	}
	stored, err := s.repo.GetSchedule(ctx, row.ID)
	if err != nil {
		return err
	}
	*row = *stored
	return nil
}

func (s *FieldService) DeleteSchedule(ctx context.Context, id int64) error {
	return s.repo.DeleteSchedule(ctx, id)
}

func validateField(field *models.Field) error {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return ErrFieldNameRequired
	}
	return nil
}

func validateSchedule(row *models.FieldSchedule) error {
	if row.Weekday != nil && (*row.Weekday < 0 || *row.Weekday > 6) {
		return ErrInvalidWeekday
	}
	if row.StartTime >= row.EndTime {
		return ErrInvalidTimeRange
	}
	return nil
}
