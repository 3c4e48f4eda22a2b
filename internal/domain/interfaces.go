package domain

import (
	"context"
	"time"

	"sportclub/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type FieldRepository interface {
	CreateField(ctx context.Context, field *models.Field) error
	GetField(ctx context.Context, id int64) (*models.Field, error)
	ListFields(ctx context.Context, activeOnly bool) ([]*models.Field, error)
	UpdateField(ctx context.Context, field *models.Field) error
	DeleteField(ctx context.Context, id int64) error
}

type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, s *models.FieldSchedule) error
	GetSchedule(ctx context.Context, id int64) (*models.FieldSchedule, error)
	GetScheduleForField(ctx context.Context, fieldID int64, weekday int) ([]*models.FieldSchedule, error)
	GetDefaultSchedule(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error)
	ListSchedules(ctx context.Context, fieldID int64, activeOnly bool) ([]*models.FieldSchedule, error)
	UpdateSchedule(ctx context.Context, s *models.FieldSchedule) error
	DeleteSchedule(ctx context.Context, id int64) error
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	GetReservations(ctx context.Context, fieldID int64, date models.Date, statuses []string) ([]*models.Reservation, error)
	GetUserReservations(ctx context.Context, userID int64) ([]*models.Reservation, error)
	GetReservationsByDateRange(ctx context.Context, from, to models.Date) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id, fromVersion int64, status string) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type MaintenanceRepository interface {
	ExpireReservations(ctx context.Context, now time.Time, loc *time.Location) ([]*models.Reservation, error)
	AutoAcceptReservations(ctx context.Context, cutoff time.Time) ([]*models.Reservation, error)
	PurgeReservations(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeNotificationTasks(ctx context.Context, cutoff time.Time) (int64, error)
	GetReservationsForReminder(ctx context.Context, date models.Date, from, to models.TimeOfDay) ([]*models.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

type NotificationQueueRepository interface {
	CreateNotificationTask(ctx context.Context, task *models.NotificationTask) error
	GetNotificationTask(ctx context.Context, id int64) (*models.NotificationTask, error)
	GetPendingNotificationTasks(ctx context.Context, limit int) ([]models.NotificationTask, error)
	UpdateNotificationTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}

// NotificationAuditor lists deliveries that ran out of retries.
type NotificationAuditor interface {
	GetFailedNotificationTasks(ctx context.Context) ([]models.NotificationTask, error)
}

// Repository is everything the services need from storage.
type Repository interface {
	FieldRepository
	ScheduleRepository
	ReservationRepository
	MaintenanceRepository
	NotificationQueueRepository
}

type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	ResetRateLimit(ctx context.Context, key string) error
}

type AvailabilityResolver interface {
	GetAvailability(ctx context.Context, fieldID int64, date models.Date) ([]models.AvailabilitySlot, error)
	ScheduleFor(ctx context.Context, fieldID int64, date models.Date) ([]*models.FieldSchedule, error)
	Now() time.Time
	Today() models.Date
	Location() *time.Location
	LeadTime() time.Duration
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, kind string, reservation *models.Reservation) error
}

type Notifier interface {
	Notify(ctx context.Context, kind string, reservation *models.Reservation) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BookingService interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	GetUserReservations(ctx context.Context, userID int64) ([]*models.Reservation, error)
	GetReservationsByDateRange(ctx context.Context, from, to models.Date) ([]*models.Reservation, error)
	CancelReservation(ctx context.Context, id, version int64, userID *int64) (*models.Reservation, error)
	ChangeStatus(ctx context.Context, id, version int64, status string) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type FieldService interface {
	ListFields(ctx context.Context, includeInactive bool) ([]*models.Field, error)
	GetField(ctx context.Context, id int64) (*models.Field, error)
	CreateField(ctx context.Context, field *models.Field) error
	UpdateField(ctx context.Context, field *models.Field) error
	DeleteField(ctx context.Context, id int64) error
	ListSchedules(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error)
	CreateSchedule(ctx context.Context, s *models.FieldSchedule) error
	UpdateSchedule(ctx context.Context, s *models.FieldSchedule) error
	DeleteSchedule(ctx context.Context, id int64) error
}

type MaintenanceService interface {
	Run(ctx context.Context) (*models.MaintenanceReport, error)
}
