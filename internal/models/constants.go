package models

import "time"

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Identity document types accepted with a reservation.
const (
	DocumentFiscalCode = "CF"
	DocumentIdentity   = "ID"
)

const (
	// DefaultLeadTime минимальный запас до начала слота
	DefaultLeadTime = 2 * time.Hour

	// DefaultAutoAcceptAfter время, после которого заявка в ожидании подтверждается автоматически
	DefaultAutoAcceptAfter = 72 * time.Hour

	// DefaultMaxAdvanceDays горизонт бронирования в днях
	DefaultMaxAdvanceDays = 90

	// DefaultReminderBefore за сколько до начала отправлять напоминание
	DefaultReminderBefore = 2 * time.Hour

	// DefaultReminderWindow допуск вокруг момента напоминания
	DefaultReminderWindow = 15 * time.Minute

	// DefaultRedisTTL время жизни счетчиков в Redis
	DefaultRedisTTL = 24 * time.Hour

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128

	// DefaultBookingRateLimit заявок на пользователя в окне
	DefaultBookingRateLimit = 5

	// DefaultBookingRateWindow окно ограничения заявок
	DefaultBookingRateWindow = time.Hour
)

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// IsValidStatus reports whether s is a known reservation status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// MaintenanceReport counts what one lifecycle maintenance run changed.
type MaintenanceReport struct {
	Expired      int   `json:"expired"`
	AutoAccepted int   `json:"auto_accepted"`
	Purged       int64 `json:"purged"`
}
