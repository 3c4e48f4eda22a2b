package models

import "time"

// Notification kinds.
const (
	NotifyReservationCreated   = "reservation_created"
	NotifyReservationConfirmed = "reservation_confirmed"
	NotifyReservationCancelled = "reservation_cancelled"
	NotifyReservationExpired   = "reservation_expired"
	NotifyReservationReopened  = "reservation_reopened"
	NotifyReminder             = "reminder"
)

// Queue task statuses.
const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskRetry      = "retry"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// NotificationTask is a queued outbound message about a reservation.
type NotificationTask struct {
	ID            int64      `json:"id"`
	Kind          string     `json:"kind"`
	ReservationID int64      `json:"reservation_id"`
	Payload       string     `json:"payload"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	LastError     *string    `json:"last_error"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
	NextRetryAt   *time.Time `json:"next_retry_at"`
}
