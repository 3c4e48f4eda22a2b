package models

import "time"

type Reservation struct {
	ID             int64     `json:"id"`
	FieldID        int64     `json:"field_id"`
	FieldName      string    `json:"field_name,omitempty"`
	UserID         *int64    `json:"user_id,omitempty"`
	TeamID         *int64    `json:"team_id,omitempty"`
	Date           Date      `json:"date"`
	StartTime      TimeOfDay `json:"start_time"`
	EndTime        TimeOfDay `json:"end_time"`
	Status         string    `json:"status"` // pending, confirmed, cancelled, expired
	ActivityType   string    `json:"activity_type"`
	Notes          string    `json:"notes"`
	Phone          string    `json:"phone"`
	DocumentType   string    `json:"document_type,omitempty"`
	DocumentNumber string    `json:"document_number,omitempty"`
	ReminderSent   bool      `json:"reminder_sent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int64     `json:"version"`
}

// IsActive reports whether the reservation occupies its slot.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// Overlaps uses half-open intervals: touching ends do not overlap.
func (r *Reservation) Overlaps(start, end TimeOfDay) bool {
	return Overlaps(start, end, r.StartTime, r.EndTime)
}

func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	return r.Date.At(r.StartTime, loc)
}

func (r *Reservation) EndsAt(loc *time.Location) time.Time {
	return r.Date.At(r.EndTime, loc)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}
