package models

import "time"

type Field struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	SurfaceType string    `json:"surface_type"` // grass, synthetic, parquet, clay...
	Indoor      bool      `json:"indoor"`
	Lighting    bool      `json:"lighting"`
	Active      bool      `json:"active"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FieldSchedule is one recurring opening slot of a field.
// A nil Weekday marks a default row used when the day has no rows of its own.
type FieldSchedule struct {
	ID        int64     `json:"id"`
	FieldID   int64     `json:"field_id"`
	Weekday   *int      `json:"weekday"` // 0 = Sunday
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDefault reports whether the row applies to every weekday without its own rows.
func (s *FieldSchedule) IsDefault() bool {
	return s.Weekday == nil
}

// Covers reports whether [start, end) is exactly this schedule slot.
func (s *FieldSchedule) Covers(start, end TimeOfDay) bool {
	return s.StartTime == start && s.EndTime == end
}

// Weekday converts a Go weekday to the stored representation.
func Weekday(d time.Weekday) *int {
	w := int(d)
	return &w
}
