package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportclub/internal/models"
)

const scheduleColumns = `id, field_id, weekday, start_time, end_time, active, created_at, updated_at`

func scanSchedule(row rowScanner) (*models.FieldSchedule, error) {
	var s models.FieldSchedule
	var weekday sql.NullInt64
	err := row.Scan(
		&s.ID, &s.FieldID, &weekday, &s.StartTime, &s.EndTime, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if weekday.Valid {
		w := int(weekday.Int64)
		s.Weekday = &w
	}
	return &s, nil
}

func weekdayArg(w *int) any {
	if w == nil {
		return nil
	}
	return *w
}

func (db *DB) CreateSchedule(ctx context.Context, s *models.FieldSchedule) error {
	query := `INSERT INTO field_schedules (field_id, weekday, start_time, end_time, active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		s.FieldID,
		weekdayArg(s.Weekday),
		s.StartTime,
		s.EndTime,
		s.Active,
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = ts
	s.UpdatedAt = ts
	return nil
}

func (db *DB) GetSchedule(ctx context.Context, id int64) (*models.FieldSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM field_schedules WHERE id = ?`
	s, err := scanSchedule(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// GetScheduleForField returns the active rows for one weekday (0 = Sunday),
// without falling back to default rows.
func (db *DB) GetScheduleForField(ctx context.Context, fieldID int64, weekday int) ([]*models.FieldSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM field_schedules
              WHERE field_id = ? AND weekday = ? AND active = 1
              ORDER BY start_time ASC`
	return db.querySchedules(ctx, query, fieldID, weekday)
}

// GetDefaultSchedule returns the active rows with no weekday.
func (db *DB) GetDefaultSchedule(ctx context.Context, fieldID int64) ([]*models.FieldSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM field_schedules
              WHERE field_id = ? AND weekday IS NULL AND active = 1
              ORDER BY start_time ASC`
	return db.querySchedules(ctx, query, fieldID)
}

// ListSchedules returns every row of a field, defaults first.
func (db *DB) ListSchedules(ctx context.Context, fieldID int64, activeOnly bool) ([]*models.FieldSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM field_schedules WHERE field_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY weekday IS NOT NULL, weekday ASC, start_time ASC`
	return db.querySchedules(ctx, query, fieldID)
}

func (db *DB) querySchedules(ctx context.Context, query string, args ...any) ([]*models.FieldSchedule, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*models.FieldSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (db *DB) UpdateSchedule(ctx context.Context, s *models.FieldSchedule) error {
	query := `UPDATE field_schedules SET weekday = ?, start_time = ?, end_time = ?, active = ?, updated_at = ?
              WHERE id = ?`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		weekdayArg(s.Weekday),
		s.StartTime,
		s.EndTime,
		s.Active,
		ts,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("schedule %d: %w", s.ID, ErrNotFound)
	}
	s.UpdatedAt = ts
	return nil
}

func (db *DB) DeleteSchedule(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM field_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	return nil
}
