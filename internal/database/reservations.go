package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportclub/internal/models"
)

const reservationColumns = `r.id, r.field_id, COALESCE(f.name, ''), r.user_id, r.team_id, r.date, r.start_time, r.end_time,
                 r.status, r.activity_type, r.notes, r.phone, r.document_type, r.document_number,
                 r.reminder_sent, r.version, r.created_at, r.updated_at`

const reservationFrom = ` FROM reservations r LEFT JOIN fields f ON f.id = r.field_id`

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	var userID, teamID sql.NullInt64
	err := row.Scan(
		&r.ID, &r.FieldID, &r.FieldName, &userID, &teamID, &r.Date, &r.StartTime, &r.EndTime,
		&r.Status, &r.ActivityType, &r.Notes, &r.Phone, &r.DocumentType, &r.DocumentNumber,
		&r.ReminderSent, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		r.UserID = &userID.Int64
	}
	if teamID.Valid {
		r.TeamID = &teamID.Int64
	}
	return &r, nil
}

func collectReservations(rows *sql.Rows) ([]*models.Reservation, error) {
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// GetReservations returns the field's reservations on date whose status is in statuses.
// An empty statuses list returns every status.
func (db *DB) GetReservations(ctx context.Context, fieldID int64, date models.Date, statuses []string) ([]*models.Reservation, error) {
	return getReservations(ctx, db.DB, fieldID, date, statuses)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getReservations(ctx context.Context, q querier, fieldID int64, date models.Date, statuses []string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.field_id = ? AND r.date = ?`
	args := []any{fieldID, date}
	if len(statuses) > 0 {
		query += ` AND r.status IN (` + placeholders(len(statuses)) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY r.start_time ASC, r.id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}
	return collectReservations(rows)
}

// findOverlap returns the first active reservation of the same field and date
// that intersects [start, end), ignoring excludeID.
func findOverlap(ctx context.Context, tx *sql.Tx, fieldID int64, date models.Date, start, end models.TimeOfDay, excludeID int64) (*models.Reservation, error) {
	active, err := getReservations(ctx, tx, fieldID, date, models.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlap in tx: %w", err)
	}
	for _, r := range active {
		if r.ID != excludeID && r.Overlaps(start, end) {
			return r, nil
		}
	}
	return nil, nil
}

// CreateReservation inserts r after checking, inside the same write
// transaction, that no pending or confirmed reservation overlaps it.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.Status == "" {
		r.Status = models.StatusPending
	}

	return withTx(ctx, db.DB, func(tx *sql.Tx) error {
		if r.Status == models.StatusPending || r.Status == models.StatusConfirmed {
			clash, err := findOverlap(ctx, tx, r.FieldID, r.Date, r.StartTime, r.EndTime, 0)
			if err != nil {
				return err
			}
			if clash != nil {
				return fmt.Errorf("reservation %d %s-%s: %w", clash.ID, clash.StartTime, clash.EndTime, ErrSlotConflict)
			}
		}

		query := `INSERT INTO reservations (
                    field_id, user_id, team_id, date, start_time, end_time, status, activity_type,
                    notes, phone, document_type, document_number, reminder_sent, version, created_at, updated_at
                  ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 1, ?, ?)`
		ts := now()
		result, err := tx.ExecContext(ctx, query,
			r.FieldID,
			r.UserID,
			r.TeamID,
			r.Date,
			r.StartTime,
			r.EndTime,
			r.Status,
			r.ActivityType,
			r.Notes,
			r.Phone,
			r.DocumentType,
			r.DocumentNumber,
			ts,
			ts,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reservation in tx: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id in tx: %w", err)
		}
		r.ID = id
		r.ReminderSent = false
		r.Version = 1
		r.CreatedAt = ts
		r.UpdatedAt = ts
		return nil
	})
}

func (db *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

// GetUserReservations returns a user's reservations, most recent date first.
func (db *DB) GetUserReservations(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
              WHERE r.user_id = ? ORDER BY r.date DESC, r.start_time DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reservations: %w", err)
	}
	return collectReservations(rows)
}

// GetReservationsByDateRange returns reservations with from <= date <= to.
func (db *DB) GetReservationsByDateRange(ctx context.Context, from, to models.Date) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
              WHERE r.date >= ? AND r.date <= ? ORDER BY r.date ASC, r.start_time ASC, r.field_id ASC`
	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations by date range: %w", err)
	}
	return collectReservations(rows)
}

// UpdateReservationStatus moves a reservation to status when its version is
// still fromVersion. A reservation coming back to an active status is checked
// for overlaps again.
func (db *DB) UpdateReservationStatus(ctx context.Context, id, fromVersion int64, status string) (*models.Reservation, error) {
	var updated *models.Reservation
	err := withTx(ctx, db.DB, func(tx *sql.Tx) error {
		query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.id = ?`
		current, err := scanReservation(tx.QueryRowContext(ctx, query, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load reservation in tx: %w", err)
		}
		if current.Version != fromVersion {
			return ErrConcurrentModification
		}

		next := *current
		next.Status = status
		if !current.IsActive() && next.IsActive() {
			clash, err := findOverlap(ctx, tx, current.FieldID, current.Date, current.StartTime, current.EndTime, current.ID)
			if err != nil {
				return err
			}
			if clash != nil {
				return fmt.Errorf("reservation %d %s-%s: %w", clash.ID, clash.StartTime, clash.EndTime, ErrSlotConflict)
			}
		}

		ts := now()
		result, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
			status, ts, id, fromVersion)
		if err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return ErrConcurrentModification
		}

		next.Version = fromVersion + 1
		next.UpdatedAt = ts
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (db *DB) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `UPDATE reservations SET reminder_sent = 1, updated_at = ? WHERE id = ?`, now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

func (db *DB) DeleteReservation(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return nil
}
