package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sportclub/internal/models"
)

// ExpireReservations marks confirmed reservations whose end is not after
// now (read in loc) as expired and returns them.
func (db *DB) ExpireReservations(ctx context.Context, now time.Time, loc *time.Location) ([]*models.Reservation, error) {
	local := now.In(loc)
	today := models.DateOf(local)
	clock := models.TimeOfDayOf(local)

	query := `SELECT ` + reservationColumns + reservationFrom + `
              WHERE r.status = ? AND (r.date < ? OR (r.date = ? AND r.end_time <= ?))`
	return db.transition(ctx, models.StatusExpired, query,
		models.StatusConfirmed, today, today, clock)
}

// AutoAcceptReservations confirms pending reservations created at or before
// cutoff, skipping those that collide with an already confirmed one.
func (db *DB) AutoAcceptReservations(ctx context.Context, cutoff time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
              WHERE r.status = ? AND r.created_at <= ?
              AND NOT EXISTS (
                  SELECT 1 FROM reservations c
                  WHERE c.field_id = r.field_id AND c.date = r.date AND c.id <> r.id
                    AND c.status = ? AND c.start_time < r.end_time AND c.end_time > r.start_time
              )
              ORDER BY r.created_at ASC`
	return db.transition(ctx, models.StatusConfirmed, query,
		models.StatusPending, cutoff.UTC(), models.StatusConfirmed)
}

// transition moves every row selected by query to status in one transaction.
func (db *DB) transition(ctx context.Context, status, query string, args ...any) ([]*models.Reservation, error) {
	var moved []*models.Reservation
	err := withTx(ctx, db.DB, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to select reservations for %s: %w", status, err)
		}
		candidates, err := collectReservations(rows)
		if err != nil {
			return err
		}

		ts := now()
		for _, r := range candidates {
			result, err := tx.ExecContext(ctx,
				`UPDATE reservations SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
				status, ts, r.ID, r.Version)
			if err != nil {
				return fmt.Errorf("failed to set reservation %d %s: %w", r.ID, status, err)
			}
			if n, _ := result.RowsAffected(); n == 0 {
				continue
			}
			r.Status = status
			r.Version++
			r.UpdatedAt = ts
			moved = append(moved, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// PurgeReservations deletes expired and cancelled reservations last touched
// at or before cutoff.
func (db *DB) PurgeReservations(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM reservations WHERE status IN (?, ?) AND updated_at <= ?`,
		models.StatusExpired, models.StatusCancelled, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge reservations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged reservations: %w", err)
	}
	return n, nil
}

// GetReservationsForReminder returns confirmed reservations on date starting
// in [from, to] that have not been reminded yet.
func (db *DB) GetReservationsForReminder(ctx context.Context, date models.Date, from, to models.TimeOfDay) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
              WHERE r.status = ? AND r.reminder_sent = 0 AND r.date = ?
                AND r.start_time >= ? AND r.start_time <= ?
              ORDER BY r.start_time ASC`
	rows, err := db.QueryContext(ctx, query, models.StatusConfirmed, date, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations for reminder: %w", err)
	}
	return collectReservations(rows)
}
