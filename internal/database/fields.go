package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportclub/internal/models"
)

const fieldColumns = `id, name, address, surface_type, indoor, lighting, active, description, created_at, updated_at`

func scanField(row rowScanner) (*models.Field, error) {
	var f models.Field
	err := row.Scan(
		&f.ID, &f.Name, &f.Address, &f.SurfaceType, &f.Indoor, &f.Lighting,
		&f.Active, &f.Description, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (db *DB) CreateField(ctx context.Context, field *models.Field) error {
	query := `INSERT INTO fields (name, address, surface_type, indoor, lighting, active, description, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		field.Name,
		field.Address,
		field.SurfaceType,
		field.Indoor,
		field.Lighting,
		field.Active,
		field.Description,
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	field.ID = id
	field.CreatedAt = ts
	field.UpdatedAt = ts
	return nil
}

func (db *DB) GetField(ctx context.Context, id int64) (*models.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields WHERE id = ?`
	f, err := scanField(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("field %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return f, nil
}

// ListFields returns fields ordered by name; activeOnly hides disabled ones.
func (db *DB) ListFields(ctx context.Context, activeOnly bool) ([]*models.Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	fields := make([]*models.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (db *DB) UpdateField(ctx context.Context, field *models.Field) error {
	query := `UPDATE fields SET name = ?, address = ?, surface_type = ?, indoor = ?, lighting = ?,
                  active = ?, description = ?, updated_at = ?
              WHERE id = ?`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		field.Name,
		field.Address,
		field.SurfaceType,
		field.Indoor,
		field.Lighting,
		field.Active,
		field.Description,
		ts,
		field.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update field: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("field %d: %w", field.ID, ErrNotFound)
	}
	field.UpdatedAt = ts
	return nil
}

// DeleteField removes the field together with its schedules and reservations.
func (db *DB) DeleteField(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("field %d: %w", id, ErrNotFound)
	}
	return nil
}
