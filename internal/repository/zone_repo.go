package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"heating_profiles/internal/models"
)

type ZoneSQLite struct {
	db *sql.DB
}

func NewZoneSQLite(db *sql.DB) *ZoneSQLite { return &ZoneSQLite{db: db} }

var _ ZoneRepo = (*ZoneSQLite)(nil)

const (
	insertZoneSQL  = `INSERT INTO zones (name, description, created_at) VALUES (?, ?, ?)`
	selectZonesSQL = `SELECT id, name, description, created_at FROM zones`
	deleteZoneSQL  = `DELETE FROM zones WHERE id = ?`
)

// Create inserts a zone and returns its ID.
func (r *ZoneSQLite) Create(ctx context.Context, z models.Zone) (int, error) {
	res, err := r.db.ExecContext(ctx, insertZoneSQL, z.Name, nullString(z.Description), utcOrNow(z.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert zone %q: %w", z.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for zone %q: %w", z.Name, err)
	}
	return int(id), nil
}

func (r *ZoneSQLite) Get(ctx context.Context, id int) (models.Zone, error) {
	row := r.db.QueryRowContext(ctx, selectZonesSQL+` WHERE id = ?`, id)
	z, err := scanZone(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Zone{}, ErrNotFound
		}
		return models.Zone{}, fmt.Errorf("select zone %d: %w", id, err)
	}
	return z, nil
}

func (r *ZoneSQLite) List(ctx context.Context) ([]models.Zone, error) {
	rows, err := r.db.QueryContext(ctx, selectZonesSQL+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	out := make([]models.Zone, 0, 8)
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the zone; its controllers go with it (ON DELETE CASCADE).
func (r *ZoneSQLite) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteZoneSQL, id)
	if err != nil {
		return fmt.Errorf("delete zone %d: %w", id, err)
	}
	return checkAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (models.Zone, error) {
	var (
		z    models.Zone
		desc sql.NullString
	)
	if err := row.Scan(&z.ID, &z.Name, &desc, &z.CreatedAt); err != nil {
		return models.Zone{}, err
	}
	z.Description = desc.String
	z.CreatedAt = z.CreatedAt.UTC()
	return z, nil
}
