package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"heating_profiles/internal/models"
)

type ControllerSQLite struct {
	db *sql.DB
}

func NewControllerSQLite(db *sql.DB) *ControllerSQLite {
	return &ControllerSQLite{db: db}
}

var _ ControllerRepo = (*ControllerSQLite)(nil)

const (
	insertControllerSQL = `
		INSERT INTO controllers (zone_id, name, min_c, max_c, temp_c, target_c, profile_id, started_at, progress, errors, running, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateControllerSQL = `
		UPDATE controllers SET
			name=?, min_c=?, max_c=?, temp_c=?, target_c=?, profile_id=?,
			started_at=?, progress=?, errors=?, running=?, updated_at=?
		WHERE id=?
	`

	updateReadingSQL = `
		UPDATE controllers SET
			temp_c=?, target_c=?, progress=?, errors=?, running=?, updated_at=?
		WHERE id=? AND running=? AND profile_id IS ? AND started_at IS ?
	`

	selectControllersSQL = `
		SELECT id, zone_id, name, min_c, max_c, temp_c, target_c, profile_id, started_at, progress, errors, running, updated_at
		FROM controllers`

	deleteControllerSQL = `DELETE FROM controllers WHERE id=?`
)

// marshalErrorCodes converts the slice to a JSON string.
func marshalErrorCodes(codes []string) (string, error) {
	b, err := json.Marshal(codes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalErrorCodes parses a JSON string into a slice.
func unmarshalErrorCodes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(s), &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Create inserts a controller and returns its ID.
func (r *ControllerSQLite) Create(ctx context.Context, c models.Controller) (int, error) {
	errorsJSON, err := marshalErrorCodes(c.ErrorCodes)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, insertControllerSQL,
		c.ZoneID,
		c.Name,
		c.MinTempC,
		c.MaxTempC,
		c.CurrentTempC,
		c.TargetTempC,
		nullString(c.ProfileID),
		nullTime(c.StartedAt),
		c.Progress,
		errorsJSON,
		c.IsRunning,
		utcOrNow(c.UpdatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert controller %q: %w", c.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for controller %q: %w", c.Name, err)
	}
	return int(id), nil
}

// Save updates the controller row. UpdatedAt is always persisted as UTC and
// set to now when zero.
func (r *ControllerSQLite) Save(ctx context.Context, c models.Controller) error {
	errorsJSON, err := marshalErrorCodes(c.ErrorCodes)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updateControllerSQL,
		c.Name,
		c.MinTempC,
		c.MaxTempC,
		c.CurrentTempC,
		c.TargetTempC,
		nullString(c.ProfileID),
		nullTime(c.StartedAt),
		c.Progress,
		errorsJSON,
		c.IsRunning,
		utcOrNow(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update controller %d: %w", c.ID, err)
	}
	return checkAffected(res)
}

// SaveReading is the simulator's write. It leaves the row alone when a start,
// stop or delete happened after read was loaded.
func (r *ControllerSQLite) SaveReading(ctx context.Context, c, read models.Controller) error {
	errorsJSON, err := marshalErrorCodes(c.ErrorCodes)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updateReadingSQL,
		c.CurrentTempC,
		c.TargetTempC,
		c.Progress,
		errorsJSON,
		c.IsRunning,
		utcOrNow(c.UpdatedAt),
		c.ID,
		read.IsRunning,
		nullString(read.ProfileID),
		nullTime(read.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("update reading of controller %d: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

func (r *ControllerSQLite) Get(ctx context.Context, id int) (models.Controller, error) {
	row := r.db.QueryRowContext(ctx, selectControllersSQL+` WHERE id=?`, id)
	c, err := scanController(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Controller{}, ErrNotFound
		}
		return models.Controller{}, err
	}
	return c, nil
}

func (r *ControllerSQLite) List(ctx context.Context, zoneID int) ([]models.Controller, error) {
	q := selectControllersSQL
	var args []any
	if zoneID > 0 {
		q += ` WHERE zone_id=?`
		args = append(args, zoneID)
	}
	q += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Controller, 0, 16)
	for rows.Next() {
		c, err := scanController(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ControllerSQLite) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteControllerSQL, id)
	if err != nil {
		return fmt.Errorf("delete controller %d: %w", id, err)
	}
	return checkAffected(res)
}

func scanController(row rowScanner) (models.Controller, error) {
	var (
		c          models.Controller
		target     sql.NullFloat64
		profileID  sql.NullString
		startedAt  sql.NullTime
		errorsJSON sql.NullString
	)
	if err := row.Scan(
		&c.ID,
		&c.ZoneID,
		&c.Name,
		&c.MinTempC,
		&c.MaxTempC,
		&c.CurrentTempC,
		&target,
		&profileID,
		&startedAt,
		&c.Progress,
		&errorsJSON,
		&c.IsRunning,
		&c.UpdatedAt,
	); err != nil {
		return models.Controller{}, err
	}

	codes, err := unmarshalErrorCodes(errorsJSON.String)
	if err != nil {
		return models.Controller{}, fmt.Errorf("decode error codes of controller %d: %w", c.ID, err)
	}
	c.ErrorCodes = codes
	c.TargetTempC = target.Float64
	c.ProfileID = profileID.String
	if startedAt.Valid {
		c.StartedAt = startedAt.Time.UTC()
	}
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
