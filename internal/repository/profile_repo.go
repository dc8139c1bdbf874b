package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/models"
)

type ProfileSQLite struct {
	db *sql.DB
}

func NewProfileSQLite(db *sql.DB) *ProfileSQLite { return &ProfileSQLite{db: db} }

var _ ProfileRepo = (*ProfileSQLite)(nil)

const (
	insertProfileSQL = `
		INSERT INTO profiles (id, name, description, duration_min, min_c, max_c, points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateProfileSQL = `
		UPDATE profiles SET
			name=?, description=?, duration_min=?, min_c=?, max_c=?, points=?, updated_at=?
		WHERE id=?
	`

	selectProfilesSQL = `SELECT id, name, description, duration_min, min_c, max_c, points, created_at, updated_at FROM profiles`

	deleteProfileSQL = `DELETE FROM profiles WHERE id=?`
)

// marshalPoints converts the control points to a JSON string.
func marshalPoints(points []curve.ControlPoint) (string, error) {
	if points == nil {
		points = []curve.ControlPoint{}
	}
	b, err := json.Marshal(points)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalPoints parses a JSON string into control points.
func unmarshalPoints(s string) ([]curve.ControlPoint, error) {
	if s == "" {
		return nil, nil
	}
	var points []curve.ControlPoint
	if err := json.Unmarshal([]byte(s), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Create inserts a profile. The caller assigns the ID.
func (r *ProfileSQLite) Create(ctx context.Context, p models.Profile) error {
	pointsJSON, err := marshalPoints(p.Points)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}
	created := utcOrNow(p.CreatedAt)
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	_, err = r.db.ExecContext(ctx, insertProfileSQL,
		p.ID,
		p.Name,
		nullString(p.Description),
		p.DurationMinutes,
		p.MinTempC,
		p.MaxTempC,
		pointsJSON,
		created,
		updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert profile %q: %w", p.Name, err)
	}
	return nil
}

func (r *ProfileSQLite) Get(ctx context.Context, id string) (models.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfilesSQL+` WHERE id=?`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("select profile %s: %w", id, err)
	}
	return p, nil
}

func (r *ProfileSQLite) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfilesSQL+` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Profile, 0, 16)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites everything but the ID and creation time.
func (r *ProfileSQLite) Update(ctx context.Context, p models.Profile) error {
	pointsJSON, err := marshalPoints(p.Points)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}
	res, err := r.db.ExecContext(ctx, updateProfileSQL,
		p.Name,
		nullString(p.Description),
		p.DurationMinutes,
		p.MinTempC,
		p.MaxTempC,
		pointsJSON,
		utcOrNow(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	return checkAffected(res)
}

func (r *ProfileSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProfileSQL, id)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return checkAffected(res)
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var (
		p          models.Profile
		desc       sql.NullString
		pointsJSON string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&desc,
		&p.DurationMinutes,
		&p.MinTempC,
		&p.MaxTempC,
		&pointsJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return models.Profile{}, err
	}
	points, err := unmarshalPoints(pointsJSON)
	if err != nil {
		return models.Profile{}, fmt.Errorf("decode points of profile %s: %w", p.ID, err)
	}
	p.Points = points
	p.Description = desc.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
