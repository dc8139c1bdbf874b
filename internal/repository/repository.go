package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"heating_profiles/internal/models"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a UNIQUE column already holds the value.
	ErrDuplicate = errors.New("record already exists")
	// ErrStale is returned by a conditional write whose row changed after it was read.
	ErrStale = errors.New("record changed since it was read")
)

type Authorization interface {
	// Create returns ErrDuplicate when the username is taken.
	Create(ctx context.Context, username, hash string) (int, error)
	// GetByUsername returns ErrNotFound for an unknown username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type ZoneRepo interface {
	Create(ctx context.Context, z models.Zone) (int, error)
	Get(ctx context.Context, id int) (models.Zone, error)
	List(ctx context.Context) ([]models.Zone, error)
	Delete(ctx context.Context, id int) error
}

type ProfileRepo interface {
	Create(ctx context.Context, p models.Profile) error
	Get(ctx context.Context, id string) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, p models.Profile) error
	Delete(ctx context.Context, id string) error
}

type ControllerRepo interface {
	Create(ctx context.Context, c models.Controller) (int, error)
	Get(ctx context.Context, id int) (models.Controller, error)
	// List returns controllers of one zone, or all of them when zoneID is 0.
	List(ctx context.Context, zoneID int) ([]models.Controller, error)
	Save(ctx context.Context, c models.Controller) error
	// SaveReading writes the simulated temperatures of c only while the run
	// state of the row still matches read. Otherwise it returns ErrStale.
	SaveReading(ctx context.Context, c, read models.Controller) error
	Delete(ctx context.Context, id int) error
}

// EventFilter narrows an event listing. Zero values mean "no constraint".
type EventFilter struct {
	From         time.Time
	To           time.Time
	Type         string
	ControllerID int
	Limit        int
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, f EventFilter) ([]models.Event, error)
}

type Repository struct {
	Auth        Authorization
	Zones       ZoneRepo
	Profiles    ProfileRepo
	Controllers ControllerRepo
	Events      EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:        NewUserRepository(db),
		Zones:       NewZoneSQLite(db),
		Profiles:    NewProfileSQLite(db),
		Controllers: NewControllerSQLite(db),
		Events:      NewEventSQLite(db),
	}
}

// checkAffected maps "no row touched" to ErrNotFound.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString stores empty strings as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullTime stores zero times as NULL and everything else as UTC.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// utcOrNow returns t in UTC, or the current UTC time when t is zero.
func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
