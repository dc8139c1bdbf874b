package service

import (
	"context"
	"time"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/logger"
	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Zones manages controller groups.
type Zones interface {
	Create(ctx context.Context, p ZoneParams) (models.Zone, error)
	Get(ctx context.Context, id int) (models.Zone, error)
	List(ctx context.Context) ([]models.Zone, error)
	Delete(ctx context.Context, id int) error
}

// Profiles manages heating curves and evaluates them.
type Profiles interface {
	Create(ctx context.Context, p ProfileParams) (models.Profile, error)
	Get(ctx context.Context, id string) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, id string, p ProfileParams) (models.Profile, error)
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, id string, density float64) ([]PreviewPoint, error)
	Evaluate(ctx context.Context, id string, elapsedMinutes float64) (float64, error)
}

// Controllers exposes control operations: create/delete and profile runs.
type Controllers interface {
	Create(ctx context.Context, p ControllerParams) (models.Controller, error)
	Delete(ctx context.Context, id int) error
	StartProfile(ctx context.Context, id int, profileID string) error
	Stop(ctx context.Context, id int) error
}

// Monitoring exposes read-only controller state.
type Monitoring interface {
	GetState(ctx context.Context, id int) (models.Controller, error)
	ListStates(ctx context.Context, zoneID int) ([]models.Controller, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

// Simulator runs the background loop that drives controllers along their
// profiles. Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Config carries the tunables read from configuration.
type Config struct {
	SigningKey     string
	TokenTTL       time.Duration
	AmbientC       float64
	NoiseC         float64
	Workers        int
	TelemetryEvery time.Duration
}

// Defaults used when a Config field is left zero.
const (
	defaultTokenTTL       = time.Hour
	defaultWorkers        = 4
	defaultTelemetryEvery = 10 * time.Second
)

func (c Config) withDefaults() Config {
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.TelemetryEvery <= 0 {
		c.TelemetryEvery = defaultTelemetryEvery
	}
	if c.NoiseC < 0 {
		c.NoiseC = 0
	}
	return c
}

type Service struct {
	Authorization
	Zones
	Profiles
	Controllers
	Monitoring
	EventLog
	Simulator
}

// NewService wires the repository layer into concrete services. Profiles and
// the simulator share one profile cache so edits are seen on the next tick.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	cfg = cfg.withDefaults()
	cache := NewProfileCache(repos.Profiles)
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
		Zones:         NewZoneService(repos.Zones),
		Profiles:      NewProfileService(repos.Profiles, repos.Controllers, cache),
		Controllers:   NewControllerService(repos.Controllers, repos.Zones, cache, repos.Events, cfg.AmbientC),
		Monitoring:    NewMonitoringService(repos.Controllers),
		EventLog:      NewEventLogService(repos.Events),
		Simulator:     NewSimulatorService(repos.Controllers, repos.Events, cache, cfg, log.Component("simulator")),
	}
}

// ---- request/response shapes ----

type ZoneParams struct {
	Name        string
	Description string
}

type ProfileParams struct {
	Name            string
	Description     string
	DurationMinutes float64
	MinTempC        float64
	MaxTempC        float64
	Points          []curve.ControlPoint // nil means the default quick-ramp curve
}

type ControllerParams struct {
	ZoneID   int
	Name     string
	MinTempC float64
	MaxTempC float64
}

// PreviewPoint is a tessellated profile sample in physical units.
type PreviewPoint struct {
	Minute float64 `json:"minute"`
	TempC  float64 `json:"temp_c"`
}

// LogFilter supports history filtering by time range, type and controller.
type LogFilter struct {
	From         time.Time // inclusive; zero means no lower bound
	To           time.Time // inclusive; zero means no upper bound
	Type         string    // "", "START", "STOP", "PROFILE_COMPLETE", "ERROR", "TELEMETRY"
	ControllerID int       // 0 means every controller
	Limit        int       // 0 means unlimited
}
