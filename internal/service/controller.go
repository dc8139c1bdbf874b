package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
)

var (
	ErrInvalidController  = errors.New("invalid controller")
	ErrAlreadyRunning     = errors.New("controller is already running a profile")
	ErrNotRunning         = errors.New("controller is not running")
	ErrProfileOutOfLimits = errors.New("profile temperature range exceeds controller limits")
)

// ControllerService creates controllers and starts or stops profile runs.
// The temperature itself is advanced by the simulator.
type ControllerService struct {
	controllerRepo repository.ControllerRepo
	zoneRepo       repository.ZoneRepo
	profiles       *ProfileCache
	eventRepo      repository.EventRepo
	ambientC       float64
}

func NewControllerService(
	controllerRepo repository.ControllerRepo,
	zoneRepo repository.ZoneRepo,
	profiles *ProfileCache,
	eventRepo repository.EventRepo,
	ambientC float64,
) *ControllerService {
	return &ControllerService{
		controllerRepo: controllerRepo,
		zoneRepo:       zoneRepo,
		profiles:       profiles,
		eventRepo:      eventRepo,
		ambientC:       ambientC,
	}
}

// Create registers an idle controller at ambient temperature, clamped to its
// limits.
func (s *ControllerService) Create(ctx context.Context, p ControllerParams) (models.Controller, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Controller{}, fmt.Errorf("%w: name is required", ErrInvalidController)
	}
	if math.IsNaN(p.MinTempC) || math.IsNaN(p.MaxTempC) || p.MinTempC >= p.MaxTempC {
		return models.Controller{}, fmt.Errorf("%w: min_temp_c must be < max_temp_c", ErrInvalidController)
	}
	if _, err := s.zoneRepo.Get(ctx, p.ZoneID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Controller{}, fmt.Errorf("%w: zone %d does not exist", ErrInvalidController, p.ZoneID)
		}
		return models.Controller{}, err
	}

	c := models.Controller{
		ZoneID:       p.ZoneID,
		Name:         name,
		MinTempC:     p.MinTempC,
		MaxTempC:     p.MaxTempC,
		CurrentTempC: clamp(s.ambientC, p.MinTempC, p.MaxTempC),
		UpdatedAt:    time.Now().UTC(),
	}
	id, err := s.controllerRepo.Create(ctx, c)
	if err != nil {
		return models.Controller{}, fmt.Errorf("create controller: %w", err)
	}
	c.ID = id
	return c, nil
}

func (s *ControllerService) Delete(ctx context.Context, id int) error {
	return s.controllerRepo.Delete(ctx, id)
}

// StartProfile begins a run of profileID on the controller. The run starts at
// normalized time 0 and error codes from a previous run are cleared.
func (s *ControllerService) StartProfile(ctx context.Context, id int, profileID string) error {
	c, err := s.controllerRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.IsRunning {
		return ErrAlreadyRunning
	}
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: profile %s does not exist", ErrInvalidProfile, profileID)
		}
		return err
	}
	if p.MinTempC < c.MinTempC || p.MaxTempC > c.MaxTempC {
		return fmt.Errorf("%w: profile %s..%s, controller %s..%s", ErrProfileOutOfLimits,
			formatTemp(p.MinTempC), formatTemp(p.MaxTempC), formatTemp(c.MinTempC), formatTemp(c.MaxTempC))
	}

	now := time.Now().UTC()
	c.ProfileID = p.ID
	c.StartedAt = now
	c.Progress = 0
	c.TargetTempC = p.TempAt(0)
	c.ErrorCodes = nil
	c.IsRunning = true
	c.UpdatedAt = now
	if err := s.controllerRepo.Save(ctx, c); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.Event{
		EventID:      uuid.NewString(),
		OccurredAt:   now,
		ControllerID: c.ID,
		Type:         models.EventStart,
		Description: fmt.Sprintf("Started profile %q (%s, %s to %s)", p.Name,
			durafmt.Parse(p.Duration()).LimitFirstN(2).String(), formatTemp(p.MinTempC), formatTemp(p.MaxTempC)),
		Metadata: map[string]any{
			"profile_id":       p.ID,
			"duration_minutes": p.DurationMinutes,
			"target_temp_c":    c.TargetTempC,
		},
	})
}

// Stop ends the active run. The controller keeps its profile id so the last
// run stays visible until the next start.
func (s *ControllerService) Stop(ctx context.Context, id int) error {
	c, err := s.controllerRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsRunning {
		return ErrNotRunning
	}

	now := time.Now().UTC()
	c.IsRunning = false
	c.TargetTempC = 0
	c.UpdatedAt = now
	if err := s.controllerRepo.Save(ctx, c); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, models.Event{
		EventID:      uuid.NewString(),
		OccurredAt:   now,
		ControllerID: c.ID,
		Type:         models.EventStop,
		Description:  fmt.Sprintf("Stopped at %s (%.0f%% of profile)", formatTemp(c.CurrentTempC), c.Progress*100),
		Metadata:     map[string]any{"profile_id": c.ProfileID, "progress": c.Progress},
	})
}

// formatTemp renders a temperature with at most one decimal, e.g. "812.5°C".
func formatTemp(c float64) string {
	return humanize.FtoaWithDigits(c, 1) + "°C"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
