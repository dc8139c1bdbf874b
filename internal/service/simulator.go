package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/logger"
	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/time/rate"
)

// ----------- Simulation constants -----------
const (
	IdleDriftCPerSec = 0.5 // °C per second toward ambient while idle
	minIdleStep      = time.Second
)

// Error codes stored on a controller.
const (
	CodeOverheat       = "OVERHEAT"
	CodeProfileMissing = "PROFILE_MISSING"
)

// SimulatorService advances every controller once per tick: running ones
// follow their profile curve, idle ones drift toward ambient.
type SimulatorService struct {
	controllerRepo repository.ControllerRepo
	eventRepo      repository.EventRepo
	profiles       *ProfileCache
	log            *logger.Logger

	ambientC       float64
	noiseC         float64
	workers        int
	telemetryEvery time.Duration

	limiters cmap.ConcurrentMap[int, *rate.Limiter]
	// noise returns a uniform sample in [-1, 1].
	noise func() float64
}

func NewSimulatorService(
	controllerRepo repository.ControllerRepo,
	eventRepo repository.EventRepo,
	profiles *ProfileCache,
	cfg Config,
	log *logger.Logger,
) *SimulatorService {
	cfg = cfg.withDefaults()
	return &SimulatorService{
		controllerRepo: controllerRepo,
		eventRepo:      eventRepo,
		profiles:       profiles,
		log:            log,
		ambientC:       cfg.AmbientC,
		noiseC:         cfg.NoiseC,
		workers:        cfg.Workers,
		telemetryEvery: cfg.TelemetryEvery,
		limiters: cmap.NewWithCustomShardingFunction[int, *rate.Limiter](func(id int) uint32 {
			return uint32(id)
		}),
		noise: func() float64 { return rand.Float64()*2 - 1 },
	}
}

// Run ticks at the given interval until ctx is canceled. A non-positive
// interval falls back to one second.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = time.Second
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if err := s.Step(ctx, now.UTC()); err != nil && ctx.Err() == nil {
				s.log.Errorw("simulator_step_failed", "error", err)
			}
		}
	}
}

// Step advances all controllers to now, at most cfg.Workers at a time.
func (s *SimulatorService) Step(ctx context.Context, now time.Time) error {
	controllers, err := s.controllerRepo.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("list controllers: %w", err)
	}

	swg := sizedwaitgroup.New(s.workers)
	for _, c := range controllers {
		swg.Add()
		go func(c models.Controller) {
			defer swg.Done()
			if err := s.stepController(ctx, c, now); err != nil {
				s.log.Errorw("controller_tick_failed", "controller_id", c.ID, "error", err)
			}
		}(c)
	}
	swg.Wait()
	return nil
}

// tickEvent is an event produced by a tick. It is only logged once the tick
// has been written.
type tickEvent struct {
	typ  string
	desc string
	meta map[string]any
}

func (s *SimulatorService) stepController(ctx context.Context, c models.Controller, now time.Time) error {
	read := c
	if !c.IsRunning {
		if now.Sub(c.UpdatedAt) < minIdleStep {
			return nil
		}
		if !s.driftToAmbient(&c, now.Sub(c.UpdatedAt).Seconds()) {
			return nil
		}
		c.UpdatedAt = now
		return s.commit(ctx, c, read, now)
	}

	p, err := s.profiles.Get(ctx, c.ProfileID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.abortMissingProfile(ctx, c, read, now)
	}
	if err != nil {
		return fmt.Errorf("load profile %s: %w", c.ProfileID, err)
	}

	progress := curve.NormalizedTime(now.Sub(c.StartedAt), p.Duration())
	s.followProfile(&c, p, progress)

	var events []tickEvent
	if s.detectOverheat(&c) {
		events = append(events, tickEvent{models.EventError, "Profile target exceeds controller limit", map[string]any{
			"code":          CodeOverheat,
			"target_temp_c": c.TargetTempC,
			"max_temp_c":    c.MaxTempC,
		}})
	}

	if progress >= 1 {
		c.IsRunning = false
		events = append(events, tickEvent{models.EventProfileComplete,
			fmt.Sprintf("Profile %q complete at %s", p.Name, formatTemp(c.CurrentTempC)),
			map[string]any{"profile_id": p.ID}})
	} else if s.limiter(c.ID).AllowN(now, 1) {
		events = append(events, tickEvent{models.EventTelemetry,
			fmt.Sprintf("%s (target %s)", formatTemp(c.CurrentTempC), formatTemp(c.TargetTempC)),
			map[string]any{
				"temp_c":        c.CurrentTempC,
				"target_temp_c": c.TargetTempC,
				"progress":      c.Progress,
			}})
	}

	c.UpdatedAt = now
	return s.commit(ctx, c, read, now, events...)
}

// commit writes a tick and then logs its events. A controller started,
// stopped or deleted since it was listed keeps the newer state and the tick
// is dropped.
func (s *SimulatorService) commit(ctx context.Context, c, read models.Controller, now time.Time, events ...tickEvent) error {
	err := s.controllerRepo.SaveReading(ctx, c, read)
	if errors.Is(err, repository.ErrStale) {
		s.log.Debugw("controller_tick_dropped", "controller_id", c.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if read.IsRunning && !c.IsRunning {
		s.limiters.Remove(c.ID)
	}
	for _, e := range events {
		s.appendEvent(ctx, c.ID, now, e.typ, e.desc, e.meta)
	}
	return nil
}

// followProfile sets target and current temperature for a normalized run time.
// The current value is the target plus bounded noise, clamped to the
// controller limits.
func (s *SimulatorService) followProfile(c *models.Controller, p models.Profile, progress float64) {
	c.Progress = math.Max(0, math.Min(1, progress))
	c.TargetTempC = p.TempAt(progress)
	c.CurrentTempC = clamp(c.TargetTempC+s.noiseC*s.noise(), c.MinTempC, c.MaxTempC)
}

// driftToAmbient moves toward ambient (within the controller limits) when not
// running. Returns true if temp changed.
func (s *SimulatorService) driftToAmbient(c *models.Controller, elapsed float64) bool {
	target := clamp(s.ambientC, c.MinTempC, c.MaxTempC)
	step := IdleDriftCPerSec * elapsed
	switch {
	case c.CurrentTempC > target:
		c.CurrentTempC = math.Max(c.CurrentTempC-step, target)
	case c.CurrentTempC < target:
		c.CurrentTempC = math.Min(c.CurrentTempC+step, target)
	default:
		return false
	}
	return true
}

// detectOverheat records OVERHEAT once per run. Returns true when the code was
// newly added.
func (s *SimulatorService) detectOverheat(c *models.Controller) bool {
	if c.TargetTempC <= c.MaxTempC || slices.Contains(c.ErrorCodes, CodeOverheat) {
		return false
	}
	c.ErrorCodes = append(c.ErrorCodes, CodeOverheat)
	return true
}

func (s *SimulatorService) abortMissingProfile(ctx context.Context, c, read models.Controller, now time.Time) error {
	if !slices.Contains(c.ErrorCodes, CodeProfileMissing) {
		c.ErrorCodes = append(c.ErrorCodes, CodeProfileMissing)
	}
	c.IsRunning = false
	c.TargetTempC = 0
	c.UpdatedAt = now
	return s.commit(ctx, c, read, now, tickEvent{models.EventError, "Active profile no longer exists; run stopped",
		map[string]any{"code": CodeProfileMissing, "profile_id": c.ProfileID}})
}

// limiter returns the TELEMETRY limiter of a controller, creating it on first use.
func (s *SimulatorService) limiter(id int) *rate.Limiter {
	return s.limiters.Upsert(id, nil, func(exist bool, old, _ *rate.Limiter) *rate.Limiter {
		if exist {
			return old
		}
		return rate.NewLimiter(rate.Every(s.telemetryEvery), 1)
	})
}

func (s *SimulatorService) appendEvent(ctx context.Context, controllerID int, at time.Time, typ, desc string, meta map[string]any) {
	err := s.eventRepo.Append(ctx, models.Event{
		EventID:      uuid.NewString(),
		OccurredAt:   at.UTC(),
		ControllerID: controllerID,
		Type:         typ,
		Description:  desc,
		Metadata:     meta,
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "controller_id", controllerID, "type", typ, "error", err)
	}
}
