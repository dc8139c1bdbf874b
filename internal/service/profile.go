package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrProfileInUse   = errors.New("profile is used by a running controller")
)

// ProfileService stores heating curves and evaluates them in physical units.
type ProfileService struct {
	profileRepo    repository.ProfileRepo
	controllerRepo repository.ControllerRepo
	cache          *ProfileCache
}

func NewProfileService(profileRepo repository.ProfileRepo, controllerRepo repository.ControllerRepo, cache *ProfileCache) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, controllerRepo: controllerRepo, cache: cache}
}

// validateProfileParams normalizes the request and returns its points. A nil
// point list becomes the default quick-ramp curve.
func validateProfileParams(p ProfileParams) (ProfileParams, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Name == "" {
		return p, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if !(p.DurationMinutes > 0) || math.IsInf(p.DurationMinutes, 0) {
		return p, fmt.Errorf("%w: duration_minutes must be > 0", ErrInvalidProfile)
	}
	if math.IsNaN(p.MinTempC) || math.IsNaN(p.MaxTempC) || p.MinTempC >= p.MaxTempC {
		return p, fmt.Errorf("%w: min_temp_c must be < max_temp_c", ErrInvalidProfile)
	}
	if p.Points == nil {
		p.Points = curve.Default()
	}
	if err := curve.Validate(p.Points); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	p.Points = curve.Clone(p.Points)
	return p, nil
}

func (s *ProfileService) Create(ctx context.Context, params ProfileParams) (models.Profile, error) {
	params, err := validateProfileParams(params)
	if err != nil {
		return models.Profile{}, err
	}
	now := time.Now().UTC()
	p := models.Profile{
		ID:              uuid.NewString(),
		Name:            params.Name,
		Description:     params.Description,
		DurationMinutes: params.DurationMinutes,
		MinTempC:        params.MinTempC,
		MaxTempC:        params.MaxTempC,
		Points:          params.Points,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.profileRepo.Create(ctx, p); err != nil {
		return models.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (models.Profile, error) {
	return s.cache.Get(ctx, id)
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// Update replaces every editable field. Running controllers pick up the new
// curve on their next tick.
func (s *ProfileService) Update(ctx context.Context, id string, params ProfileParams) (models.Profile, error) {
	params, err := validateProfileParams(params)
	if err != nil {
		return models.Profile{}, err
	}
	p, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	p.Name = params.Name
	p.Description = params.Description
	p.DurationMinutes = params.DurationMinutes
	p.MinTempC = params.MinTempC
	p.MaxTempC = params.MaxTempC
	p.Points = params.Points
	p.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Update(ctx, p); err != nil {
		return models.Profile{}, err
	}
	s.cache.Invalidate(id)
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	controllers, err := s.controllerRepo.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("list controllers: %w", err)
	}
	for _, c := range controllers {
		if c.IsRunning && c.ProfileID == id {
			return fmt.Errorf("%w: controller %d", ErrProfileInUse, c.ID)
		}
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// Preview tessellates the profile curve for charting. Density is samples per
// unit of normalized time; zero or less selects the default.
func (s *ProfileService) Preview(ctx context.Context, id string, density float64) ([]PreviewPoint, error) {
	p, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]PreviewPoint, 0, len(p.Points)*int(curve.DefaultDensity))
	for pt := range curve.Path(p.Points, density) {
		out = append(out, PreviewPoint{
			Minute: pt.X * p.DurationMinutes,
			TempC:  curve.Rescale(pt.Y, p.MinTempC, p.MaxTempC),
		})
	}
	return out, nil
}

// Evaluate returns the target temperature after elapsedMinutes of a run.
// Times outside the run clamp to its first or last value.
func (s *ProfileService) Evaluate(ctx context.Context, id string, elapsedMinutes float64) (float64, error) {
	if math.IsNaN(elapsedMinutes) {
		return 0, fmt.Errorf("%w: elapsed time is not a number", ErrInvalidProfile)
	}
	p, err := s.cache.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.TempAt(elapsedMinutes / p.DurationMinutes), nil
}
