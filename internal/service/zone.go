package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"
)

var ErrInvalidZone = errors.New("zone name is required")

type ZoneService struct {
	zoneRepo repository.ZoneRepo
}

func NewZoneService(zoneRepo repository.ZoneRepo) *ZoneService {
	return &ZoneService{zoneRepo: zoneRepo}
}

func (s *ZoneService) Create(ctx context.Context, p ZoneParams) (models.Zone, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Zone{}, ErrInvalidZone
	}
	z := models.Zone{
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.zoneRepo.Create(ctx, z)
	if err != nil {
		return models.Zone{}, fmt.Errorf("create zone: %w", err)
	}
	z.ID = id
	return z, nil
}

func (s *ZoneService) Get(ctx context.Context, id int) (models.Zone, error) {
	return s.zoneRepo.Get(ctx, id)
}

func (s *ZoneService) List(ctx context.Context) ([]models.Zone, error) {
	return s.zoneRepo.List(ctx)
}

// Delete removes a zone together with its controllers.
func (s *ZoneService) Delete(ctx context.Context, id int) error {
	return s.zoneRepo.Delete(ctx, id)
}
