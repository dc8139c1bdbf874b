package service

import (
	"context"
	"time"

	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"
)

type MonitoringService struct {
	controllerRepo repository.ControllerRepo
}

func NewMonitoringService(controllerRepo repository.ControllerRepo) *MonitoringService {
	return &MonitoringService{controllerRepo: controllerRepo}
}

// GetState returns the latest persisted controller state.
func (s *MonitoringService) GetState(ctx context.Context, id int) (models.Controller, error) {
	c, err := s.controllerRepo.Get(ctx, id)
	if err != nil {
		return models.Controller{}, err
	}
	return normalizeState(c), nil
}

// ListStates returns every controller of a zone, or all controllers when
// zoneID is 0.
func (s *MonitoringService) ListStates(ctx context.Context, zoneID int) ([]models.Controller, error) {
	cs, err := s.controllerRepo.List(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	for i := range cs {
		cs[i] = normalizeState(cs[i])
	}
	return cs, nil
}

func normalizeState(c models.Controller) models.Controller {
	c.UpdatedAt = toUTC(c.UpdatedAt)
	c.StartedAt = toUTC(c.StartedAt)
	if c.ErrorCodes == nil {
		c.ErrorCodes = []string{}
	}
	return c
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
