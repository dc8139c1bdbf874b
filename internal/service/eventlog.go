package service

import (
	"context"
	"errors"
	"strings"

	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidEventType = errors.New("unknown event type")
	ErrInvalidLimit     = errors.New("limit must be >= 0")
)

var knownEventTypes = map[string]struct{}{
	models.EventStart:           {},
	models.EventStop:            {},
	models.EventProfileComplete: {},
	models.EventError:           {},
	models.EventTelemetry:       {},
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	out := repository.EventFilter{
		From:         toUTC(f.From),
		To:           toUTC(f.To),
		Type:         normalizeEventType(f.Type),
		ControllerID: f.ControllerID,
		Limit:        f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return repository.EventFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" {
		if _, ok := knownEventTypes[out.Type]; !ok {
			return repository.EventFilter{}, ErrInvalidEventType
		}
	}
	if out.Limit < 0 {
		return repository.EventFilter{}, ErrInvalidLimit
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.Event, error) {
	filter, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, filter)
}
