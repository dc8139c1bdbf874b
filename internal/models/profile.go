package models

import (
	"time"

	"heating_profiles/internal/curve"
)

// Profile is a named heating curve. Points live in normalized space; the run
// duration and temperature range give them physical units.
type Profile struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	DurationMinutes float64              `json:"duration_minutes"`
	MinTempC        float64              `json:"min_temp_c"`
	MaxTempC        float64              `json:"max_temp_c"`
	Points          []curve.ControlPoint `json:"points"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Duration is the wall-clock length of one run.
func (p Profile) Duration() time.Duration {
	return time.Duration(p.DurationMinutes * float64(time.Minute))
}

// TempAt returns the target temperature at a normalized run time.
func (p Profile) TempAt(normalized float64) float64 {
	return curve.ValueAt(p.Points, normalized, p.MinTempC, p.MaxTempC)
}
