package models

import "time"

// Controller is a simulated temperature controller and its live state.
type Controller struct {
	ID           int       `json:"id"`
	ZoneID       int       `json:"zone_id"`
	Name         string    `json:"name"`
	MinTempC     float64   `json:"min_temp_c"`              // lower hardware limit °C
	MaxTempC     float64   `json:"max_temp_c"`              // upper hardware limit °C
	CurrentTempC float64   `json:"current_temp_c"`          // °C
	TargetTempC  float64   `json:"target_temp_c,omitempty"` // °C, from the active profile
	ProfileID    string    `json:"profile_id,omitempty"`    // active profile
	StartedAt    time.Time `json:"started_at,omitempty"`    // start of the active run
	Progress     float64   `json:"progress"`                // normalized run time, 0..1
	ErrorCodes   []string  `json:"error_codes,omitempty"`   // e.g. ["OVERHEAT", "PROFILE_MISSING"]
	IsRunning    bool      `json:"is_running"`
	UpdatedAt    time.Time `json:"updated_at"`
}
