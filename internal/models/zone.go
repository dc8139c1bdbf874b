package models

import "time"

// Zone groups controllers that are usually driven together (a kiln room, a
// greenhouse bay).
type Zone struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
