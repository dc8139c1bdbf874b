package models

// User is an operator account allowed to edit profiles and drive controllers.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never serialized
}
