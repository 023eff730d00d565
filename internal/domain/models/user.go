package models

import "time"

// User is the identity anchor for every folder, item and conversation.
// ID is the auth subject and never changes.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email,omitempty" db:"email"`
	Name      string    `json:"name,omitempty" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
