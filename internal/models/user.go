package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"user_id"`                 // Primary key
	Username     string    `json:"username" db:"username"`          // Unique username
	Email        *string   `json:"email" db:"email"`                // Optional unique email
	PasswordHash string    `json:"-" db:"password_hash"`            // Hashed password
	IsStaff      bool      `json:"is_staff" db:"is_staff"`          // Staff flag, no authorization effect
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`  // Superuser flag, no authorization effect
	CreatedAt    time.Time `json:"created_at" db:"created_at"`      // Creation timestamp
}
