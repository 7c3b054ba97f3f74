package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"registrar"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, or plaintext on legacy rows
	Role      string    `json:"role" db:"role" example:"staff"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// StoredPassword is the id/password pair scanned by the password migration
type StoredPassword struct {
	UserID   int64
	Password string
}
