package model

import "time"

// User represents an application user record as stored in the `users` table.
// PasswordHash never leaves the server: it has no JSON encoding.
//
// Fields:
//
//	ID           – opaque unique identifier (UUID string).
//	Name         – display name, non-empty.
//	Email        – unique, lower-cased address.
//	PasswordHash – bcrypt hash of the password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
