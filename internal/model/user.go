package model

import "time"

// User is the credential record backing authentication. The plaintext
// password never leaves the registration/login handlers; only the hash is
// stored.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProfile is the public view of a user. Roles are returned as a set of
// labels split from the stored comma-joined role string.
type UserProfile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
