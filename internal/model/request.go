package model

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	// bcrypt truncates nothing and errors past 72 bytes, so the cap is 72.
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// ActivityRequest creates or fully replaces an activity. Coordinates are
// pointers so that 0 survives the required check.
type ActivityRequest struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	Latitude    *float64  `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude   *float64  `json:"longitude" validate:"required,min=-180,max=180"`
	Category    string    `json:"category" validate:"required,max=100"`
}
