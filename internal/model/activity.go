package model

import "time"

// Activity is a location-tagged catalog entry owned by the producer who
// created it.
type Activity struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartsAt         time.Time `json:"starts_at"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Category         string    `json:"category"`
	ProducerID       int64     `json:"-"`
	ProducerUsername string    `json:"producer_username"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
