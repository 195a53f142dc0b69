package domain

import "time"

// User is the identity-collaborator projection. Authentication itself is
// handled upstream; handlers receive an already-authenticated user id.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address is a delivery address owned by a user. Addresses referenced by an
// order batch cannot be deleted.
type Address struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	Country      string    `json:"country"`
	Region       string    `json:"region"`
	City         string    `json:"city"`
	Street       string    `json:"street"`
	StreetNumber string    `json:"streetNumber"`
	CreatedAt    time.Time `json:"createdAt"`
}
