package domain

import "time"

// Role type to distinguish between user roles
type Role string

const (
	RoleCreator Role = "creator" // Publishes training programs
	RoleTrainee Role = "trainee" // Buys and completes programs
)

// User is an account that can authenticate against the API.
// ID is the opaque principal used as creator, buyer or user in the registry.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Should be unique
	PasswordHash string    `json:"-"`     // Never expose this via JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsCreator() bool {
	return u.Role == RoleCreator
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}
