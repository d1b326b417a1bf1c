package domain

import "time"

// User is the profile backing an authenticated identity.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio,omitempty"`
	LocationCity  string    `json:"location_city,omitempty"`
	LocationState string    `json:"location_state,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity is what the identity resolver hands to the rest of the core for
// an authenticated request.
type Identity struct {
	UserID      string
	DisplayName string
	// TokenID and ExpiresAt identify the credential so it can be revoked.
	TokenID   string
	ExpiresAt time.Time
}
