package domain

import "time"

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account. A user authenticates either with a password or
// through a federated identity; both may coexist when an OAuth identity is
// linked to a password-created account sharing the same email.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this via JSON
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// --- Federated identity (optional) ---
	OAuthProvider string `json:"oauth_provider,omitempty"`
	OAuthSub      string `json:"-"`

	// --- Profile (all optional until set) ---
	Age      *int     `json:"age"`
	HeightCm *float64 `json:"height_cm"`
	WeightKg *float64 `json:"weight_kg"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileCompleted reports whether all three profile fields are set.
func (u *User) ProfileCompleted() bool {
	return u.Age != nil && u.HeightCm != nil && u.WeightKg != nil
}
