package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a back-office role carried in the access token.
type RoleType string

const (
	RoleSuperAdmin RoleType = "superadmin" // Full access across the back office
	RoleSupervisor RoleType = "supervisor" // Branch-level management
	RoleCashier    RoleType = "cajero"     // Register operations only
)

// User is the backend's stored account record. The password hash never leaves
// the server; clients only ever see the Profile projection.
type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Email        string    `json:"email,omitempty"`       // User's email address, used as the login name
	Name         string    `json:"name,omitempty"`        // Display name
	PasswordHash string    `json:"-"`                     // Hashed password - never serialize
	Role         RoleType  `json:"role,omitempty"`        // Back-office role, embedded in issued tokens
	App          string    `json:"app,omitempty"`         // Tenant the account belongs to; may be empty
	Active       bool      `json:"active,omitempty"`      // Inactive accounts cannot authenticate or restore
	DateJoined   time.Time `json:"date_joined,omitempty"` // When the account was created
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last successful credential exchange
}

// Profile is the wire-level projection of a user returned by the profile
// lookup endpoint. The App field is optional; when absent the client falls
// back to the token's app claim.
type Profile struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	App   string `json:"app,omitempty"`
}

// Profile returns the client-visible projection of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		App:   u.App,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
