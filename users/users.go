package users

import (
	"strings"
	"time"
)

// Identity is the authenticated user asserted by a session token.
type Identity struct {
	Subject     string `json:"sub"`  // Opaque user identifier
	DisplayName string `json:"name"` // Username at the time the token was issued
}

// IsZero reports whether the identity carries no subject.
func (i Identity) IsZero() bool {
	return i.Subject == ""
}

type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Username     string    `json:"username,omitempty"`    // Unique username, shown as the display name
	PasswordHash string    `json:"-"`                     // Digest of the user's password - never serialize
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
}

// Identity returns the token identity for the user.
func (u *User) Identity() Identity {
	return Identity{Subject: u.ID, DisplayName: u.Username}
}

// NormaliseUsername trims surrounding whitespace from a submitted username.
func NormaliseUsername(username string) string {
	return strings.TrimSpace(username)
}
