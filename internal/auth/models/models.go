package models

import (
	"time"

	id "campushub/pkg/domain"
)

// This file contains pure domain models for authentication: entities
// that should not depend on transport or HTTP-specific concerns.

// Role classifies what an identity is allowed to do.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Privileged reports whether the role requires step-up verification
// (a one-time code) beyond the password check.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Identity is a registered user in the identity store.
// PasswordHash is a bcrypt hash; the plaintext never leaves the login request.
type Identity struct {
	ID           id.StudentID
	Email        string
	PasswordHash []byte
	Role         Role
	Name         string
}

// Session represents a fully verified login. It exists only after the
// credential check (and, for privileged roles, the one-time-code check).
type Session struct {
	ID                id.SessionID
	IdentityID        id.StudentID
	Email             string
	Name              string
	Role              Role
	Token             string
	DeviceDisplayName string
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// PendingChallenge is the server-held record of an issued one-time code
// awaiting verification. At most one exists per email; a new login attempt
// replaces any prior challenge for that email.
type PendingChallenge struct {
	Email     string
	Code      string
	Identity  Identity
	Attempts  int
	MaxTries  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge window has closed at the given time.
func (c *PendingChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// RecordAttempt counts a failed verification. It returns false once the
// attempt budget is exhausted, at which point the challenge must be cleared.
func (c *PendingChallenge) RecordAttempt() bool {
	c.Attempts++
	return c.Attempts < c.MaxTries
}

// Refresh moves the challenge to a new code and a fresh expiry window,
// invalidating the previous code immediately. The attempt budget resets.
func (c *PendingChallenge) Refresh(code string, now time.Time, ttl time.Duration) {
	c.Code = code
	c.Attempts = 0
	c.CreatedAt = now
	c.ExpiresAt = now.Add(ttl)
}
