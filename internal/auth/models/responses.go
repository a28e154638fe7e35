package models

import "time"

// This file contains transport-layer response models for JSON output.
// These are shaped for API responses and should avoid domain behavior.

// LoginResult is the discriminated outcome of a login attempt. Exactly one
// branch is populated: either a challenge was issued (privileged roles) or a
// session was established directly. The one-time code itself is never part
// of this payload; it travels only through the notification channel.
type LoginResult struct {
	ChallengeRequired  bool           `json:"challenge_required"`
	ChallengeExpiresAt *time.Time     `json:"challenge_expires_at,omitempty"`
	Session            *SessionResult `json:"session,omitempty"`
}

// SessionResult is the response payload for an established session.
type SessionResult struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user for display purposes.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ResendResult reports the fresh challenge window after a resend.
type ResendResult struct {
	ExpiresAt time.Time `json:"expires_at"`
}
