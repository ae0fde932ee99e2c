package models

import "time"

// TokenEventKind tells a token consumer what the token is for.
type TokenEventKind string

const (
	VerificationIssued  TokenEventKind = "verification_issued"
	PasswordResetIssued TokenEventKind = "password_reset_issued"
)

// TokenEvent is published after a token has been committed so that an
// out-of-band collaborator (e.g. a mail service) can deliver it.
type TokenEvent struct {
	Kind      TokenEventKind `json:"type"`
	AccountID AccountID      `json:"account_id"`
	Email     string         `json:"email"`
	Token     string         `json:"token"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}
