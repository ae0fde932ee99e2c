package models

import "time"

// AccountID identifies an account. It is assigned by the store on insert.
type AccountID = int64

// Account is a registered identity with its credential and token state.
//
// PasswordResetToken and ResetTokenExpires are either both set or both nil.
// VerifiedAt is set once and never cleared.
type Account struct {
	ID                 AccountID
	Email              string
	PasswordHash       []byte
	PasswordSalt       []byte
	VerifiedAt         *time.Time
	VerificationToken  string
	PasswordResetToken *string
	ResetTokenExpires  *time.Time
	CreatedAt          time.Time
}

// IsVerified reports whether the account may log in.
func (a *Account) IsVerified() bool {
	return a.VerifiedAt != nil
}

// SetResetToken stores a reset token together with its expiry.
func (a *Account) SetResetToken(token string, expires time.Time) {
	a.PasswordResetToken = &token
	a.ResetTokenExpires = &expires
}

// ClearResetToken drops the reset token pair.
func (a *Account) ClearResetToken() {
	a.PasswordResetToken = nil
	a.ResetTokenExpires = nil
}

// ResetTokenExpired reports whether the reset token, if any, expired before now.
// An account without an expiry is treated as expired.
func (a *Account) ResetTokenExpired(now time.Time) bool {
	return a.ResetTokenExpires == nil || a.ResetTokenExpires.Before(now)
}
