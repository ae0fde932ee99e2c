// Package cryptox implements the credential primitives of the account
// service: keyed password hashing and constant-time comparison.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/accountauth/internal/common"
)

// SaltSize is the length of the random HMAC key generated per credential.
// It matches the block size of SHA-512.
const SaltSize = 128

var ErrEmptySalt = errors.New("empty salt")

// HashPassword generates a fresh random salt and returns
// HMAC-SHA512(key=salt, message=password) together with that salt.
// Every call yields a new salt, so two hashes of the same password differ.
func HashPassword(password string) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return computeHash(password, salt), salt
}

// ComputeHash recomputes the password hash for a stored salt.
func ComputeHash(password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	return computeHash(password, salt), nil
}

func computeHash(password string, salt []byte) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// VerifyPassword reports whether password matches the stored hash and salt.
// The full hash is compared in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	computed, err := ComputeHash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(computed, hash) == 1
}

// EqualTokens compares two opaque tokens in constant time.
func EqualTokens(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
