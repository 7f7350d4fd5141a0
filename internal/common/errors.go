// Package common defines shared constants and sentinel errors used across
// client and server layers of passvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Request validation.
	ErrInvalidInput = errors.New("invalid input")

	// Session errors. ErrTokenExpired and ErrInvalidToken are reported to
	// callers as ErrUnauthenticated.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")

	// Identity errors.
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Repository-level errors. Absent and foreign records are both ErrNotFound.
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")

	// Envelope errors, recovered per record.
	ErrAuthenticationFailure = errors.New("message authentication failed")
	ErrMalformedRecord       = errors.New("malformed record")

	// Local key errors, fatal to every vault operation.
	ErrKeyCorrupt = errors.New("local encryption key is corrupt")
	ErrKeyInvalid = errors.New("invalid key handle")
)
