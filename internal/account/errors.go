// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import "errors"

var (
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrConflict is returned when a name or email is already taken.
	ErrConflict = errors.New("account already exists")

	// ErrInvalidCredentials covers both an unknown name and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a token cannot be resolved to an account.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrMalformedToken is returned for tokens with a bad signature or encoding.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken is returned for correctly signed tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidInput is returned when a name, email or password fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
