// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package relationship

import "errors"

var (
	// ErrSelfPair is returned when both sides of a pair are the same account.
	ErrSelfPair = errors.New("cannot pair an account with itself")

	// ErrInvalidIdentity is returned when either side of a pair is the zero identity.
	ErrInvalidIdentity = errors.New("invalid account identity")

	// ErrInvalidSender is returned when a request's sender is not part of the pair.
	ErrInvalidSender = errors.New("sender must be one of the pair")

	// ErrDuplicate is returned when the request or friendship already exists.
	ErrDuplicate = errors.New("relationship already exists")

	// ErrNotFound is returned when the request or friendship does not exist.
	ErrNotFound = errors.New("relationship not found")
)
