// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package account owns player credentials and sessions.
//
// # Tokens
//
// Sessions are stateless: a TokenCodec signs an HS256 JWT binding an account
// ID to a fixed 24 hour lifetime. There is no revocation list; a token stays
// valid until it expires even if the password changes.
//
// # Passwords
//
// Every account carries its own random hex salt. The stored hash is the
// PasswordHasher output for password+salt, so rotating the salt on a
// password change invalidates any precomputed guess.
//
// # Registration
//
// Register persists the account, its default stats row and the starter items
// through a single Repository.Create call. Implementations must do this in one
// transaction: an account is never observable without its starter state.
package account
