// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/ident"
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

// MinSecretLength is the shortest signing secret NewTokenCodec accepts.
const MinSecretLength = 16

// TokenCodec issues and verifies HS256 session tokens.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// TokenOption configures a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

// WithLifetime overrides TokenLifetime.
func WithLifetime(d time.Duration) TokenOption {
	return func(c *TokenCodec) { c.lifetime = d }
}

// NewTokenCodec creates a codec signing with secret.
func NewTokenCodec(secret []byte, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, oops.Code("TOKEN_SECRET_INVALID").
			With("min_length", MinSecretLength).
			Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	c := &TokenCodec{
		secret:   append([]byte(nil), secret...),
		lifetime: TokenLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for id expiring one lifetime from now.
// Every token carries a unique jti, so two tokens for the same account
// never share bytes.
func (c *TokenCodec) Issue(id ulid.ULID) (string, error) {
	issuedAt, expiresAt := c.window(c.now())
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		ID:        ident.New().String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("account_id", id.String()).Wrap(err)
	}
	return signed, nil
}

// window returns the whole-second iat and exp claims for a token issued at
// now. The claims only carry seconds, so exp is rounded up: a token is never
// rejected before a full lifetime has passed.
func (c *TokenCodec) window(now time.Time) (issuedAt, expiresAt time.Time) {
	exact := now.Add(c.lifetime)
	expiresAt = exact.Truncate(time.Second)
	if expiresAt.Before(exact) {
		expiresAt = expiresAt.Add(time.Second)
	}
	return now.Truncate(time.Second), expiresAt
}

// Verify returns the account ID embedded in token.
// A correctly signed token whose expiry is at or before now yields
// ErrExpiredToken; every other failure yields ErrMalformedToken.
func (c *TokenCodec) Verify(token string) (ulid.ULID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ulid.ULID{}, oops.Code("TOKEN_EXPIRED").Wrap(ErrExpiredToken)
		}
		return ulid.ULID{}, oops.Code("TOKEN_MALFORMED").With("reason", err.Error()).Wrap(ErrMalformedToken)
	}

	id, err := ulid.ParseStrict(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_MALFORMED").With("reason", "invalid subject").Wrap(ErrMalformedToken)
	}
	return id, nil
}
