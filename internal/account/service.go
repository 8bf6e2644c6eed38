// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/ident"
)

// dummyPasswordHash is verified when the account does not exist so the
// response time of a failed login does not reveal whether the name is taken.
// It never matches any password.
//
//nolint:gosec // G101: intentionally fake hash, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

const dummySalt = "00000000000000000000000000000000"

// Service provides registration, login and token verification.
type Service struct {
	accounts Repository
	hasher   PasswordHasher
	tokens   *TokenCodec
	starter  StarterKit
	notifier UsernameNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithNotifier sets where username reminders go. Defaults to LogNotifier.
func WithNotifier(n UsernameNotifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a Service.
func NewService(accounts Repository, hasher PasswordHasher, tokens *TokenCodec, starter StarterKit, opts ...ServiceOption) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("ACCOUNT_SERVICE_INVALID").Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("ACCOUNT_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("ACCOUNT_SERVICE_INVALID").Errorf("token codec is required")
	}

	s := &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		starter:  starter,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Code("ACCOUNT_SERVICE_INVALID").Errorf("logger cannot be nil")
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	return s, nil
}

func invalidCredentials() error {
	return oops.Code("ACCOUNT_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
}

// Login verifies name and password and issues a token.
// An unknown name and a wrong password return the same error.
func (s *Service) Login(ctx context.Context, name, password string) (token string, err error) {
	defer func() { recordAttempt("login", err, ErrInvalidCredentials) }()

	acct, lookupErr := s.accounts.GetByName(ctx, name)

	targetHash, salt := dummyPasswordHash, dummySalt
	exists := false
	switch {
	case lookupErr == nil:
		targetHash, salt, exists = acct.PasswordHash, acct.Salt, true
	case !errors.Is(lookupErr, ErrNotFound):
		return "", oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "get account by name").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password+salt, targetHash)
	if verifyErr != nil && exists {
		return "", oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "verify password").
			With("account_id", acct.ID.String()).
			Wrap(verifyErr)
	}
	if !exists || !valid {
		return "", invalidCredentials()
	}

	token, err = s.tokens.Issue(acct.ID)
	if err != nil {
		return "", oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	s.logger.DebugContext(ctx, "login succeeded", "account_id", acct.ID.String())
	return token, nil
}

// VerifyToken resolves a bearer token to its account. Malformed, expired
// and orphaned tokens all return ErrUnauthenticated.
func (s *Service) VerifyToken(ctx context.Context, token string) (acct *Account, err error) {
	defer func() { recordAttempt("verify", err, ErrUnauthenticated) }()

	id, err := s.tokens.Verify(token)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, ErrExpiredToken) {
			reason = "expired"
		}
		return nil, oops.Code("ACCOUNT_UNAUTHENTICATED").With("reason", reason).Wrap(ErrUnauthenticated)
	}

	acct, err = s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("ACCOUNT_UNAUTHENTICATED").
				With("reason", "account missing").
				With("account_id", id.String()).
				Wrap(ErrUnauthenticated)
		}
		return nil, oops.Code("ACCOUNT_VERIFY_FAILED").
			With("account_id", id.String()).
			Wrap(err)
	}
	return acct, nil
}

// Register creates an account with its starter bundle and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (token string, err error) {
	defer func() { recordAttempt("register", err, ErrConflict, ErrInvalidInput) }()

	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	salt, err := NewSalt()
	if err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(password + salt)
	if err != nil {
		return "", oops.Code("ACCOUNT_REGISTER_FAILED").With("operation", "hash password").Wrap(err)
	}

	acct := &Account{
		ID:           ident.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.accounts.Create(ctx, acct, s.starter.Bundle()); err != nil {
		if errors.Is(err, ErrConflict) {
			return "", oops.Code("ACCOUNT_CONFLICT").With("name", name).Wrap(err)
		}
		return "", oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "create account").
			With("name", name).
			Wrap(err)
	}

	token, err = s.tokens.Issue(acct.ID)
	if err != nil {
		return "", oops.Code("ACCOUNT_REGISTER_FAILED").With("operation", "issue token").Wrap(err)
	}
	s.logger.InfoContext(ctx, "account registered", "account_id", acct.ID.String(), "name", name)
	return token, nil
}

// ChangePassword re-salts and re-hashes the named account's password.
// Callers must establish that the requester owns name.
func (s *Service) ChangePassword(ctx context.Context, name, newPassword string) (err error) {
	defer func() { recordAttempt("change_password", err, ErrNotFound, ErrInvalidInput) }()

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	salt, err := NewSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword + salt)
	if err != nil {
		return oops.Code("ACCOUNT_PASSWORD_CHANGE_FAILED").With("operation", "hash password").Wrap(err)
	}
	if err := s.accounts.UpdatePassword(ctx, name, hash, salt); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("ACCOUNT_NOT_FOUND").With("name", name).Wrap(err)
		}
		return oops.Code("ACCOUNT_PASSWORD_CHANGE_FAILED").
			With("operation", "update password").
			With("name", name).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "password changed", "name", name)
	return nil
}

// RetrieveUsername sends the display name registered to email through the
// notifier. It reports false, without error, when no account has the email.
func (s *Service) RetrieveUsername(ctx context.Context, email string) (bool, error) {
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("ACCOUNT_LOOKUP_FAILED").With("operation", "get account by email").Wrap(err)
	}
	if err := s.notifier.NotifyUsername(ctx, acct.Email, acct.Name); err != nil {
		return false, oops.Code("ACCOUNT_NOTIFY_FAILED").With("account_id", acct.ID.String()).Wrap(err)
	}
	return true, nil
}
