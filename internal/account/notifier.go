// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account

import (
	"context"
	"log/slog"
)

// UsernameNotifier delivers a forgotten display name to the account's email.
type UsernameNotifier interface {
	NotifyUsername(ctx context.Context, email, name string) error
}

// LogNotifier writes username reminders to a logger instead of sending mail.
type LogNotifier struct {
	Logger *slog.Logger
}

// NotifyUsername logs the reminder.
func (n LogNotifier) NotifyUsername(ctx context.Context, email, name string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "username reminder", "email", email, "name", name)
	return nil
}
