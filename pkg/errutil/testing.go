// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oe, ok := oops.AsOops(err)
	require.True(t, ok, "want an oops error, got %T: %v", err, err)
	return oe
}

// AssertErrorCode fails unless err carries code. When oops errors are
// nested the innermost code is the one reported.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Equal(t, code, mustOops(t, err).Code())
}

// AssertErrorContext fails unless err carries key with value in its context.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	got := mustOops(t, err).Context()
	if assert.Contains(t, got, key) {
		assert.Equal(t, value, got[key])
	}
}

// AssertErrorKind checks both the sentinel err wraps and its code.
func AssertErrorKind(t *testing.T, err, target error, code string) {
	t.Helper()
	assert.True(t, errors.Is(err, target), "want %v in chain, got %v", target, err)
	AssertErrorCode(t, err, code)
}
