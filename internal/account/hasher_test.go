// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package account_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/account/accounttest"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := accounttest.FastHasher()

	t.Run("produces PHC encoded hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	})

	t.Run("same input hashes differently", func(t *testing.T) {
		h1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		h2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.Error(t, err)
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := accounttest.FastHasher()

	hash, err := hasher.Hash("correct" + "salt")
	require.NoError(t, err)

	t.Run("matching secret", func(t *testing.T) {
		ok, err := hasher.Verify("correctsalt", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		ok, err := hasher.Verify("wrongsalt", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("default parameters verify fast-parameter hashes", func(t *testing.T) {
		ok, err := account.NewArgon2idHasher().Verify("correctsalt", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	invalid := []struct {
		name    string
		encoded string
	}{
		{"not PHC", "not-a-valid-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad version", "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"unknown version", "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=abc$c2FsdA$aGFzaA"},
		{"threads overflow", "$argon2id$v=19$m=1024,t=1,p=256$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA"},
		{"bad key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$!!!"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hasher.Verify("password", tt.encoded)
			assert.Error(t, err)
		})
	}
}

func TestNewSalt(t *testing.T) {
	s1, err := account.NewSalt()
	require.NoError(t, err)
	s2, err := account.NewSalt()
	require.NoError(t, err)

	assert.Len(t, s1, account.SaltBytes*2)
	_, err = hex.DecodeString(s1)
	assert.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}
