// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/tidewater/pkg/errutil"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "newline terminated", input: "hunter2\n", want: "hunter2"},
		{name: "crlf", input: "hunter2\r\n", want: "hunter2"},
		{name: "no trailing newline", input: "hunter2", want: "hunter2"},
		{name: "only first line", input: "first\nsecond\n", want: "first"},
		{name: "empty input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLine(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "PASSWORD_READ_FAILED")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func runPasswdArgs(t *testing.T, deps *AccountDeps, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newAccountCmd(deps)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAccountPasswd_UpdatesPassword(t *testing.T) {
	isolateEnv(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	mock.ExpectExec("UPDATE accounts SET password_hash").
		WithArgs("alice", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	deps := &AccountDeps{
		Connect: func(_ context.Context, url string) (Database, error) {
			assert.Equal(t, "postgres://localhost/tidewater", url)
			return mock, nil
		},
	}

	out, err := runPasswdArgs(t, deps, "new-secret\n",
		"passwd", "alice", "--database-url", "postgres://localhost/tidewater")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated for alice")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPasswd_UnknownAccount(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tidewater")

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	mock.ExpectExec("UPDATE accounts SET password_hash").
		WithArgs("ghost", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	deps := &AccountDeps{
		Connect: func(context.Context, string) (Database, error) { return mock, nil },
	}

	_, err = runPasswdArgs(t, deps, "new-secret\n", "passwd", "ghost")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAccountPasswd_RejectsShortPassword(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tidewater")

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	deps := &AccountDeps{
		Connect: func(context.Context, string) (Database, error) { return mock, nil },
	}

	_, err = runPasswdArgs(t, deps, "ab\n", "passwd", "alice")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID_PASSWORD")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPasswd_Failures(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		isolateEnv(t)
		_, err := runPasswdArgs(t, nil, "new-secret\n", "passwd", "alice")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})

	t.Run("read failure", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost/tidewater")
		deps := &AccountDeps{
			ReadPassword: func(*cobra.Command, string) (string, error) {
				return "", errors.New("tty gone")
			},
		}
		_, err := runPasswdArgs(t, deps, "", "passwd", "alice")
		require.EqualError(t, err, "tty gone")
	})

	t.Run("connect failure", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost/tidewater")
		deps := &AccountDeps{
			Connect: func(context.Context, string) (Database, error) {
				return nil, errors.New("refused")
			},
		}
		_, err := runPasswdArgs(t, deps, "new-secret\n", "passwd", "alice")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	})

	t.Run("requires a name", func(t *testing.T) {
		isolateEnv(t)
		_, err := runPasswdArgs(t, nil, "", "passwd")
		require.Error(t, err)
	})
}
