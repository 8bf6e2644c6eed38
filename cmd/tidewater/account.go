// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AccountDeps contains injectable dependencies for the account commands.
// All fields with nil values will use their default implementations.
type AccountDeps struct {
	// Connect opens the database pool.
	// Default: store.Connect with store.DefaultConnectOptions
	Connect func(ctx context.Context, databaseURL string) (Database, error)

	// ReadPassword prompts for a password.
	// Default: readPassword on the command's input
	ReadPassword func(cmd *cobra.Command, prompt string) (string, error)
}

// NewAccountCmd creates the account subcommand.
func NewAccountCmd() *cobra.Command {
	return newAccountCmd(nil)
}

func newAccountCmd(deps *AccountDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Administer player accounts",
	}
	addDatabaseFlag(cmd.PersistentFlags())

	passwd := &cobra.Command{
		Use:   "passwd NAME",
		Short: "Set an account's password",
		Long: `Prompt for a new password and store it for the named account.
When standard input is not a terminal the password is read from its
first line and no confirmation is asked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswd(cmd.Context(), cmd, args[0], deps)
		},
	}
	cmd.AddCommand(passwd)
	return cmd
}

func runPasswd(ctx context.Context, cmd *cobra.Command, name string, deps *AccountDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d := AccountDeps{}
	if deps != nil {
		d = *deps
	}
	if d.Connect == nil {
		d.Connect = (&ServeDeps{}).withDefaults().Connect
	}
	if d.ReadPassword == nil {
		d.ReadPassword = readPassword
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	password, err := d.ReadPassword(cmd, "New password: ")
	if err != nil {
		return err
	}
	if isTerminal(cmd.InOrStdin()) {
		confirm, err := d.ReadPassword(cmd, "Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return oops.Code("PASSWORD_MISMATCH").Errorf("passwords do not match")
		}
	}

	db, err := d.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	items, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	// Tokens are never issued here; the codec only needs a valid key.
	if cfg.SecretKey == "" {
		cfg.SecretKey = strings.Repeat("x", 32)
	}
	accounts, err := newAccountService(cfg, db, items, slog.Default())
	if err != nil {
		return err
	}
	if err := accounts.ChangePassword(ctx, name, password); err != nil {
		return err
	}
	cmd.Printf("Password updated for %s\n", name)
	return nil
}

// readPassword reads without echo from a terminal, otherwise one line.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print(prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
		}
		return string(b), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", oops.Code("PASSWORD_READ_FAILED").Wrapf(err, "read password from input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
