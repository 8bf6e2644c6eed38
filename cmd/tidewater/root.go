// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/holomush/tidewater/internal/config"
	"github.com/holomush/tidewater/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Tidewater CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidewater",
		Short: "Tidewater - accounts, friends and player state for a fishing game",
		Long: `Tidewater serves the identity and social core of a fishing game:
accounts and tokens, friend requests, and the per-player state
(stats, catches, inventory, mail and effects) behind an HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAccountCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// addDatabaseFlag registers the flag every database command shares.
func addDatabaseFlag(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")
}

// loadConfig merges defaults, the config file, the environment and the
// flags that were set on cmd. Without --config the XDG config file is used
// when present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		var err error
		if path, err = xdg.DefaultConfigFile(); err != nil {
			return nil, err
		}
	}
	loader := config.NewLoader(config.WithConfigFile(path))
	return loader.Load(cmd.Flags())
}
