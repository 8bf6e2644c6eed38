// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/holomush/tidewater/internal/store"
)

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and schema version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("tidewater %s\n", version)
			cmd.Printf("  commit:  %s\n", commit)
			cmd.Printf("  built:   %s\n", date)
			cmd.Printf("  go:      %s\n", runtime.Version())

			versions, err := store.MigrationVersions()
			if err != nil {
				return err
			}
			if n := len(versions); n > 0 {
				cmd.Printf("  schema:  %d\n", versions[n-1])
			}
			return nil
		},
	}
}
