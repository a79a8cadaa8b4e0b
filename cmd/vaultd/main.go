// Package main provides the entry point for the vaultd service: the HTTP
// server/scheduler process plus a set of urfave/cli/v3 operator commands
// for seal/unseal, migrations, and maintenance tasks.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:     "vaultd",
		Usage:    "multi-tenant secrets management service",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
