package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultd/internal/config"
	apperrors "github.com/allisson/vaultd/internal/errors"
	"github.com/allisson/vaultd/internal/seal"
)

// getSealCommands returns the offline key-ceremony helpers: these operate
// only on local key material (never the database) because the seal state
// machine itself is process-global (SPEC_FULL.md §4.2) and only meaningful
// against the long-lived server process, which exposes it at
// GET /v1/seal/status and would receive shares through whatever
// admin-facing surface the caller layer adds (out of scope, §6).
func getSealCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-master-key",
			Usage: "Generate a new base64-encoded master key for MASTER_KEY",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runGenerateMasterKey()
			},
		},
		{
			Name:  "generate-shares",
			Usage: "Split the configured MASTER_KEY into Shamir shares for distribution",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runGenerateShares()
			},
		},
		{
			Name:  "verify-shares",
			Usage: "Reconstruct a master key from shares and compare it against MASTER_KEY",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "share",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Base64 share (indexByte||shareBytes); repeat for each share, at least threshold-many",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runVerifyShares(cmd.StringSlice("share"))
			},
		},
	}
}

func runGenerateMasterKey() error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	for i := range key {
		key[i] = 0
	}

	fmt.Println("# Master key configuration")
	fmt.Println("# Copy this to your environment before first run; it cannot be recovered")
	fmt.Println("# once lost, and rotating it requires rewrapping every stored envelope.")
	fmt.Println()
	fmt.Printf("MASTER_KEY=\"%s\"\n", encoded)
	return nil
}

func runGenerateShares() error {
	cfg := config.Load()
	sealSvc := seal.NewService(cfg.MasterKey, cfg.SealShares, cfg.SealThreshold, true)

	shares, err := sealSvc.GenerateKeyShares()
	if err != nil {
		return fmt.Errorf("failed to split master key: %w", err)
	}

	fmt.Printf("# %d shares, threshold %d — distribute each to a separate key holder\n", cfg.SealShares, cfg.SealThreshold)
	for i, share := range shares {
		fmt.Printf("SHARE_%d=\"%s\"\n", i+1, share)
	}
	return nil
}

func runVerifyShares(shares []string) error {
	cfg := config.Load()
	if len(shares) < cfg.SealThreshold {
		return fmt.Errorf("need at least %d shares, got %d", cfg.SealThreshold, len(shares))
	}

	sealSvc := seal.NewService(cfg.MasterKey, cfg.SealShares, cfg.SealThreshold, false)

	var lastErr error
	for _, s := range shares {
		_, err := sealSvc.SubmitKeyShare(s)
		if err == nil || err == apperrors.ErrUnsealVerifyFailed {
			lastErr = err
			continue
		}
		return fmt.Errorf("invalid share %q: %w", truncate(s), err)
	}

	if lastErr == apperrors.ErrUnsealVerifyFailed {
		return fmt.Errorf("reconstructed key does not match configured MASTER_KEY: %w", lastErr)
	}

	status := sealSvc.Status()
	if status.State != seal.Unsealed {
		return fmt.Errorf("shares did not reach threshold (collected %d of %d)", status.CollectedCount, status.Threshold)
	}

	fmt.Println("shares reconstruct the configured master key")
	return nil
}

func truncate(s string) string {
	if len(s) <= 12 {
		return s
	}
	return strings.TrimSpace(s[:12]) + "..."
}
