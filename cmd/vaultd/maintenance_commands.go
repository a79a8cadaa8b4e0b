package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultd/internal/app"
	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
	"github.com/allisson/vaultd/internal/config"
)

// getMaintenanceCommands returns operator tooling beyond the core data
// plane: raising a transit key's decryption floor once an operator has
// confirmed every referencing ciphertext was rewrapped, and checking the
// HMAC integrity of recorded audit entries (SPEC_FULL.md §5, teacher's
// rewrap_deks.go / verify_audit_logs.go commands adapted to this domain).
func getMaintenanceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rewrap-transit-keys",
			Usage: "Raise minDecryptionVersion to currentVersion for every transit key in a team",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "team", Aliases: []string{"t"}, Required: true, Usage: "Team id to sweep"},
				&cli.BoolFlag{
					Name:  "confirm",
					Usage: "Operator confirms every ciphertext referencing older versions has already been rewrapped",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runRewrapTransitKeys(ctx, cmd.String("team"), cmd.Bool("confirm"))
			},
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Verify the HMAC signature of every audit entry for a team in a time range",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "team", Aliases: []string{"t"}, Required: true, Usage: "Team id to scope the query"},
				&cli.StringFlag{Name: "start-date", Aliases: []string{"s"}, Required: true, Usage: "YYYY-MM-DD or YYYY-MM-DD HH:MM:SS"},
				&cli.StringFlag{Name: "end-date", Aliases: []string{"e"}, Required: true, Usage: "YYYY-MM-DD or YYYY-MM-DD HH:MM:SS"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runVerifyAuditLogs(ctx, cmd.String("team"), cmd.String("start-date"), cmd.String("end-date"))
			},
		},
	}
}

func runRewrapTransitKeys(ctx context.Context, teamID string, confirm bool) error {
	if !confirm {
		return fmt.Errorf("refusing to raise minDecryptionVersion without --confirm")
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	transitUC, err := container.TransitKeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize transit use case: %w", err)
	}

	keys, err := transitUC.List(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to list transit keys: %w", err)
	}

	raised := 0
	for _, key := range keys {
		if key.MinDecryptionVersion >= key.CurrentVersion {
			continue
		}
		if _, err := transitUC.UpdateMinDecryptionVersion(ctx, teamID, key.Name, key.CurrentVersion); err != nil {
			logger.Error("failed to raise minDecryptionVersion",
				"transit_key", key.Name, "error", err)
			continue
		}
		raised++
	}

	fmt.Printf("raised minDecryptionVersion for %d of %d transit keys\n", raised, len(keys))
	return nil
}

func runVerifyAuditLogs(ctx context.Context, teamID, startDate, endDate string) error {
	since, err := parseAuditDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start-date: %w", err)
	}
	until, err := parseAuditDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end-date: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	auditUC, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	entries, err := auditUC.Query(ctx, teamID, auditDomainFilter(since, until))
	if err != nil {
		return fmt.Errorf("failed to query audit entries: %w", err)
	}

	var tampered int
	for _, entry := range entries {
		if err := auditUC.VerifySignature(entry); err != nil {
			tampered++
			fmt.Printf("TAMPERED: id=%s operation=%s created_at=%s error=%s\n",
				entry.ID, entry.Operation, entry.CreatedAt.Format(time.RFC3339), err)
		}
	}

	fmt.Printf("checked %d entries, %d signature failures\n", len(entries), tampered)
	if tampered > 0 {
		return fmt.Errorf("%d audit entries failed signature verification", tampered)
	}
	return nil
}

func auditDomainFilter(since, until time.Time) auditDomain.Filter {
	return auditDomain.Filter{Since: &since, Until: &until}
}

func parseAuditDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
