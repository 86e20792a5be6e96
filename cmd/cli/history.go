package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/db"
	"github.com/sevigo/comment-warden/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [owner/repo]",
	Short: "List past audits for a repository",
	Long: `List past audits for a repository, newest first.

Examples:
  warden-cli history acme/widgets
  warden-cli history acme/widgets --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of audits to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	repoFullName := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbConn, cleanup, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cleanup()

	store := storage.NewStore(dbConn.DB)
	audits, err := store.ListAuditsForRepo(ctx, repoFullName, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list audits: %w", err)
	}

	if len(audits) == 0 {
		dimColor.Printf("No audits recorded for %s yet.\n", repoFullName)
		return nil
	}

	titleColor.Printf("📋 Audit history for %s\n\n", repoFullName)
	boldColor.Printf("%-20s  %-6s  %-12s  %-9s  %s\n", "DATE", "PR", "OUTCOME", "FINDINGS", "HEAD")
	for _, a := range audits {
		outcome := successColor
		if a.Outcome != core.OutcomeClean {
			outcome = warnColor
		}
		fmt.Printf("%-20s  #%-5d  ", a.CreatedAt.Format("2006-01-02 15:04:05"), a.PRNumber)
		outcome.Printf("%-12s", a.Outcome)
		fmt.Printf("  %-9d  %s\n", a.FindingsCount, truncateSHA(a.HeadSHA))
	}
	return nil
}
