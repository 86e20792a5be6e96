package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sevigo/comment-warden/internal/checklist"
	"github.com/sevigo/comment-warden/internal/comments"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/github"
	"github.com/sevigo/comment-warden/internal/gitutil"
	"github.com/sevigo/comment-warden/internal/llm"
	"github.com/sevigo/comment-warden/internal/logger"
)

var (
	baseRev string
	noLLM   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Audit the comments touched by local, unpushed changes",
	Long: `Audit the comments touched by local changes in a git repository.

The scan command diffs the working HEAD against a base revision, collects
the comments those changes touched and audits them. With --no-llm only the
heuristic checks run, which needs no model and finishes in milliseconds.

Examples:
  warden-cli scan . --base origin/main
  warden-cli scan ~/src/widgets --base HEAD~3 --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	scanCmd.Flags().StringVar(&baseRev, "base", "HEAD~1", "Base revision to diff against")
	scanCmd.Flags().BoolVar(&noLLM, "no-llm", false, "Run only the heuristic checks, without a model")
	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewLogger(cfg.Logging, nil)

	git := gitutil.NewClient(log)
	repo, err := git.Open(repoPath)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}

	headSHA, err := git.ResolveRevision(repo, "HEAD")
	if err != nil {
		return err
	}
	baseSHA, err := git.ResolveRevision(repo, baseRev)
	if err != nil {
		return err
	}

	titleColor.Println("🚀 Comment Warden - Local Scan")
	dimColor.Printf("   Range: %s..%s\n", truncateSHA(baseSHA), truncateSHA(headSHA))

	patches, err := git.ChangedPatches(repo, baseSHA, headSHA)
	if err != nil {
		return fmt.Errorf("failed to diff %s against %s: %w", baseRev, "HEAD", err)
	}
	if len(patches) == 0 {
		successColor.Println("\n✅ No changes between the given revisions.")
		return nil
	}

	repoCfg, err := config.LoadRepoConfig(repoPath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		log.Warn("failed to load repo config, using defaults", "error", err)
		repoCfg = core.DefaultRepoConfig()
	}

	files := make([]comments.ChangedFile, 0, len(patches))
	for _, p := range patches {
		files = append(files, comments.ChangedFile{
			Path:       p.Path,
			AddedLines: github.ParseAddedLinesFromPatch(p.Patch, log),
		})
	}

	collector := comments.NewCollector(cfg.Audit.MaxFileSize, log)
	touched, err := collector.CollectTouched(repoPath, files, repoCfg)
	if err != nil {
		return fmt.Errorf("failed to collect touched comments: %w", err)
	}
	if len(touched) == 0 {
		successColor.Println("\n✅ The changes touch no auditable comments.")
		return nil
	}
	dimColor.Printf("   Touched comments: %d\n", len(touched))

	candidates := checklist.ClassifyAll(touched, repoCfg)

	var report *core.AuditReport
	if noLLM {
		report = checklist.BuildHeuristicReport(candidates)
	} else {
		model, err := llm.NewGeneratorModel(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to create generator model: %w", err)
		}
		promptMgr, err := llm.NewPromptManager()
		if err != nil {
			return fmt.Errorf("failed to create prompt manager: %w", err)
		}
		auditor := llm.NewAuditor(cfg, promptMgr, model, log)

		event := &core.GitHubEvent{
			Type:         core.CommandAudit,
			RepoFullName: filepath.Base(repoPath),
			PRTitle:      "Local changes",
			HeadSHA:      headSHA,
		}
		report, _, err = auditor.GenerateAudit(ctx, event, repoCfg, candidates)
		if err != nil {
			return fmt.Errorf("failed to generate audit: %w", err)
		}
	}

	printReport(report)
	return nil
}
