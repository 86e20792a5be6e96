package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

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
	verbose    bool
	postReview bool
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var auditCmd = &cobra.Command{
	Use:   "audit [pr-url]",
	Short: "Audit the comments touched by a GitHub Pull Request",
	Long: `Audit the comments touched by a GitHub Pull Request.

The audit command fetches the PR diff, collects the comments the change
touched, and uses an LLM to produce a keep, edit or remove verdict per
comment. By default the report is printed locally; --post publishes it as
a review on the pull request.

Examples:
  warden-cli audit https://github.com/owner/repo/pull/123
  warden-cli audit --post --verbose https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	auditCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	auditCmd.Flags().BoolVar(&postReview, "post", false, "Post the audit as a review on the pull request")
	rootCmd.AddCommand(auditCmd)
}

// stepTimer tracks timing for verbose output
type stepTimer struct {
	stepNum    int
	totalSteps int
	start      time.Time
	verbose    bool
}

func newStepTimer(totalSteps int, verbose bool) *stepTimer {
	return &stepTimer{
		stepNum:    0,
		totalSteps: totalSteps,
		verbose:    verbose,
	}
}

func (t *stepTimer) step(name string) {
	t.stepNum++
	t.start = time.Now()
	if t.verbose {
		titleColor.Printf("\n🔧 Step %d/%d: %s...\n", t.stepNum, t.totalSteps, name)
	} else {
		fmt.Printf("%s...\n", name)
	}
}

func (t *stepTimer) done(details ...string) {
	if t.verbose {
		elapsed := time.Since(t.start).Round(time.Millisecond)
		successColor.Printf("   ✓ Done (%s)\n", elapsed)
		for _, d := range details {
			dimColor.Printf("   └── %s\n", d)
		}
	}
}

func (t *stepTimer) info(format string, args ...any) {
	if t.verbose {
		dimColor.Printf("   ├── "+format+"\n", args...)
	}
}

func runAudit(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	prURL := args[0]

	timer := newStepTimer(5, verbose)
	overallStart := time.Now()

	titleColor.Println("🚀 Comment Warden - PR Audit")
	dimColor.Printf("   Target: %s\n\n", prURL)

	// 1. Load configuration
	timer.step("Loading configuration")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\n\nTip: Check that your config.yaml exists and is valid", err)
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = viper.GetString("GITHUB_TOKEN")
	}
	if err := cfg.ValidateForCLI(); err != nil {
		return fmt.Errorf("invalid configuration: %w\n\nTip: Set CW_GITHUB_TOKEN or pass --github-token", err)
	}
	log := logger.NewLogger(cfg.Logging, nil)
	timer.done()

	// 2. Parse URL and fetch PR metadata
	timer.step("Fetching PR metadata")
	owner, repoName, prNumber, err := gitutil.ParsePullRequestURL(prURL)
	if err != nil {
		return fmt.Errorf("invalid PR URL: %w\n\nExpected format: https://github.com/owner/repo/pull/123", err)
	}

	ghClient := github.NewPATClient(ctx, cfg.GitHub.Token, log)
	pr, err := ghClient.GetPullRequest(ctx, owner, repoName, prNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch PR: %w\n\nTip: Check that the PR exists and your token has access", err)
	}

	timer.info("PR #%d: %s", pr.GetNumber(), pr.GetTitle())
	timer.info("Head SHA: %s", truncateSHA(pr.GetHead().GetSHA()))
	timer.done()

	event := &core.GitHubEvent{
		Type:         core.CommandAudit,
		RepoOwner:    owner,
		RepoName:     repoName,
		RepoFullName: fmt.Sprintf("%s/%s", owner, repoName),
		PRNumber:     prNumber,
		PRTitle:      pr.GetTitle(),
		PRBody:       pr.GetBody(),
		RepoCloneURL: pr.GetBase().GetRepo().GetCloneURL(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Language:     pr.GetBase().GetRepo().GetLanguage(),
	}

	// 3. Clone and collect touched comments
	timer.step("Collecting touched comments")
	changedFiles, err := ghClient.GetChangedFiles(ctx, owner, repoName, prNumber)
	if err != nil {
		return fmt.Errorf("failed to get changed files: %w", err)
	}
	timer.info("Changed files: %d", len(changedFiles))

	validLines := make(map[string]map[int]struct{}, len(changedFiles))
	for _, f := range changedFiles {
		validLines[f.Filename] = github.ParseValidLinesFromPatch(f.Patch, log)
	}

	git := gitutil.NewClient(log)
	repoPath, cleanup, err := git.CloneAndCheckoutTemp(ctx, event.RepoCloneURL, event.HeadSHA, cfg.GitHub.Token)
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	defer cleanup()

	repoCfg, err := config.LoadRepoConfig(repoPath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		log.Warn("failed to load repo config, using defaults", "error", err)
		repoCfg = core.DefaultRepoConfig()
	}

	files := make([]comments.ChangedFile, 0, len(changedFiles))
	for _, f := range changedFiles {
		files = append(files, comments.ChangedFile{
			Path:       f.Filename,
			AddedLines: github.ParseAddedLinesFromPatch(f.Patch, log),
		})
	}

	collector := comments.NewCollector(cfg.Audit.MaxFileSize, log)
	touched, err := collector.CollectTouched(repoPath, files, repoCfg)
	if err != nil {
		return fmt.Errorf("failed to collect touched comments: %w", err)
	}
	timer.info("Touched comments: %d", len(touched))
	timer.done()

	// 4. Classify
	timer.step("Classifying comments")
	candidates := checklist.ClassifyAll(touched, repoCfg)
	timer.done()

	// 5. Generate audit
	timer.step("Generating audit")
	model, err := llm.NewGeneratorModel(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create generator model: %w", err)
	}
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		return fmt.Errorf("failed to create prompt manager: %w", err)
	}
	auditor := llm.NewAuditor(cfg, promptMgr, model, log)

	report, _, err := auditor.GenerateAudit(ctx, event, repoCfg, candidates)
	if err != nil {
		return fmt.Errorf("failed to generate audit: %w\n\nTip: Check that the LLM service is running", err)
	}
	timer.done()

	if verbose {
		dimColor.Printf("\n⏱️  Total time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}

	printReport(report)

	if postReview {
		if len(report.Findings) == 0 {
			infoColor.Println("\nNothing to post: the change touches no auditable comments.")
			return nil
		}
		updater := github.NewStatusUpdater(ghClient)
		if err := updater.PostAuditReview(ctx, event, report, validLines); err != nil {
			return fmt.Errorf("failed to post audit review: %w", err)
		}
		successColor.Println("\n✅ Audit posted as a review on the pull request.")
	}
	return nil
}

func truncateSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func printReport(report *core.AuditReport) {
	separator := strings.Repeat("═", 60)
	thinSeparator := strings.Repeat("─", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("📋 COMMENT AUDIT: %s\n", report.Outcome)
	titleColor.Println(separator)
	fmt.Println()
	infoColor.Println(report.Summary)

	actionable := report.ActionableFindings()
	if len(actionable) == 0 {
		fmt.Println()
		successColor.Println("✅ All touched comments pass the audit!")
		return
	}

	fmt.Println()
	warnColor.Println(thinSeparator)
	warnColor.Printf("💡 FINDINGS (%d of %d comments)\n", len(actionable), len(report.Findings))
	warnColor.Println(thinSeparator)

	for i, f := range actionable {
		fmt.Println()
		printVerdictBadge(f.Verdict)
		boldColor.Printf(" %s", f.FilePath)
		dimColor.Printf(":%d\n", f.LineNumber)
		dimColor.Printf("   Criterion: %s\n", f.Criterion)

		fmt.Println()
		infoColor.Printf("%s\n", f.Note)

		if f.Verdict == core.VerdictEdit && f.Rewrite != "" {
			fmt.Println()
			successColor.Println("   Suggested rewrite:")
			for _, line := range strings.Split(strings.TrimSpace(f.Rewrite), "\n") {
				infoColor.Printf("   %s\n", line)
			}
		}

		if i < len(actionable)-1 {
			fmt.Println()
			dimColor.Println(strings.Repeat("─", 40))
		}
	}
	fmt.Println()
}

func printVerdictBadge(verdict core.Verdict) {
	switch verdict {
	case core.VerdictRemove:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", strings.ToUpper(string(verdict)))
	case core.VerdictEdit:
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", strings.ToUpper(string(verdict)))
	case core.VerdictKeep:
		color.New(color.BgGreen, color.FgWhite).Printf(" %s ", strings.ToUpper(string(verdict)))
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", strings.ToUpper(string(verdict)))
	}
}
