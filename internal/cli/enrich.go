package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sdegiorgis/fabula/internal/annotate"
	"github.com/sdegiorgis/fabula/internal/model"
	"github.com/sdegiorgis/fabula/internal/pipeline"
	"github.com/sdegiorgis/fabula/internal/table"
	"github.com/spf13/cobra"
)

var (
	llmProvider          string
	llmModel             string
	maxTokens            int
	requestTimeout       int
	narrativeColumn      string
	annotationColumn     string
	persistenceColumn    string
	maxAttempts          int
	backoff              time.Duration
	requestsPerSecond    float64
	burstSize            int
	cacheEnabled         bool
	cacheDir             string
	cacheTTL             time.Duration
	narrativePromptFile  string
	comparisonPromptFile string
	dryRun               bool
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich <file.tsv>",
	Short: "Annotate narratives and classify element persistence",
	Long: `Enrich reads a tab-separated table with one narrative per row and:
- Asks the model to annotate each narrative's roles and salient events
- Compares each adjacent pair of annotations for element persistence
- Writes both columns back into the same file, preserving row order

The first row always gets an empty persistence cell (no predecessor).
Requests that still fail after all retries leave an "Error: ..." marker in
the cell instead of aborting the run.

Example:
  fabula enrich stories.tsv
  fabula enrich stories.tsv --provider openai --model gpt-4o-mini
  fabula enrich stories.tsv --narrative-column Story --rps 0.5
  fabula enrich stories.tsv --cache --max-attempts 5 --backoff 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	// LLM flags
	enrichCmd.Flags().StringVar(&llmProvider, "provider", "anthropic", "LLM provider (openai, anthropic, ollama)")
	enrichCmd.Flags().StringVar(&llmModel, "model", "claude-3-5-sonnet-20241022", "LLM model name")
	enrichCmd.Flags().IntVar(&maxTokens, "max-tokens", 1000, "max response tokens per request")
	enrichCmd.Flags().IntVar(&requestTimeout, "timeout", 60, "per-request timeout in seconds")

	// Column flags
	enrichCmd.Flags().StringVar(&narrativeColumn, "narrative-column", "Narrative", "input column holding the narratives")
	enrichCmd.Flags().StringVar(&annotationColumn, "annotation-column", "Narrative_roles_and_salient_elements", "output column for role/event annotations")
	enrichCmd.Flags().StringVar(&persistenceColumn, "persistence-column", "Elements_persistence", "output column for persistence reports")

	// Retry and pacing flags
	enrichCmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "total attempts per request")
	enrichCmd.Flags().DurationVar(&backoff, "backoff", time.Second, "linear backoff unit between retries")
	enrichCmd.Flags().Float64Var(&requestsPerSecond, "rps", 0, "max requests per second (0 = unlimited)")
	enrichCmd.Flags().IntVar(&burstSize, "burst", 1, "rate limiter burst size")

	// Cache flags
	enrichCmd.Flags().BoolVar(&cacheEnabled, "cache", false, "cache model responses on disk (off: every run recomputes)")
	enrichCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "response cache directory (default: ~/.fabula/cache)")
	enrichCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 7*24*time.Hour, "response cache TTL")

	// Prompt flags
	enrichCmd.Flags().StringVar(&narrativePromptFile, "narrative-prompt-file", "", "file overriding the built-in annotation instruction")
	enrichCmd.Flags().StringVar(&comparisonPromptFile, "comparison-prompt-file", "", "file overriding the built-in comparison instruction")

	enrichCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the table and prompts, make no requests, write nothing")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Columns.Narrative = narrativeColumn
	cfg.Columns.Annotation = annotationColumn
	cfg.Columns.Persistence = persistenceColumn
	cfg.Retry.MaxAttempts = maxAttempts
	cfg.Retry.Backoff = backoff
	cfg.RateLimiting.RequestsPerSecond = requestsPerSecond
	cfg.RateLimiting.BurstSize = burstSize
	cfg.Cache.Enabled = cacheEnabled
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	cfg.Cache.TTL = cacheTTL
	cfg.Output.Verbose = verbose
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.MaxTokens = maxTokens
	cfg.LLM.Timeout = requestTimeout

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" && !dryRun {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" && !dryRun {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	// Load instruction templates
	narrativeInstruction, err := annotate.InstructionFromFile(narrativePromptFile, annotate.DefaultNarrativeInstruction)
	if err != nil {
		return fmt.Errorf("narrative instruction: %w", err)
	}
	comparisonInstruction, err := annotate.InstructionFromFile(comparisonPromptFile, annotate.DefaultComparisonInstruction)
	if err != nil {
		return fmt.Errorf("comparison instruction: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Enriching: %s\n", path)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Retries: %d attempts, %v backoff unit\n", cfg.Retry.MaxAttempts, cfg.Retry.Backoff)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	if dryRun {
		return runDryRun(path, cfg)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg, narrativeInstruction, comparisonInstruction)
	if err != nil {
		return err
	}

	summary, err := p.EnrichFile(ctx, path)
	if err != nil {
		return fmt.Errorf("enrich failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "✓ %d rows annotated (%d failed)\n", summary.Rows, summary.AnnotationFailures)
	fmt.Fprintf(os.Stderr, "✓ %d pairs compared (%d failed)\n", summary.Comparisons, summary.ComparisonFailures)
	fmt.Fprintf(os.Stderr, "✓ Wrote: %s\n", path)

	return nil
}

// runDryRun validates the input without making any requests
func runDryRun(path string, cfg *model.Config) error {
	t, err := table.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	if _, ok := t.ColumnIndex(cfg.Columns.Narrative); !ok {
		return fmt.Errorf("column %q not found in %s (have: %v)", cfg.Columns.Narrative, path, t.Header)
	}

	comparisons := 0
	if t.Len() > 1 {
		comparisons = t.Len() - 1
	}

	fmt.Fprintf(os.Stderr, "Dry run: %s\n", path)
	fmt.Fprintf(os.Stderr, "  Rows:        %d\n", t.Len())
	fmt.Fprintf(os.Stderr, "  Requests:    %d annotations + %d comparisons\n", t.Len(), comparisons)
	fmt.Fprintf(os.Stderr, "  Columns:     %s -> %s, %s\n", cfg.Columns.Narrative, cfg.Columns.Annotation, cfg.Columns.Persistence)
	fmt.Fprintf(os.Stderr, "Nothing written.\n")

	return nil
}
