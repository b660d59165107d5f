package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sdegiorgis/fabula/internal/annotate"
	"github.com/sdegiorgis/fabula/internal/cache"
	"github.com/sdegiorgis/fabula/internal/llm"
	"github.com/sdegiorgis/fabula/internal/model"
	"github.com/sdegiorgis/fabula/internal/table"
	"github.com/sdegiorgis/fabula/internal/worker"
)

// Pipeline orchestrates the complete enrichment run: load table, annotate
// every narrative in order, compare adjacent annotation pairs, write the
// table back in place.
type Pipeline struct {
	annotator            *annotate.Annotator
	comparator           *annotate.Comparator
	narrativeInstruction string
	config               *model.Config
}

// NewPipeline creates a pipeline, building the generation provider from the
// configuration.
func NewPipeline(cfg *model.Config, narrativeInstruction, comparisonInstruction string) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return NewPipelineWithProvider(cfg, provider, narrativeInstruction, comparisonInstruction), nil
}

// NewPipelineWithProvider creates a pipeline around an existing provider
func NewPipelineWithProvider(cfg *model.Config, provider llm.Provider, narrativeInstruction, comparisonInstruction string) *Pipeline {
	var respCache cache.Cache
	if cfg.Cache.Enabled {
		respCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	annotator := annotate.NewAnnotator(provider, annotate.Config{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     cfg.Retry.Backoff,
		Limiter:     worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Cache:       respCache,
		CacheTTL:    cfg.Cache.TTL,
	})

	return &Pipeline{
		annotator:            annotator,
		comparator:           annotate.NewComparator(annotator, comparisonInstruction),
		narrativeInstruction: narrativeInstruction,
		config:               cfg,
	}
}

// Summary reports what an enrichment run did
type Summary struct {
	Rows               int
	Comparisons        int
	AnnotationFailures int
	ComparisonFailures int
}

// EnrichFile runs the full pipeline against a TSV file, overwriting it in
// place. A missing file or missing narrative column aborts the run before
// any request is made.
func (p *Pipeline) EnrichFile(ctx context.Context, path string) (*Summary, error) {
	t, err := table.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	summary, err := p.Enrich(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := table.Save(path, t); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}

	return summary, nil
}

// Enrich annotates every row of the table in original order, then runs the
// pairwise comparison over the resulting annotation sequence. Both derived
// columns are written into the table; an existing column from a previous
// run is overwritten in place.
func (p *Pipeline) Enrich(ctx context.Context, t *table.Table) (*Summary, error) {
	cols := p.config.Columns

	narratives, err := t.Column(cols.Narrative)
	if err != nil {
		return nil, fmt.Errorf("narrative column: %w", err)
	}

	summary := &Summary{Rows: len(narratives)}

	annotations := make([]string, len(narratives))
	for i, narrative := range narratives {
		result := p.annotator.Annotate(ctx, p.narrativeInstruction, narrative)
		if result.Failed() {
			summary.AnnotationFailures++
			fmt.Fprintf(os.Stderr, "✗ row %d/%d annotation failed: %v\n", i+1, len(narratives), result.Err)
		} else if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ row %d/%d annotated\n", i+1, len(narratives))
		}
		annotations[i] = result.Cell()
	}

	reports := p.comparator.Compare(ctx, annotations)
	for i, report := range reports {
		if i == 0 {
			continue
		}
		summary.Comparisons++
		if strings.HasPrefix(report, annotate.FailureMarkerPrefix) {
			summary.ComparisonFailures++
			fmt.Fprintf(os.Stderr, "✗ pair %d/%d comparison failed\n", i, len(reports)-1)
		} else if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ pair %d/%d compared\n", i, len(reports)-1)
		}
	}

	if err := t.SetColumn(cols.Annotation, annotations); err != nil {
		return nil, fmt.Errorf("set annotation column: %w", err)
	}
	if err := t.SetColumn(cols.Persistence, reports); err != nil {
		return nil, fmt.Errorf("set persistence column: %w", err)
	}

	return summary, nil
}
