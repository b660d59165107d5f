package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/sdegiorgis/fabula/internal/cache"
	"github.com/sdegiorgis/fabula/internal/llm"
	"github.com/sdegiorgis/fabula/internal/worker"
)

// FailureMarkerPrefix prefixes the in-band cell text written when every
// attempt for a request failed. Downstream consumers detect failed cells by
// this prefix rather than via an error channel.
const FailureMarkerPrefix = "Error: "

// Result is the outcome of one annotation request. A terminal retry
// failure is carried as Err; it becomes marker text only when the result
// is rendered into a table cell.
type Result struct {
	Text string
	Err  error
}

// Failed reports whether all attempts for this request failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// Cell returns the text written to the table: the model output on success,
// a failure marker after exhausted retries.
func (r Result) Cell() string {
	if r.Err != nil {
		return FailureMarkerPrefix + r.Err.Error()
	}
	return r.Text
}

// Config holds Annotator settings
type Config struct {
	// Model and MaxTokens are passed through to the provider
	Model     string
	MaxTokens int

	// MaxAttempts is the total number of attempts per request (minimum 1)
	MaxAttempts int

	// Backoff is the linear backoff unit: the sleep before retry n is
	// Backoff * n
	Backoff time.Duration

	// Sleep is the suspend function used between attempts. Defaults to
	// time.Sleep; tests inject a no-op.
	Sleep func(time.Duration)

	// Limiter optionally paces provider calls
	Limiter *worker.Limiter

	// Cache optionally stores responses keyed by model+prompt
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Annotator sends one piece of text plus an instruction to the generation
// provider and retries failed requests with linear backoff.
type Annotator struct {
	provider llm.Provider
	config   Config
}

// NewAnnotator creates a new Annotator
func NewAnnotator(provider llm.Provider, config Config) *Annotator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Sleep == nil {
		config.Sleep = time.Sleep
	}

	return &Annotator{
		provider: provider,
		config:   config,
	}
}

// Annotate requests a completion for instruction + payload. Every provider
// error is retried identically, up to MaxAttempts total; after attempt n
// fails the caller is suspended for Backoff * n. The returned Result never
// carries a partial response: it is either the provider's text or the final
// attempt's error.
func (a *Annotator) Annotate(ctx context.Context, instruction, payload string) Result {
	prompt := fmt.Sprintf("%s\n\nNarrative: %s", instruction, payload)

	var key string
	if a.config.Cache != nil {
		key = cache.CacheKey(a.config.Model, prompt)
		if data, found := a.config.Cache.Get(key); found {
			return Result{Text: string(data)}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= a.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			a.config.Sleep(a.config.Backoff * time.Duration(attempt-1))
		}

		if a.config.Limiter != nil {
			if err := a.config.Limiter.Wait(ctx); err != nil {
				lastErr = fmt.Errorf("rate limit wait: %w", err)
				continue
			}
		}

		resp, err := a.provider.Generate(ctx, llm.GenerateRequest{
			Prompt:    prompt,
			Model:     a.config.Model,
			MaxTokens: a.config.MaxTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}

		if a.config.Cache != nil {
			_ = a.config.Cache.Set(key, []byte(resp.Text), a.config.CacheTTL)
		}
		return Result{Text: resp.Text}
	}

	return Result{Err: lastErr}
}
