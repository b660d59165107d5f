package annotate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdegiorgis/fabula/internal/cache"
	"github.com/sdegiorgis/fabula/internal/llm"
)

// FakeProvider implements llm.Provider with a scripted failure count
type FakeProvider struct {
	FailFirst int // number of calls that fail before success
	Response  string
	Calls     int
	Prompts   []string
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *FakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.Calls++
	f.Prompts = append(f.Prompts, req.Prompt)
	if f.Calls <= f.FailFirst {
		return nil, errors.New("service unavailable")
	}
	return &llm.GenerateResponse{Text: f.Response, Model: req.Model}, nil
}

func noSleep(time.Duration) {}

func TestAnnotator_Success(t *testing.T) {
	provider := &FakeProvider{Response: "annotation"}
	annotator := NewAnnotator(provider, Config{MaxAttempts: 3, Sleep: noSleep})

	result := annotator.Annotate(context.Background(), "instruction", "A dog slept.")

	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if result.Cell() != "annotation" {
		t.Errorf("unexpected cell: %q", result.Cell())
	}
	if provider.Calls != 1 {
		t.Errorf("expected 1 call, got %d", provider.Calls)
	}
}

func TestAnnotator_PromptFormat(t *testing.T) {
	provider := &FakeProvider{Response: "ok"}
	annotator := NewAnnotator(provider, Config{Sleep: noSleep})

	annotator.Annotate(context.Background(), "do the thing", "A cat helped.")

	want := "do the thing\n\nNarrative: A cat helped."
	if provider.Prompts[0] != want {
		t.Errorf("prompt = %q, want %q", provider.Prompts[0], want)
	}
}

func TestAnnotator_RetryRecovers(t *testing.T) {
	// Fails twice, succeeds on the third attempt
	provider := &FakeProvider{FailFirst: 2, Response: "recovered"}
	annotator := NewAnnotator(provider, Config{MaxAttempts: 3, Sleep: noSleep})

	result := annotator.Annotate(context.Background(), "instruction", "text")

	if result.Failed() {
		t.Fatalf("expected recovery, got failure: %v", result.Err)
	}
	if result.Text != "recovered" {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if provider.Calls != 3 {
		t.Errorf("expected 3 calls, got %d", provider.Calls)
	}
}

func TestAnnotator_ExhaustedRetriesReturnMarker(t *testing.T) {
	provider := &FakeProvider{FailFirst: 100}
	annotator := NewAnnotator(provider, Config{MaxAttempts: 4, Sleep: noSleep})

	result := annotator.Annotate(context.Background(), "instruction", "text")

	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if provider.Calls != 4 {
		t.Errorf("expected exactly 4 attempts, got %d", provider.Calls)
	}
	if !strings.HasPrefix(result.Cell(), FailureMarkerPrefix) {
		t.Errorf("cell %q does not carry the failure marker", result.Cell())
	}
	if !strings.Contains(result.Cell(), "service unavailable") {
		t.Errorf("cell %q does not carry the final error", result.Cell())
	}
}

func TestAnnotator_LinearBackoff(t *testing.T) {
	provider := &FakeProvider{FailFirst: 100}

	var sleeps []time.Duration
	annotator := NewAnnotator(provider, Config{
		MaxAttempts: 3,
		Backoff:     time.Second,
		Sleep:       func(d time.Duration) { sleeps = append(sleeps, d) },
	})

	annotator.Annotate(context.Background(), "instruction", "text")

	// After attempt 1 fails sleep 1×unit, after attempt 2 fails sleep 2×unit
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %d (%v)", len(want), len(sleeps), sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestAnnotator_DefaultMaxAttempts(t *testing.T) {
	provider := &FakeProvider{FailFirst: 100}
	annotator := NewAnnotator(provider, Config{Sleep: noSleep})

	result := annotator.Annotate(context.Background(), "instruction", "text")

	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if provider.Calls != 3 {
		t.Errorf("expected 3 attempts by default, got %d", provider.Calls)
	}
}

func TestAnnotator_CacheHitSkipsProvider(t *testing.T) {
	provider := &FakeProvider{Response: "cached me"}
	annotator := NewAnnotator(provider, Config{
		Model: "test-model",
		Sleep: noSleep,
		Cache: cache.NewMemoryCache(time.Minute, time.Minute),
	})

	first := annotator.Annotate(context.Background(), "instruction", "text")
	second := annotator.Annotate(context.Background(), "instruction", "text")

	if first.Text != second.Text {
		t.Errorf("cache returned different text: %q vs %q", first.Text, second.Text)
	}
	if provider.Calls != 1 {
		t.Errorf("expected 1 provider call with warm cache, got %d", provider.Calls)
	}
}
