package annotate

import (
	"context"
	"fmt"
)

// Comparator classifies which narrative elements persist, vanish, or newly
// appear between adjacent annotations. It reuses the Annotator for each
// pairwise request.
type Comparator struct {
	annotator   *Annotator
	instruction string
}

// NewComparator creates a new Comparator
func NewComparator(annotator *Annotator, instruction string) *Comparator {
	return &Comparator{
		annotator:   annotator,
		instruction: instruction,
	}
}

// Compare produces one persistence report per annotation, in order. Index 0
// is always empty: the first row has no predecessor. Failure markers in the
// input are compared as plain text like any other annotation; nothing is
// memoized, every call recomputes all pairs.
func (c *Comparator) Compare(ctx context.Context, annotations []string) []string {
	reports := make([]string, len(annotations))

	for i := 1; i < len(annotations); i++ {
		payload := fmt.Sprintf("First: %s\nSecond: %s", annotations[i-1], annotations[i])
		reports[i] = c.annotator.Annotate(ctx, c.instruction, payload).Cell()
	}

	return reports
}
