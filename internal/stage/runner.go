// Package stage runs a batch of per-item work with skip/force semantics
// and an incrementally built outcome summary. Item errors never halt the
// loop; only context cancellation does.
package stage

import (
	"context"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Outcome classifies how one item finished.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// Item is one unit of work, usually a video.
type Item struct {
	ID    string
	Label string
}

// Result pairs an item with how it finished.
type Result struct {
	Item    Item
	Outcome Outcome
	Err     error
}

// Summary accumulates outcome counts as the loop progresses.
type Summary struct {
	Success int
	Skipped int
	Errors  int
}

// Record adds one outcome to the summary.
func (s *Summary) Record(o Outcome) {
	switch o {
	case OutcomeSuccess:
		s.Success++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeError:
		s.Errors++
	}
}

// Total is the number of recorded outcomes.
func (s *Summary) Total() int {
	return s.Success + s.Skipped + s.Errors
}

// Fn processes one item and reports its outcome. A returned error is
// recorded against the item and the loop continues.
type Fn func(ctx context.Context, item Item) (Outcome, error)

// Run applies fn to every item in order, rendering a progress bar and
// logging each error as it happens. It stops early only when ctx is
// cancelled, returning the partial summary alongside the context error.
func Run(ctx context.Context, logger *slog.Logger, description string, items []Item, fn Fn) (Summary, []Result, error) {
	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var summary Summary
	results := make([]Result, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, results, err
		}

		outcome, err := fn(ctx, item)
		if err != nil {
			outcome = OutcomeError
			logger.Error("item failed",
				"id", item.ID,
				"kind", Classify(err),
				"error", err)
		}
		summary.Record(outcome)
		results = append(results, Result{Item: item, Outcome: outcome, Err: err})
		bar.Add(1)
	}
	bar.Finish()

	logger.Info("stage complete",
		"stage", description,
		"success", summary.Success,
		"skipped", summary.Skipped,
		"errors", summary.Errors)
	return summary, results, nil
}
