// Package questions implements the parse-questions command: run an LLM
// over cached transcripts to produce structured question documents, or
// estimate what such a run would cost.
package questions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/common"
	"github.com/adil-soubki/uc-transcripts/internal/llm"
	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/parse"
	"github.com/adil-soubki/uc-transcripts/internal/pricing"
	"github.com/adil-soubki/uc-transcripts/internal/render"
	"github.com/adil-soubki/uc-transcripts/internal/stage"
	"github.com/adil-soubki/uc-transcripts/internal/tokens"
)

// Parser is the slice of the parse layer this stage needs.
type Parser interface {
	Parse(ctx context.Context, doc models.CachedTranscript) (*models.ParsedEpisode, string, error)
}

// processTranscript parses one cached transcript with the model. Replies
// that fail schema validation are preserved beside the cache entry for
// debugging but never written to the canonical namespace.
func processTranscript(ctx context.Context, store *cache.Store, parser Parser, model, videoID string, force bool) (stage.Outcome, error) {
	namespace := cache.QuestionsNamespace(model)
	if store.Exists(namespace, videoID) && !force {
		return stage.OutcomeSkipped, nil
	}

	var doc models.CachedTranscript
	if err := store.Read(cache.Transcripts, videoID, &doc); err != nil {
		return stage.OutcomeError, err
	}
	if doc.Transcript.TranscriptsDisabled {
		return stage.OutcomeSkipped, nil
	}

	episode, raw, err := parser.Parse(ctx, doc)
	if err != nil {
		var schemaErr *models.SchemaError
		if errors.As(err, &schemaErr) && raw != "" {
			if keepErr := writeRejected(store, namespace, videoID, raw); keepErr != nil {
				return stage.OutcomeError, errors.Join(err, keepErr)
			}
		}
		return stage.OutcomeError, err
	}

	if err := store.Write(namespace, videoID, episode); err != nil {
		return stage.OutcomeError, err
	}
	return stage.OutcomeSuccess, nil
}

// writeRejected stores raw model output next to where the document would
// have gone, with an extension the cache never lists.
func writeRejected(store *cache.Store, namespace, videoID, raw string) error {
	path, err := store.Path(namespace, videoID)
	if err != nil {
		return err
	}
	path = strings.TrimSuffix(path, ".json") + ".rejected.txt"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		return fmt.Errorf("preserve rejected output: %w", err)
	}
	return nil
}

// pendingTranscripts loads the transcripts the run will operate on,
// dropping disabled-caption stubs and corrupt entries up front for the
// estimate path.
func pendingTranscripts(store *cache.Store, onlyID string) ([]models.CachedTranscript, error) {
	ids, err := store.List(cache.Transcripts)
	if err != nil {
		return nil, err
	}

	var docs []models.CachedTranscript
	for _, id := range ids {
		if onlyID != "" && id != onlyID {
			continue
		}
		var doc models.CachedTranscript
		if err := store.Read(cache.Transcripts, id, &doc); err != nil {
			continue
		}
		if doc.Transcript.TranscriptsDisabled {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Action handles `uct parse-questions --model <name>`.
func Action(c *cli.Context) error {
	estimateOnly := c.Bool("estimate")
	rt, err := common.Bootstrap(c, false, !estimateOnly)
	if err != nil {
		return err
	}
	model := c.String("model")

	if _, err := pricing.Default().Lookup(model); err != nil {
		rt.Logger.Error("unknown model", "model", model,
			"known", strings.Join(pricing.Default().Models(), ", "))
		return cli.Exit(err.Error(), 2)
	}

	docs, err := pendingTranscripts(rt.Store, c.String("video-id"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(docs) == 0 {
		fmt.Println("No transcripts to parse; run fetch-transcripts first")
		return nil
	}

	if estimateOnly {
		return estimateAction(rt.Logger, model, docs)
	}

	unlock, err := rt.Store.AcquireLock()
	if err != nil {
		rt.Logger.Error("cache is busy", "error", err)
		return cli.Exit(err.Error(), 2)
	}
	defer unlock()

	client := llm.NewClient(llm.Config{
		APIKey:  rt.Config.OpenAIAPIKey,
		BaseURL: rt.Config.OpenAIBaseURL,
	})
	parser := parse.NewParser(client, model)
	force := c.Bool("force")

	items := make([]stage.Item, len(docs))
	for i, doc := range docs {
		items[i] = stage.Item{ID: doc.VideoID, Label: doc.Title}
	}

	summary, _, err := stage.Run(c.Context, rt.Logger, "parse-questions", items,
		func(ctx context.Context, item stage.Item) (stage.Outcome, error) {
			return processTranscript(ctx, rt.Store, parser, model, item.ID, force)
		})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("Questions (%s): %d parsed, %d skipped, %d errors\n",
		model, summary.Success, summary.Skipped, summary.Errors)
	rt.RecordRun("parse-questions", channelOf(docs), model, summary)
	return nil
}

func channelOf(docs []models.CachedTranscript) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].ChannelHandle
}

func estimateAction(logger *slog.Logger, model string, docs []models.CachedTranscript) error {
	counter := tokens.NewCounter(model)
	est, err := parse.EstimateCost(counter, pricing.Default(), model, docs, parse.DefaultOutputTokens)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	rows := [][]string{
		{"Model", est.Model},
		{"Transcripts", strconv.Itoa(est.Transcripts)},
		{"Input tokens", strconv.Itoa(est.InputTokens)},
		{"Output tokens (budgeted)", strconv.Itoa(est.OutputTokens)},
		{"Input cost", fmt.Sprintf("$%.4f", est.InputCost)},
		{"Output cost", fmt.Sprintf("$%.4f", est.OutputCost)},
		{"Total cost", fmt.Sprintf("$%.4f", est.TotalCost)},
	}
	fmt.Println(render.Table([]string{"Estimate", "Value"}, rows,
		[]render.Alignment{render.AlignLeft, render.AlignRight}))
	if est.Approximate {
		logger.Warn("token counts are a chars/4 approximation; no tokenizer was available")
		fmt.Println("Note: token counts are approximate (chars/4).")
	}
	return nil
}
