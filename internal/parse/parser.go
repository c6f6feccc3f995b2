// Package parse turns cached transcripts into structured question
// documents via an LLM, and estimates what a parse run will cost before
// any request is made.
package parse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

// Completer is the slice of the LLM client the parser needs.
type Completer interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Parser drives one model over transcripts.
type Parser struct {
	llm   Completer
	model string
}

// NewParser returns a parser bound to one model.
func NewParser(llm Completer, model string) *Parser {
	return &Parser{llm: llm, model: model}
}

// Parse sends one transcript to the model and validates the reply. The
// raw model output is returned alongside the document so callers can
// preserve it when validation fails; a *models.SchemaError means the
// reply was malformed or violated the question taxonomy.
func (p *Parser) Parse(ctx context.Context, doc models.CachedTranscript) (*models.ParsedEpisode, string, error) {
	raw, err := p.llm.Complete(ctx, p.model, SystemPrompt, BuildPrompt(doc.VideoMetadata, doc.Transcript))
	if err != nil {
		return nil, "", err
	}

	var episode models.ParsedEpisode
	if err := json.Unmarshal([]byte(raw), &episode); err != nil {
		return nil, raw, &models.SchemaError{
			Problems: []string{fmt.Sprintf("model output is not valid JSON: %v", err)},
		}
	}
	if err := models.ValidateEpisode(&episode); err != nil {
		return nil, raw, err
	}
	return &episode, raw, nil
}
