package parse

import (
	"math"

	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/pricing"
	"github.com/adil-soubki/uc-transcripts/internal/tokens"
)

// DefaultOutputTokens is the per-transcript output allowance assumed when
// estimating cost. Parsed episodes run long, so the allowance is generous.
const DefaultOutputTokens = 9000

// Estimate is the projected cost of parsing a batch of transcripts with
// one model. Costs are USD rounded to 4 decimal places.
type Estimate struct {
	Model        string
	Transcripts  int
	InputTokens  int
	OutputTokens int
	InputCost    float64
	OutputCost   float64
	TotalCost    float64
	Approximate  bool
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// EstimateCost computes the projected cost of sending every transcript's
// full prompt to model. It issues no requests and is deterministic for a
// given counter. outputAllowance tokens are budgeted per transcript;
// pass DefaultOutputTokens unless you have a better bound. An unknown
// model returns *pricing.UnknownModelError.
func EstimateCost(counter tokens.Counter, table pricing.Table, model string, docs []models.CachedTranscript, outputAllowance int) (Estimate, error) {
	price, err := table.Lookup(model)
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{
		Model:       model,
		Transcripts: len(docs),
		Approximate: counter.Approximate(),
	}
	for _, doc := range docs {
		prompt := SystemPrompt + "\n" + BuildPrompt(doc.VideoMetadata, doc.Transcript)
		est.InputTokens += counter.Count(prompt)
		est.OutputTokens += outputAllowance
	}

	est.InputCost = round4(float64(est.InputTokens) / 1000 * price.Input)
	est.OutputCost = round4(float64(est.OutputTokens) / 1000 * price.Output)
	est.TotalCost = round4(est.InputCost + est.OutputCost)
	return est, nil
}
