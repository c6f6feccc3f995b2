package stage

import (
	"errors"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/pricing"
	"github.com/adil-soubki/uc-transcripts/internal/youtube"
)

// Classify buckets a per-item error for logging. Anything unrecognized
// is assumed to be a transport problem.
func Classify(err error) string {
	var (
		schemaErr  *models.SchemaError
		unknownErr *pricing.UnknownModelError
		corruptErr *cache.CorruptError
	)
	switch {
	case errors.Is(err, youtube.ErrNoTranscript):
		return "not_available"
	case errors.As(err, &schemaErr):
		return "schema_error"
	case errors.As(err, &unknownErr):
		return "unknown_model"
	case errors.As(err, &corruptErr):
		return "corrupt_cache"
	default:
		return "transport_error"
	}
}
