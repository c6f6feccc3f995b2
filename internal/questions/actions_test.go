package questions

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/stage"
)

type fakeParser struct {
	calls   int
	episode *models.ParsedEpisode
	raw     string
	err     error
}

func (f *fakeParser) Parse(_ context.Context, _ models.CachedTranscript) (*models.ParsedEpisode, string, error) {
	f.calls++
	return f.episode, f.raw, f.err
}

func seedTranscript(t *testing.T, store *cache.Store, videoID string, disabled bool) {
	t.Helper()
	doc := models.CachedTranscript{
		VideoMetadata: models.VideoMetadata{VideoID: videoID, Title: "Episode", ChannelHandle: "@Example"},
		Transcript: models.Transcript{
			VideoID:             videoID,
			TranscriptsDisabled: disabled,
			Snippets:            []models.TranscriptSnippet{{Text: "starter for ten"}},
		},
	}
	if disabled {
		doc.Transcript.Snippets = nil
	}
	require.NoError(t, store.Write(cache.Transcripts, videoID, doc))
}

func validEpisode() *models.ParsedEpisode {
	return &models.ParsedEpisode{
		Questions: []models.Question{
			{QuestionNumber: 1, Type: models.QuestionTypeStarter, CorrectAnswer: "A"},
		},
	}
}

func TestProcessTranscriptParsesAndCaches(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	parser := &fakeParser{episode: validEpisode(), raw: "{}"}

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	require.NoError(t, err)
	assert.Equal(t, stage.OutcomeSuccess, outcome)

	var parsed models.ParsedEpisode
	require.NoError(t, store.Read(cache.QuestionsNamespace("gpt-4o-mini"), "vid1", &parsed))
	require.Len(t, parsed.Questions, 1)
}

func TestProcessTranscriptSkipsCachedUnlessForced(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	parser := &fakeParser{episode: validEpisode(), raw: "{}"}

	_, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	require.NoError(t, err)

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	require.NoError(t, err)
	assert.Equal(t, stage.OutcomeSkipped, outcome)
	assert.Equal(t, 1, parser.calls)

	outcome, err = processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", true)
	require.NoError(t, err)
	assert.Equal(t, stage.OutcomeSuccess, outcome)
	assert.Equal(t, 2, parser.calls)
}

func TestProcessTranscriptModelNamespacesAreIndependent(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	parser := &fakeParser{episode: validEpisode(), raw: "{}"}

	_, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	require.NoError(t, err)

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-5.1", "vid1", false)
	require.NoError(t, err)
	assert.Equal(t, stage.OutcomeSuccess, outcome)
	assert.Equal(t, 2, parser.calls)
}

func TestProcessTranscriptSkipsDisabledStub(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", true)
	parser := &fakeParser{episode: validEpisode(), raw: "{}"}

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	require.NoError(t, err)
	assert.Equal(t, stage.OutcomeSkipped, outcome)
	assert.Zero(t, parser.calls)
}

func TestProcessTranscriptKeepsRejectedRawOutOfCache(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	parser := &fakeParser{
		raw: "not json at all",
		err: &models.SchemaError{Problems: []string{"model output is not valid JSON"}},
	}

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	assert.Equal(t, stage.OutcomeError, outcome)

	var schemaErr *models.SchemaError
	require.ErrorAs(t, err, &schemaErr)

	namespace := cache.QuestionsNamespace("gpt-4o-mini")
	assert.False(t, store.Exists(namespace, "vid1"))

	path, pathErr := store.Path(namespace, "vid1")
	require.NoError(t, pathErr)
	raw, readErr := os.ReadFile(strings.TrimSuffix(path, ".json") + ".rejected.txt")
	require.NoError(t, readErr)
	assert.Equal(t, "not json at all", string(raw))

	ids, listErr := store.List(namespace)
	require.NoError(t, listErr)
	assert.Empty(t, ids)
}

func TestProcessTranscriptTransportErrorWritesNothing(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	parser := &fakeParser{err: errors.New("connection reset")}

	outcome, err := processTranscript(context.Background(), store, parser, "gpt-4o-mini", "vid1", false)
	assert.Equal(t, stage.OutcomeError, outcome)
	assert.Error(t, err)
	assert.False(t, store.Exists(cache.QuestionsNamespace("gpt-4o-mini"), "vid1"))
}

func TestPendingTranscriptsFiltersDisabledAndByID(t *testing.T) {
	store := cache.NewStore(t.TempDir())
	seedTranscript(t, store, "vid1", false)
	seedTranscript(t, store, "vid2", true)
	seedTranscript(t, store, "vid3", false)

	docs, err := pendingTranscripts(store, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "vid1", docs[0].VideoID)
	assert.Equal(t, "vid3", docs[1].VideoID)

	docs, err = pendingTranscripts(store, "vid3")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "vid3", docs[0].VideoID)
}
