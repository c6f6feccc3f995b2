// Package transcripts implements the fetch-transcripts command: pull
// caption transcripts for every video in a channel listing and cache
// them as JSON documents.
package transcripts

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/common"
	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/stage"
	"github.com/adil-soubki/uc-transcripts/internal/videos"
	"github.com/adil-soubki/uc-transcripts/internal/youtube"
)

// Fetcher is the slice of the YouTube client this stage needs.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (models.Transcript, error)
}

// processVideo handles one video: skip when already cached, otherwise
// fetch and cache. Videos with disabled captions are cached as a stub so
// later runs skip them, but the run still counts them as errors.
func processVideo(ctx context.Context, store *cache.Store, fetcher Fetcher, video models.VideoMetadata, force bool) (stage.Outcome, error) {
	if store.Exists(cache.Transcripts, video.VideoID) && !force {
		return stage.OutcomeSkipped, nil
	}

	transcript, err := fetcher.FetchTranscript(ctx, video.VideoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			stub := models.CachedTranscript{
				VideoMetadata: video,
				Transcript: models.Transcript{
					VideoID:             video.VideoID,
					TranscriptsDisabled: true,
				},
			}
			if writeErr := store.Write(cache.Transcripts, video.VideoID, stub); writeErr != nil {
				return stage.OutcomeError, writeErr
			}
		}
		return stage.OutcomeError, err
	}

	doc := models.CachedTranscript{VideoMetadata: video, Transcript: transcript}
	if err := store.Write(cache.Transcripts, video.VideoID, doc); err != nil {
		return stage.OutcomeError, err
	}
	return stage.OutcomeSuccess, nil
}

// Action handles `uct fetch-transcripts --channel @Handle`.
func Action(c *cli.Context) error {
	rt, err := common.Bootstrap(c, false, false)
	if err != nil {
		return err
	}
	handle := c.String("channel")

	videoList, err := videos.ReadListing(videos.ListingPath(rt.Config.VideosDir(), handle))
	if err != nil {
		rt.Logger.Error("no channel listing; run fetch-videos first",
			"channel", handle, "error", err)
		return cli.Exit(err.Error(), 2)
	}
	if id := c.String("video-id"); id != "" {
		videoList = filterByID(videoList, id)
		if len(videoList) == 0 {
			return cli.Exit(fmt.Sprintf("video %s is not in the %s listing", id, handle), 2)
		}
	}

	unlock, err := rt.Store.AcquireLock()
	if err != nil {
		rt.Logger.Error("cache is busy", "error", err)
		return cli.Exit(err.Error(), 2)
	}
	defer unlock()

	client := youtube.NewClient(rt.Config.YouTubeAPIKey, rt.Logger)
	force := c.Bool("force")

	items := make([]stage.Item, len(videoList))
	byID := make(map[string]models.VideoMetadata, len(videoList))
	for i, v := range videoList {
		items[i] = stage.Item{ID: v.VideoID, Label: v.Title}
		byID[v.VideoID] = v
	}

	summary, _, err := stage.Run(c.Context, rt.Logger, "fetch-transcripts", items,
		func(ctx context.Context, item stage.Item) (stage.Outcome, error) {
			return processVideo(ctx, rt.Store, client, byID[item.ID], force)
		})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("Transcripts: %d fetched, %d skipped, %d errors\n",
		summary.Success, summary.Skipped, summary.Errors)
	rt.RecordRun("fetch-transcripts", handle, "", summary)
	return nil
}

func filterByID(videoList []models.VideoMetadata, id string) []models.VideoMetadata {
	for _, v := range videoList {
		if v.VideoID == id {
			return []models.VideoMetadata{v}
		}
	}
	return nil
}
