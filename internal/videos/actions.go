// Package videos implements the fetch-videos command: list a channel's
// uploads through the YouTube Data API and persist them as a CSV the
// later stages read.
package videos

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/common"
	"github.com/adil-soubki/uc-transcripts/internal/render"
	"github.com/adil-soubki/uc-transcripts/internal/stage"
	"github.com/adil-soubki/uc-transcripts/internal/youtube"
)

const previewRows = 10

// Action handles `uct fetch-videos --channel @Handle`.
func Action(c *cli.Context) error {
	rt, err := common.Bootstrap(c, true, false)
	if err != nil {
		return err
	}
	handle := c.String("channel")
	path := ListingPath(rt.Config.VideosDir(), handle)

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		rt.Logger.Info("listing already cached", "channel", handle, "path", path)
		fmt.Printf("Listing for %s already exists at %s (use --force to refetch)\n", handle, path)
		rt.RecordRun("fetch-videos", handle, "", stage.Summary{Skipped: 1})
		return nil
	}

	client := youtube.NewClient(rt.Config.YouTubeAPIKey, rt.Logger)
	videoList, err := client.ChannelVideos(c.Context, handle)
	if err != nil {
		rt.Logger.Error("failed to list channel videos", "channel", handle, "error", err)
		rt.RecordRun("fetch-videos", handle, "", stage.Summary{Errors: 1})
		return cli.Exit(err.Error(), 1)
	}

	if err := WriteListing(path, videoList); err != nil {
		rt.Logger.Error("failed to write listing", "path", path, "error", err)
		return cli.Exit(err.Error(), 1)
	}
	rt.Logger.Info("wrote channel listing",
		"channel", handle, "videos", len(videoList), "path", path)

	rows := make([][]string, 0, previewRows)
	for i, v := range videoList {
		if i == previewRows {
			break
		}
		rows = append(rows, []string{v.VideoID, v.PublishedAt, v.Title})
	}
	fmt.Println(render.Table([]string{"Video ID", "Published", "Title"}, rows, nil))
	if len(videoList) > previewRows {
		fmt.Printf("... and %d more\n", len(videoList)-previewRows)
	}
	fmt.Printf("Saved %d videos to %s\n", len(videoList), path)

	rt.RecordRun("fetch-videos", handle, "", stage.Summary{Success: len(videoList)})
	return nil
}
