package videos

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

var csvHeader = []string{
	"video_id", "title", "published_at",
	"channel_handle", "channel_id", "uploads_playlist_id",
}

// ListingPath is where a channel's video listing CSV lives. The leading
// "@" is dropped so the filename stays shell-friendly.
func ListingPath(videosDir, handle string) string {
	name := strings.TrimPrefix(handle, "@") + "_videos.csv"
	return filepath.Join(videosDir, name)
}

// WriteListing writes the channel listing CSV via a temp file and rename
// so an interrupted run never leaves a partial listing behind.
func WriteListing(path string, videoList []models.VideoMetadata) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create listing directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-listing-*")
	if err != nil {
		return fmt.Errorf("create temp listing: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(csvHeader)
	for _, v := range videoList {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			v.VideoID, v.Title, v.PublishedAt,
			v.ChannelHandle, v.ChannelID, v.UploadsPlaylistID,
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write listing %s: %w", path, writeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish listing %s: %w", path, err)
	}
	return nil
}

// ReadListing loads a channel listing CSV written by WriteListing.
func ReadListing(path string) ([]models.VideoMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read listing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("listing %s is empty", path)
	}
	if len(records[0]) != len(csvHeader) || records[0][0] != csvHeader[0] {
		return nil, fmt.Errorf("listing %s has an unexpected header", path)
	}

	videoList := make([]models.VideoMetadata, 0, len(records)-1)
	for _, rec := range records[1:] {
		videoList = append(videoList, models.VideoMetadata{
			VideoID:           rec[0],
			Title:             rec[1],
			PublishedAt:       rec[2],
			ChannelHandle:     rec[3],
			ChannelID:         rec[4],
			UploadsPlaylistID: rec[5],
		})
	}
	return videoList, nil
}
