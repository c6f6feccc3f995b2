// Package models defines the data shapes that flow through the pipeline:
// video metadata from the YouTube Data API, caption transcripts, and the
// structured question documents produced by the parse stage.
package models

import "strings"

// VideoMetadata describes one video in a channel's uploads playlist.
type VideoMetadata struct {
	VideoID           string `json:"video_id"`
	Title             string `json:"title"`
	PublishedAt       string `json:"published_at"`
	ChannelHandle     string `json:"channel_handle"`
	ChannelID         string `json:"channel_id"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

// TranscriptSnippet is a single timed caption segment.
type TranscriptSnippet struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is a video's caption track with metadata. A video whose
// captions are disabled is cached as a stub with TranscriptsDisabled set,
// so later runs don't retry it.
type Transcript struct {
	VideoID             string              `json:"video_id"`
	IsGenerated         bool                `json:"is_generated"`
	Language            string              `json:"language"`
	LanguageCode        string              `json:"language_code"`
	Snippets            []TranscriptSnippet `json:"snippets"`
	TranscriptsDisabled bool                `json:"transcripts_disabled"`
}

// PlainText joins all snippet texts with single spaces.
func (t Transcript) PlainText() string {
	var sb strings.Builder
	for _, s := range t.Snippets {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// CachedTranscript is the document stored in the transcript cache
// namespace: the video's metadata fields inlined next to the transcript.
type CachedTranscript struct {
	VideoMetadata
	Transcript Transcript `json:"transcript"`
}
