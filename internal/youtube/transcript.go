package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

// Transcript fetching.
// Primary:  ANDROID InnerTube /player → captionTracks → timedtext XML
// Fallback: watch page scrape → ytInitialPlayerResponse → captionTracks

const (
	defaultInnerTubeURL = "https://www.youtube.com/youtubei/v1/player"
	defaultWatchBaseURL = "https://www.youtube.com"

	androidClientVersion = "19.09.37"
	androidUserAgent     = "com.google.android.youtube/" + androidClientVersion + " (Linux; U; Android 11) gzip"

	playerResponseMarker = "var ytInitialPlayerResponse = "
)

// ErrNoTranscript marks videos whose captions are disabled or missing.
// Stages record it as a per-item error outcome, never a fatal one.
var ErrNoTranscript = errors.New("transcript not available")

// preferredLanguages is the caption language preference order.
var preferredLanguages = []string{"en", "en-GB"}

// pickTrack selects the best caption track: a manual track in a preferred
// language, then a generated one, then any English track, then whatever
// is first.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return tracks[0], true
}

// parseTimedText decodes a timedtext XML document into snippets.
func parseTimedText(data []byte) ([]models.TranscriptSnippet, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	snippets := make([]models.TranscriptSnippet, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		snippets = append(snippets, models.TranscriptSnippet{
			Text:     text,
			Start:    line.Start,
			Duration: line.Duration,
		})
	}
	return snippets, nil
}

// fetchTimedText downloads and parses a caption track URL.
func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]models.TranscriptSnippet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// playerCaptions asks the ANDROID InnerTube /player endpoint for the
// video's caption tracks.
func (c *Client) playerCaptions(ctx context.Context, videoID string) ([]captionTrack, error) {
	reqBody, err := json.Marshal(innerTubeRequest{
		VideoID: videoID,
		Context: innerTubeCtx{
			Client: innerTubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidClientVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.innerTubeURL+"?prettyPrint=false", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	return captionsFromPlayer(player, videoID)
}

func captionsFromPlayer(player playerResponse, videoID string) ([]captionTrack, error) {
	if player.Captions == nil {
		reason := ""
		if player.PlayabilityStatus != nil {
			reason = player.PlayabilityStatus.Reason
		}
		if reason != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrNoTranscript, videoID, reason)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s: no caption tracks", ErrNoTranscript, videoID)
	}
	return tracks, nil
}

// scrapeCaptions extracts ytInitialPlayerResponse from the watch page
// HTML and reads the caption tracks out of it.
func (c *Client) scrapeCaptions(ctx context.Context, videoID string) ([]captionTrack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.watchBaseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var payload []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		payload = extractJSONObject(text[idx+len(playerResponseMarker):])
		return payload == nil
	})
	if payload == nil {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}

	var player playerResponse
	if err := json.Unmarshal(payload, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return captionsFromPlayer(player, videoID)
}

// extractJSONObject returns the balanced JSON object at the start of s,
// or nil. Braces inside strings are skipped.
func extractJSONObject(s string) []byte {
	if len(s) == 0 || s[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return []byte(s[:i+1])
			}
		}
	}
	return nil
}

// FetchTranscript fetches the caption transcript for one video. Missing
// or disabled captions surface as ErrNoTranscript.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (models.Transcript, error) {
	tracks, err := c.playerCaptions(ctx, videoID)
	if err != nil && !errors.Is(err, ErrNoTranscript) {
		c.logger.Warn("innertube player failed, scraping watch page", "video_id", videoID, "error", err)
		tracks, err = c.scrapeCaptions(ctx, videoID)
	}
	if err != nil {
		return models.Transcript{}, err
	}

	track, ok := pickTrack(tracks, preferredLanguages)
	if !ok {
		return models.Transcript{}, fmt.Errorf("%w: %s: no usable track", ErrNoTranscript, videoID)
	}

	snippets, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return models.Transcript{}, err
	}
	if len(snippets) == 0 {
		return models.Transcript{}, fmt.Errorf("%w: %s: empty transcript", ErrNoTranscript, videoID)
	}

	transcript := models.Transcript{
		VideoID:      videoID,
		IsGenerated:  track.Kind == "asr",
		Language:     track.Name.SimpleText,
		LanguageCode: track.LanguageCode,
		Snippets:     snippets,
	}

	// Some tracks come back without a language code; detect one from the
	// text so the cached document is still labeled.
	if transcript.LanguageCode == "" {
		if name, code, ok := detectLanguage(transcript.PlainText()); ok {
			transcript.Language = name
			transcript.LanguageCode = code
			c.logger.Info("detected transcript language", "video_id", videoID, "language", name)
		}
	}
	return transcript, nil
}
