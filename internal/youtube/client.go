// Package youtube fetches channel video listings via the Data API v3 and
// caption transcripts via the InnerTube player endpoint, with a
// watch-page scrape fallback.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

const (
	defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	playlistPageSize  = 50

	// The Data API quota punishes bursts; a small steady rate is plenty
	// for sequential stage loops.
	apiRequestsPerSecond = 5
)

// Client talks to YouTube. The zero value is not usable; use NewClient.
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter

	// Overridable in tests.
	apiBaseURL   string
	innerTubeURL string
	watchBaseURL string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURLs points the client at alternate endpoints (tests).
func WithBaseURLs(api, innerTube, watch string) Option {
	return func(c *Client) {
		if api != "" {
			c.apiBaseURL = api
		}
		if innerTube != "" {
			c.innerTubeURL = innerTube
		}
		if watch != "" {
			c.watchBaseURL = watch
		}
	}
}

// NewClient builds a YouTube client with the given Data API key.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
		limiter:      rate.NewLimiter(rate.Limit(apiRequestsPerSecond), apiRequestsPerSecond),
		apiBaseURL:   defaultAPIBaseURL,
		innerTubeURL: defaultInnerTubeURL,
		watchBaseURL: defaultWatchBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("youtube api %s: http %d: %s", endpoint, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("youtube api %s: decode: %w", endpoint, err)
	}
	return nil
}

// resolveChannelID turns a channel handle (e.g. @CosmicPumpkin) into a
// channel ID using the search endpoint.
func (c *Client) resolveChannelID(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", handle)
	params.Set("type", "channel")
	params.Set("maxResults", "1")

	var resp searchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for handle %s", handle)
	}
	return resp.Items[0].Snippet.ChannelID, nil
}

// uploadsPlaylistID returns the channel's uploads playlist.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var resp channelsResponse
	if err := c.getJSON(ctx, "/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for id %s", channelID)
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// playlistVideos pages through a playlist and returns every video.
func (c *Client) playlistVideos(ctx context.Context, playlistID, handle, channelID string) ([]models.VideoMetadata, error) {
	var videos []models.VideoMetadata
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", fmt.Sprintf("%d", playlistPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.getJSON(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			videos = append(videos, models.VideoMetadata{
				VideoID:           item.Snippet.ResourceID.VideoID,
				Title:             item.Snippet.Title,
				PublishedAt:       item.Snippet.PublishedAt,
				ChannelHandle:     handle,
				ChannelID:         channelID,
				UploadsPlaylistID: playlistID,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return videos, nil
}

// ChannelVideos lists every upload of the channel identified by handle.
func (c *Client) ChannelVideos(ctx context.Context, handle string) ([]models.VideoMetadata, error) {
	channelID, err := c.resolveChannelID(ctx, handle)
	if err != nil {
		return nil, err
	}
	playlistID, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	c.logger.Info("resolved channel", "handle", handle, "channel_id", channelID, "uploads_playlist", playlistID)
	return c.playlistVideos(ctx, playlistID, handle, channelID)
}
