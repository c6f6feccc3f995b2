package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelVideosPaginates(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "@Example", r.URL.Query().Get("q"))
		assert.Equal(t, "channel", r.URL.Query().Get("type"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{"channelId": "UCabc"}},
			},
		})
	})
	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UCabc", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"contentDetails": map[string]any{
					"relatedPlaylists": map[string]any{"uploads": "UUabc"},
				}},
			},
		})
	})
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UUabc", r.URL.Query().Get("playlistId"))
		page := map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{
					"title":       "Episode 1",
					"publishedAt": "2026-01-02T00:00:00Z",
					"resourceId":  map[string]any{"videoId": "vid1"},
				}},
			},
		}
		if r.URL.Query().Get("pageToken") == "" {
			page["nextPageToken"] = "page2"
		} else {
			page["items"] = []map[string]any{
				{"snippet": map[string]any{
					"title":       "Episode 2",
					"publishedAt": "2026-01-09T00:00:00Z",
					"resourceId":  map[string]any{"videoId": "vid2"},
				}},
			}
		}
		json.NewEncoder(w).Encode(page)
	})

	client := NewClient("test-key", discardLogger(), WithBaseURLs(server.URL, "", ""))

	videos, err := client.ChannelVideos(context.Background(), "@Example")
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "vid1", videos[0].VideoID)
	assert.Equal(t, "Episode 1", videos[0].Title)
	assert.Equal(t, "@Example", videos[0].ChannelHandle)
	assert.Equal(t, "UCabc", videos[0].ChannelID)
	assert.Equal(t, "UUabc", videos[0].UploadsPlaylistID)
	assert.Equal(t, "vid2", videos[1].VideoID)
}

func TestChannelVideosNoChannel(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})

	client := NewClient("test-key", discardLogger(), WithBaseURLs(server.URL, "", ""))

	_, err := client.ChannelVideos(context.Background(), "@Nobody")
	assert.ErrorContains(t, err, "no channel found")
}

func TestGetJSONSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quotaExceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("test-key", discardLogger(), WithBaseURLs(server.URL, "", ""))

	_, err := client.ChannelVideos(context.Background(), "@Example")
	assert.ErrorContains(t, err, "http 403")
}
