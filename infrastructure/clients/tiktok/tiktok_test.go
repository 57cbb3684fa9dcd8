package tiktok

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"social-poster/domain/model"
	"social-poster/infrastructure/configuration"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg configuration.TikTok) *Client {
	t.Helper()
	c := NewClient(cfg).(*Client)
	httpmock.ActivateNonDefault(c.api)
	httpmock.ActivateNonDefault(c.media)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func registerUserInfo() {
	httpmock.RegisterResponder(http.MethodGet, `=~^https://open\.tiktokapis\.com/v2/user/info/`,
		httpmock.NewStringResponder(http.StatusOK, `{"data":{"user":{"open_id":"open-1","display_name":"creator"}}}`))
}

func TestTikTokAuthenticate_Success(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	res, err := c.Authenticate(context.Background(), model.Credentials{})

	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "open-1", res.Details["open_id"])
	assert.Equal(t, "creator", res.Details["display_name"])
}

func TestTikTokAuthenticate_SendsBearer(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})

	httpmock.RegisterResponder(http.MethodGet, `=~^https://open\.tiktokapis\.com/v2/user/info/`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer tt-token", req.Header.Get("Authorization"))
			assert.Equal(t, "open_id,union_id,avatar_url,display_name", req.URL.Query().Get("fields"))
			return httpmock.NewStringResponse(http.StatusOK, `{"data":{"user":{}}}`), nil
		})

	_, err := c.Authenticate(context.Background(), model.Credentials{})
	require.NoError(t, err)
}

func TestTikTokCreatePost_RequiresVideo(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	_, err := c.CreatePost(context.Background(), "caption", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a video URL")

	_, err = c.CreatePost(context.Background(), "caption", []string{"https://example.com/pic.jpg"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a video")
}

func TestTikTokCreatePost_FullFlow(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/",
		func(req *http.Request) (*http.Response, error) {
			var payload struct {
				SourceInfo struct {
					Source          string `json:"source"`
					ChunkSize       int    `json:"chunk_size"`
					TotalChunkCount int    `json:"total_chunk_count"`
				} `json:"source_info"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "FILE_UPLOAD", payload.SourceInfo.Source)
			assert.Equal(t, 1, payload.SourceInfo.TotalChunkCount)
			return httpmock.NewStringResponse(http.StatusOK,
				`{"data":{"upload_url":"https://upload.tiktokapis.com/video/abc","publish_id":"pub-1"}}`), nil
		})
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/dance.mp4",
		httpmock.NewStringResponder(http.StatusOK, "video-bytes"))
	httpmock.RegisterResponder(http.MethodPut, "https://upload.tiktokapis.com/video/abc",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			assert.Equal(t, "video-bytes", string(body))
			assert.Equal(t, "video/mp4", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})
	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/video/init/",
		func(req *http.Request) (*http.Response, error) {
			var payload struct {
				PostInfo struct {
					Title        string `json:"title"`
					PrivacyLevel string `json:"privacy_level"`
				} `json:"post_info"`
				SourceInfo struct {
					PublishID string `json:"publish_id"`
				} `json:"source_info"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "dance video", payload.PostInfo.Title)
			assert.Equal(t, "PUBLIC_TO_EVERYONE", payload.PostInfo.PrivacyLevel)
			assert.Equal(t, "pub-1", payload.SourceInfo.PublishID)
			return httpmock.NewStringResponse(http.StatusOK, `{"data":{"publish_id":"pub-1"}}`), nil
		})

	result, err := c.CreatePost(context.Background(), "dance video", []string{"https://example.com/dance.mp4"}, "")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "tiktok", result.Platform)
	assert.Equal(t, "pub-1", result.PostID)
	assert.Equal(t, "Successfully posted to tiktok", result.Message)
}

func TestTikTokCreatePost_Scheduled(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/",
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":{"upload_url":"https://upload.tiktokapis.com/video/abc","publish_id":"pub-2"}}`))
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/later.mp4",
		httpmock.NewStringResponder(http.StatusOK, "bytes"))
	httpmock.RegisterResponder(http.MethodPut, "https://upload.tiktokapis.com/video/abc",
		httpmock.NewStringResponder(http.StatusOK, ""))
	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/video/init/",
		func(req *http.Request) (*http.Response, error) {
			var payload struct {
				PostInfo struct {
					PostMode     string `json:"post_mode"`
					ScheduleTime int64  `json:"schedule_time"`
				} `json:"post_info"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, "SCHEDULED", payload.PostInfo.PostMode)
			assert.Equal(t, int64(1735689600), payload.PostInfo.ScheduleTime)
			return httpmock.NewStringResponse(http.StatusOK, `{"data":{"publish_id":"pub-2"}}`), nil
		})

	result, err := c.CreatePost(context.Background(), "later", []string{"https://example.com/later.mp4"}, "1735689600")

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestTikTokCreatePost_BadScheduleTime(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/",
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":{"upload_url":"https://upload.tiktokapis.com/video/abc","publish_id":"pub-3"}}`))
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/x.mp4",
		httpmock.NewStringResponder(http.StatusOK, "bytes"))
	httpmock.RegisterResponder(http.MethodPut, "https://upload.tiktokapis.com/video/abc",
		httpmock.NewStringResponder(http.StatusOK, ""))

	_, err := c.CreatePost(context.Background(), "x", []string{"https://example.com/x.mp4"}, "tomorrow")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unix timestamp")
}

func TestTikTokCreatePost_MediaFetchFails(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/",
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":{"upload_url":"https://upload.tiktokapis.com/video/abc","publish_id":"pub-4"}}`))
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/gone.mp4",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	_, err := c.CreatePost(context.Background(), "x", []string{"https://example.com/gone.mp4"}, "")

	var fetchErr model.MediaFetchFailedError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "tiktok", fetchErr.Platform)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestTikTokCreatePost_UploadInitRejected(t *testing.T) {
	c := newTestClient(t, configuration.TikTok{AccessToken: "tt-token"})
	registerUserInfo()

	httpmock.RegisterResponder(http.MethodPost, "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/",
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{"error":{"code":"rate_limit_exceeded"}}`))

	_, err := c.CreatePost(context.Background(), "x", []string{"https://example.com/x.mp4"}, "")

	var apiErr model.PlatformAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upload init", apiErr.Step)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}
