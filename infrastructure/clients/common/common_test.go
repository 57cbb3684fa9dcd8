package common

import (
	"context"
	"net/http"
	"testing"

	"social-poster/domain/model"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideoURL(t *testing.T) {
	assert.True(t, IsVideoURL("https://example.com/clip.mp4"))
	assert.True(t, IsVideoURL("https://example.com/clip.MP4"))
	assert.True(t, IsVideoURL("https://example.com/clip.mov"))
	assert.True(t, IsVideoURL("https://example.com/clip.avi"))
	assert.False(t, IsVideoURL("https://example.com/pic.jpg"))
	assert.False(t, IsVideoURL("https://example.com/clip.mp4.jpg"))
}

func TestValidMediaURL(t *testing.T) {
	assert.True(t, ValidMediaURL("https://example.com/a.jpg"))
	assert.True(t, ValidMediaURL("http://example.com/a.jpg"))
	assert.False(t, ValidMediaURL("ftp://example.com/a.jpg"))
	assert.False(t, ValidMediaURL("/local/a.jpg"))
}

func TestFetchMedia_Success(t *testing.T) {
	client := NewMediaClient()
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/clip.mp4",
		httpmock.NewStringResponder(http.StatusOK, "video-bytes").HeaderSet(http.Header{"Content-Type": []string{"video/mp4"}}))

	data, contentType, err := FetchMedia(context.Background(), client, "tiktok", "https://example.com/clip.mp4")

	require.NoError(t, err)
	assert.Equal(t, []byte("video-bytes"), data)
	assert.Equal(t, "video/mp4", contentType)
}

func TestFetchMedia_NotFound(t *testing.T) {
	client := NewMediaClient()
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/gone.mp4",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	_, _, err := FetchMedia(context.Background(), client, "tiktok", "https://example.com/gone.mp4")

	var fetchErr model.MediaFetchFailedError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Equal(t, "https://example.com/gone.mp4", fetchErr.URL)
}

type pageParams struct {
	Limit int    `url:"limit"`
	After string `url:"after,omitempty"`
}

func TestGet_EncodesParams(t *testing.T) {
	client := NewAPIClient()
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.example\.com/items`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "10", req.URL.Query().Get("limit"))
			assert.Equal(t, "cursor", req.URL.Query().Get("after"))
			assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	status, body, err := Get(context.Background(), client, "https://api.example.com/items", pageParams{Limit: 10, After: "cursor"}, BearerHeader("tok"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte(`{}`), body)
}

func TestOK(t *testing.T) {
	assert.True(t, OK(http.StatusOK))
	assert.True(t, OK(http.StatusCreated))
	assert.True(t, OK(http.StatusNoContent))
	assert.False(t, OK(http.StatusBadRequest))
	assert.False(t, OK(http.StatusInternalServerError))
}
