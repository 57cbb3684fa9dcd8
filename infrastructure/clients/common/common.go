// Package common holds the HTTP plumbing shared by the platform clients:
// bounded-timeout clients, request helpers, media download, and provider
// error translation.
package common

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"social-poster/domain/model"

	"github.com/google/go-querystring/query"
)

const (
	apiTimeout   = 30 * time.Second
	mediaTimeout = 60 * time.Second
)

// NewAPIClient returns the client used for provider API calls.
func NewAPIClient() *http.Client {
	return &http.Client{Timeout: apiTimeout}
}

// NewMediaClient returns the client used for media downloads and raw byte
// uploads, which can be much larger than API calls.
func NewMediaClient() *http.Client {
	return &http.Client{Timeout: mediaTimeout}
}

// IsVideoURL reports whether the URL points at a video, judged by suffix the
// same way the Graph-style APIs expect (.mp4/.mov/.avi).
func IsVideoURL(mediaURL string) bool {
	u := strings.ToLower(mediaURL)
	return strings.HasSuffix(u, ".mp4") || strings.HasSuffix(u, ".mov") || strings.HasSuffix(u, ".avi")
}

// ValidMediaURL reports whether the URL is usable as caller-supplied media.
func ValidMediaURL(mediaURL string) bool {
	return strings.HasPrefix(mediaURL, "http://") || strings.HasPrefix(mediaURL, "https://")
}

// FetchMedia downloads caller-supplied media so the bytes can be re-uploaded
// to a provider. A non-200 response or transport failure becomes a
// MediaFetchFailedError.
func FetchMedia(ctx context.Context, client *http.Client, platform, mediaURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", model.MediaFetchFailedError{Platform: platform, URL: mediaURL, Reason: err.Error()}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", model.MediaFetchFailedError{Platform: platform, URL: mediaURL, Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", model.MediaFetchFailedError{Platform: platform, URL: mediaURL, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", model.MediaFetchFailedError{Platform: platform, URL: mediaURL, Reason: err.Error()}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// Get performs a GET with query parameters encoded from a go-querystring
// tagged struct.
func Get(ctx context.Context, client *http.Client, endpoint string, params interface{}, header http.Header) (int, []byte, error) {
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return 0, nil, err
		}
		if encoded := values.Encode(); encoded != "" {
			sep := "?"
			if strings.Contains(endpoint, "?") {
				sep = "&"
			}
			endpoint += sep + encoded
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	applyHeader(req, header)
	return do(client, req)
}

// PostForm performs an application/x-www-form-urlencoded POST.
func PostForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(client, req)
}

// PostJSON performs a POST with a JSON body.
func PostJSON(ctx context.Context, client *http.Client, endpoint string, body []byte, header http.Header) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	applyHeader(req, header)
	return do(client, req)
}

// Put uploads raw bytes, used for provider upload-session URLs.
func Put(ctx context.Context, client *http.Client, endpoint string, data []byte, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return do(client, req)
}

// OK reports whether the status is an acceptable success for publish steps.
func OK(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated || status == http.StatusNoContent
}

// APIError builds a PlatformAPIError from a failed provider response.
func APIError(platform, step string, status int, body []byte) error {
	return model.PlatformAPIError{Platform: platform, Step: step, Status: status, Body: string(body)}
}

// AuthError builds an AuthenticationFailedError from a failed identity call.
func AuthError(platform string, status int, body []byte) error {
	return model.AuthenticationFailedError{Platform: platform, Status: status, Body: string(body)}
}

func applyHeader(req *http.Request, header http.Header) {
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}
}

func do(client *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// BearerHeader builds an Authorization header for token-based APIs.
func BearerHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
