// Package youtube implements video publishing via the YouTube Data API v3
// resumable upload: metadata is submitted first to obtain a session URL, then
// the raw video bytes are PUT to that URL.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/common"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"

	"golang.org/x/oauth2"
)

const (
	apiURL       = "https://www.googleapis.com/youtube/v3"
	uploadURL    = "https://www.googleapis.com/upload/youtube/v3"
	platformName = "youtube"

	defaultCategoryID = "22" // People & Blogs
	maxTitleLength    = 100
)

type Client struct {
	mu            sync.Mutex
	accessToken   string
	apiKey        string
	channelID     string
	authenticated bool
	api           *http.Client

	media         *http.Client
	apiBaseURL    string
	uploadBaseURL string
}

func NewClient(cfg configuration.YouTube) repository.IPlatformPoster {
	return &Client{
		accessToken:   cfg.AccessToken,
		apiKey:        cfg.APIKey,
		media:         common.NewMediaClient(),
		apiBaseURL:    apiURL,
		uploadBaseURL: uploadURL,
	}
}

func (c *Client) Name() string { return platformName }

func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := creds.AccessToken
	if token == "" {
		token = c.accessToken
	}
	if creds.APIKey != "" {
		c.apiKey = creds.APIKey
	}
	if token == "" {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"access_token"}}
	}

	api := newBearerClient(token)
	status, body, err := common.Get(ctx, api, c.apiBaseURL+"/channels", channelParams{Part: "snippet,contentDetails,statistics", Mine: true}, nil)
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("youtube identity check: %w", err)
	}
	if status != http.StatusOK {
		c.authenticated = false
		return model.AuthResult{}, common.AuthError(platformName, status, body)
	}

	var res struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("youtube identity response: %w", err)
	}
	if len(res.Items) == 0 {
		c.authenticated = false
		return model.AuthResult{}, errors.New("no YouTube channel found for these credentials")
	}

	channel := res.Items[0]
	c.accessToken = token
	c.channelID = channel.ID
	c.api = api
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"channel_id":       channel.ID,
			"channel_title":    channel.Snippet.Title,
			"subscriber_count": channel.Statistics.SubscriberCount,
		},
	}, nil
}

type channelParams struct {
	Part string `url:"part"`
	Mine bool   `url:"mine"`
}

type videoMetadata struct {
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CategoryID  string   `json:"categoryId"`
		Tags        []string `json:"tags"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus           string `json:"privacyStatus"`
		PublishAt               string `json:"publishAt,omitempty"`
		SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
	} `json:"status"`
}

// CreatePost uploads one video. The first line of text becomes the title
// (clipped to the 100-character API limit), the remainder the description.
// A schedule time forces the video private with a publishAt timestamp.
func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	api, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	if len(mediaURLs) == 0 {
		return model.PostResult{}, errors.New("youtube requires a video URL")
	}
	videoURL := mediaURLs[0]
	if !common.IsVideoURL(videoURL) {
		return model.PostResult{}, errors.New("youtube requires the media URL to be a video")
	}

	title, description := splitTitle(text)

	data, _, err := common.FetchMedia(ctx, c.media, platformName, videoURL)
	if err != nil {
		return model.PostResult{}, err
	}

	var meta videoMetadata
	meta.Snippet.Title = title
	meta.Snippet.Description = description
	meta.Snippet.CategoryID = defaultCategoryID
	meta.Snippet.Tags = []string{}
	meta.Status.PrivacyStatus = "public"
	if scheduleTime != "" {
		meta.Status.PrivacyStatus = "private"
		meta.Status.PublishAt = scheduleTime
	}

	sessionURL, err := c.initiateUpload(ctx, api, meta)
	if err != nil {
		return model.PostResult{}, err
	}

	videoID, err := c.completeUpload(ctx, sessionURL, data)
	if err != nil {
		return model.PostResult{}, err
	}

	logger.GetLogger().WithField("video_id", videoID).Info("Uploaded to YouTube")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   videoID,
		Message:  "Successfully posted to youtube",
	}, nil
}

// initiateUpload starts the resumable upload and returns the session URL
// from the Location header.
func (c *Client) initiateUpload(ctx context.Context, api *http.Client, meta videoMetadata) (string, error) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("youtube metadata encode: %w", err)
	}

	endpoint := c.uploadBaseURL + "/videos?uploadType=resumable&part=snippet%2Cstatus"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("youtube upload initiation: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Type", "video/*")

	resp, err := api.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube upload initiation: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !common.OK(resp.StatusCode) {
		return "", common.APIError(platformName, "upload initiation", resp.StatusCode, body)
	}

	sessionURL := resp.Header.Get("Location")
	if sessionURL == "" {
		return "", errors.New("youtube upload initiation returned no session URL")
	}
	return sessionURL, nil
}

func (c *Client) completeUpload(ctx context.Context, sessionURL string, data []byte) (string, error) {
	status, body, err := common.Put(ctx, c.media, sessionURL, data, "video/*")
	if err != nil {
		return "", fmt.Errorf("youtube upload completion: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "upload completion", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("youtube upload response: %w", err)
	}
	return res.ID, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	api := c.api
	authenticated := c.authenticated
	c.mu.Unlock()

	if authenticated && api != nil {
		return api, nil
	}
	if _, err := c.Authenticate(ctx, model.Credentials{}); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.api, nil
}

// newBearerClient wraps the bounded-timeout API client with an oauth2 static
// token source so every request carries the bearer token.
func newBearerClient(token string) *http.Client {
	base := common.NewAPIClient()
	cctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(cctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = base.Timeout
	return client
}

func splitTitle(text string) (title, description string) {
	parts := strings.SplitN(text, "\n", 2)
	title = parts[0]
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength])
	}
	if len(parts) > 1 {
		description = parts[1]
	} else {
		description = text
	}
	return title, description
}
