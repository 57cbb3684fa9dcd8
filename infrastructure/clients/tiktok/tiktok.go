// Package tiktok implements video posting via the TikTok Content Posting API.
// The flow is: init an inbox upload to obtain an upload URL and publish id,
// download the source video and PUT it to the upload URL, then submit the
// publish request with the post metadata.
package tiktok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/common"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"
)

const (
	apiURL       = "https://open.tiktokapis.com/v2"
	platformName = "tiktok"

	uploadChunkSize = 10_000_000
)

type Client struct {
	mu            sync.Mutex
	accessToken   string
	clientKey     string
	clientSecret  string
	authenticated bool

	api     *http.Client
	media   *http.Client
	baseURL string
}

func NewClient(cfg configuration.TikTok) repository.IPlatformPoster {
	return &Client{
		accessToken:  cfg.AccessToken,
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		api:          common.NewAPIClient(),
		media:        common.NewMediaClient(),
		baseURL:      apiURL,
	}
}

func (c *Client) Name() string { return platformName }

type userInfoParams struct {
	Fields string `url:"fields"`
}

func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := creds.AccessToken
	if token == "" {
		token = c.accessToken
	}
	if creds.APIKey != "" {
		c.clientKey = creds.APIKey
	}
	if creds.APISecret != "" {
		c.clientSecret = creds.APISecret
	}
	if token == "" {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"access_token"}}
	}

	params := userInfoParams{Fields: "open_id,union_id,avatar_url,display_name"}
	status, body, err := common.Get(ctx, c.api, c.baseURL+"/user/info/", params, common.BearerHeader(token))
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("tiktok identity check: %w", err)
	}
	if status != http.StatusOK {
		c.authenticated = false
		return model.AuthResult{}, common.AuthError(platformName, status, body)
	}

	var res struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				DisplayName string `json:"display_name"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("tiktok identity response: %w", err)
	}

	c.accessToken = token
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"open_id":      res.Data.User.OpenID,
			"display_name": res.Data.User.DisplayName,
		},
	}, nil
}

func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	token, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	if len(mediaURLs) == 0 {
		return model.PostResult{}, errors.New("tiktok requires a video URL")
	}
	videoURL := mediaURLs[0]
	if !common.IsVideoURL(videoURL) {
		return model.PostResult{}, errors.New("tiktok requires the media URL to be a video")
	}

	uploadURL, publishID, err := c.initializeUpload(ctx, token)
	if err != nil {
		return model.PostResult{}, err
	}

	if err := c.uploadVideo(ctx, uploadURL, videoURL); err != nil {
		return model.PostResult{}, err
	}

	postID, err := c.publishVideo(ctx, token, publishID, text, scheduleTime)
	if err != nil {
		return model.PostResult{}, err
	}

	logger.GetLogger().WithField("publish_id", postID).Info("Posted to TikTok")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   postID,
		Message:  "Successfully posted to tiktok",
	}, nil
}

func (c *Client) initializeUpload(ctx context.Context, token string) (uploadURL, publishID string, err error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"source_info": map[string]interface{}{
			"source":            "FILE_UPLOAD",
			"video_size":        0,
			"chunk_size":        uploadChunkSize,
			"total_chunk_count": 1,
		},
	})

	status, body, err := common.PostJSON(ctx, c.api, c.baseURL+"/post/publish/inbox/video/init/", payload, common.BearerHeader(token))
	if err != nil {
		return "", "", fmt.Errorf("tiktok upload init: %w", err)
	}
	if !common.OK(status) {
		return "", "", common.APIError(platformName, "upload init", status, body)
	}

	var res struct {
		Data struct {
			UploadURL string `json:"upload_url"`
			PublishID string `json:"publish_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", "", fmt.Errorf("tiktok upload init response: %w", err)
	}
	return res.Data.UploadURL, res.Data.PublishID, nil
}

// uploadVideo downloads the source video and re-uploads the bytes to the
// provider-issued upload URL.
func (c *Client) uploadVideo(ctx context.Context, uploadURL, videoURL string) error {
	data, _, err := common.FetchMedia(ctx, c.media, platformName, videoURL)
	if err != nil {
		return err
	}

	status, body, err := common.Put(ctx, c.media, uploadURL, data, "video/mp4")
	if err != nil {
		return fmt.Errorf("tiktok video upload: %w", err)
	}
	if !common.OK(status) {
		return common.APIError(platformName, "video upload", status, body)
	}
	return nil
}

func (c *Client) publishVideo(ctx context.Context, token, publishID, caption, scheduleTime string) (string, error) {
	postInfo := map[string]interface{}{
		"title":                    caption,
		"privacy_level":            "PUBLIC_TO_EVERYONE",
		"disable_duet":             false,
		"disable_comment":          false,
		"disable_stitch":           false,
		"video_cover_timestamp_ms": 1000,
	}
	if scheduleTime != "" {
		ts, err := strconv.ParseInt(scheduleTime, 10, 64)
		if err != nil {
			return "", fmt.Errorf("tiktok schedule_time must be a unix timestamp: %w", err)
		}
		postInfo["post_mode"] = "SCHEDULED"
		postInfo["schedule_time"] = ts
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"post_info": postInfo,
		"source_info": map[string]interface{}{
			"source":     "FILE_UPLOAD",
			"publish_id": publishID,
		},
	})

	status, body, err := common.PostJSON(ctx, c.api, c.baseURL+"/post/publish/video/init/", payload, common.BearerHeader(token))
	if err != nil {
		return "", fmt.Errorf("tiktok video publish: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "video publish", status, body)
	}

	var res struct {
		Data struct {
			PublishID string `json:"publish_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("tiktok publish response: %w", err)
	}
	return res.Data.PublishID, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (string, error) {
	c.mu.Lock()
	authenticated := c.authenticated
	c.mu.Unlock()

	if !authenticated {
		if _, err := c.Authenticate(ctx, model.Credentials{}); err != nil {
			return "", err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, nil
}
