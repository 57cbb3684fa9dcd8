// Package threads implements posting to Threads via its Graph API. Like
// Instagram, publishing is container-create followed by container-publish;
// unlike Instagram, text-only posts are allowed.
package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/common"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"
)

const (
	graphAPIURL  = "https://graph.threads.net/v1.0"
	platformName = "threads"
)

type Client struct {
	mu            sync.Mutex
	accessToken   string
	userID        string
	authenticated bool

	api     *http.Client
	baseURL string
}

func NewClient(cfg configuration.Threads) repository.IPlatformPoster {
	return &Client{
		accessToken: cfg.AccessToken,
		userID:      cfg.UserID,
		api:         common.NewAPIClient(),
		baseURL:     graphAPIURL,
	}
}

func (c *Client) Name() string { return platformName }

type profileParams struct {
	Fields      string `url:"fields"`
	AccessToken string `url:"access_token"`
}

func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := creds.AccessToken
	if token == "" {
		token = c.accessToken
	}
	if userID := creds.Param("threads_user_id"); userID != "" {
		c.userID = userID
	}
	if token == "" || c.userID == "" {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"access_token", "threads_user_id"}}
	}

	params := profileParams{Fields: "id,username,threads_profile_picture_url", AccessToken: token}
	status, body, err := common.Get(ctx, c.api, c.baseURL+"/"+c.userID, params, nil)
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("threads identity check: %w", err)
	}
	if status != http.StatusOK {
		c.authenticated = false
		return model.AuthResult{}, common.AuthError(platformName, status, body)
	}

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("threads identity response: %w", err)
	}

	c.accessToken = token
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"user_id":  user.ID,
			"username": user.Username,
		},
	}, nil
}

// CreatePost publishes text with at most one media item (first URL wins).
// Scheduling is not supported by the Threads API and is ignored.
func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	token, userID, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	containerID, err := c.createMediaContainer(ctx, token, userID, text, mediaURLs)
	if err != nil {
		return model.PostResult{}, err
	}

	postID, err := c.publishContainer(ctx, token, userID, containerID)
	if err != nil {
		return model.PostResult{}, err
	}

	logger.GetLogger().WithField("post_id", postID).Info("Posted to Threads")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   postID,
		Message:  "Successfully posted to threads",
	}, nil
}

func (c *Client) createMediaContainer(ctx context.Context, token, userID, text string, mediaURLs []string) (string, error) {
	form := url.Values{}
	form.Set("media_type", "TEXT")
	form.Set("text", text)
	form.Set("access_token", token)

	if len(mediaURLs) > 0 {
		mediaURL := mediaURLs[0]
		if common.IsVideoURL(mediaURL) {
			form.Set("media_type", "VIDEO")
			form.Set("video_url", mediaURL)
		} else {
			form.Set("media_type", "IMAGE")
			form.Set("image_url", mediaURL)
		}
	}

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+userID+"/threads", form)
	if err != nil {
		return "", fmt.Errorf("threads container creation: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "container creation", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("threads container response: %w", err)
	}
	return res.ID, nil
}

func (c *Client) publishContainer(ctx context.Context, token, userID, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", token)

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+userID+"/threads_publish", form)
	if err != nil {
		return "", fmt.Errorf("threads container publish: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "container publish", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("threads publish response: %w", err)
	}
	return res.ID, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (token, userID string, err error) {
	c.mu.Lock()
	authenticated := c.authenticated
	c.mu.Unlock()

	if !authenticated {
		if _, err := c.Authenticate(ctx, model.Credentials{}); err != nil {
			return "", "", err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.userID, nil
}
