// Package facebook implements posting to Facebook Pages and Profiles via the
// Graph API.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/common"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"
)

const (
	graphAPIURL  = "https://graph.facebook.com/v18.0"
	platformName = "facebook"
)

type Client struct {
	mu            sync.Mutex
	accessToken   string
	pageID        string
	authenticated bool

	api     *http.Client
	baseURL string
}

// NewClient constructs the Facebook poster from configuration. Credentials
// can be refreshed later through Authenticate.
func NewClient(cfg configuration.Facebook) repository.IPlatformPoster {
	return &Client{
		accessToken: cfg.AccessToken,
		pageID:      cfg.PageID,
		api:         common.NewAPIClient(),
		baseURL:     graphAPIURL,
	}
}

func (c *Client) Name() string { return platformName }

type meParams struct {
	AccessToken string `url:"access_token"`
}

func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := creds.AccessToken
	if token == "" {
		token = c.accessToken
	}
	if pageID := creds.Param("page_id"); pageID != "" {
		c.pageID = pageID
	}
	if token == "" {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"access_token"}}
	}

	status, body, err := common.Get(ctx, c.api, c.baseURL+"/me", meParams{AccessToken: token}, nil)
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("facebook identity check: %w", err)
	}
	if status != http.StatusOK {
		c.authenticated = false
		return model.AuthResult{}, common.AuthError(platformName, status, body)
	}

	var user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("facebook identity response: %w", err)
	}

	c.accessToken = token
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"user_id":   user.ID,
			"user_name": user.Name,
		},
	}, nil
}

func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	token, pageID, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	endpoint := "me/feed"
	if pageID != "" {
		endpoint = pageID + "/feed"
	}

	form := url.Values{}
	form.Set("message", text)
	form.Set("access_token", token)

	if len(mediaURLs) == 1 {
		form.Set("link", mediaURLs[0])
	} else if len(mediaURLs) > 1 {
		// Multiple media: upload each as an unpublished photo, then attach
		// the resulting ids to the feed post.
		for i, mediaURL := range mediaURLs {
			photoID, err := c.uploadPhoto(ctx, token, pageID, mediaURL)
			if err != nil {
				return model.PostResult{}, err
			}
			form.Set(fmt.Sprintf("attached_media[%d]", i), fmt.Sprintf(`{"media_fbid":"%s"}`, photoID))
		}
	}

	if scheduleTime != "" {
		form.Set("published", "false")
		form.Set("scheduled_publish_time", scheduleTime)
	}

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+endpoint, form)
	if err != nil {
		return model.PostResult{}, fmt.Errorf("facebook feed post: %w", err)
	}
	if !common.OK(status) {
		return model.PostResult{}, common.APIError(platformName, "feed post", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return model.PostResult{}, fmt.Errorf("facebook feed response: %w", err)
	}

	logger.GetLogger().WithField("post_id", res.ID).Info("Posted to Facebook")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   res.ID,
		Message:  "Successfully posted to facebook",
	}, nil
}

// uploadPhoto stages one photo unpublished and returns its id.
func (c *Client) uploadPhoto(ctx context.Context, token, pageID, photoURL string) (string, error) {
	endpoint := "me/photos"
	if pageID != "" {
		endpoint = pageID + "/photos"
	}

	form := url.Values{}
	form.Set("url", photoURL)
	form.Set("published", strconv.FormatBool(false))
	form.Set("access_token", token)

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+endpoint, form)
	if err != nil {
		return "", fmt.Errorf("facebook photo upload: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "photo upload", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("facebook photo response: %w", err)
	}
	return res.ID, nil
}

// ensureAuthenticated authenticates from stored credentials when needed and
// returns a consistent token/page snapshot for the publish sequence.
func (c *Client) ensureAuthenticated(ctx context.Context) (token, pageID string, err error) {
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
	return c.accessToken, c.pageID, nil
}
