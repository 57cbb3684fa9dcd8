// Package instagram implements posting to Instagram Business/Creator accounts
// via the Instagram Graph API. Publishing is a two-step flow: create a media
// container, then publish it.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
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
	graphAPIURL  = "https://graph.facebook.com/v18.0"
	platformName = "instagram"
)

type Client struct {
	mu            sync.Mutex
	accessToken   string
	accountID     string
	authenticated bool

	api     *http.Client
	baseURL string
}

func NewClient(cfg configuration.Instagram) repository.IPlatformPoster {
	return &Client{
		accessToken: cfg.AccessToken,
		accountID:   cfg.AccountID,
		api:         common.NewAPIClient(),
		baseURL:     graphAPIURL,
	}
}

func (c *Client) Name() string { return platformName }

type accountParams struct {
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
	if accountID := creds.Param("instagram_account_id"); accountID != "" {
		c.accountID = accountID
	}
	if token == "" || c.accountID == "" {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"access_token", "instagram_account_id"}}
	}

	params := accountParams{Fields: "id,username,account_type", AccessToken: token}
	status, body, err := common.Get(ctx, c.api, c.baseURL+"/"+c.accountID, params, nil)
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("instagram identity check: %w", err)
	}
	if status != http.StatusOK {
		c.authenticated = false
		return model.AuthResult{}, common.AuthError(platformName, status, body)
	}

	var account struct {
		ID          string `json:"id"`
		Username    string `json:"username"`
		AccountType string `json:"account_type"`
	}
	if err := json.Unmarshal(body, &account); err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("instagram identity response: %w", err)
	}

	c.accessToken = token
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"account_id":   account.ID,
			"username":     account.Username,
			"account_type": account.AccountType,
		},
	}, nil
}

// CreatePost publishes the first media URL with the text as caption. The
// schedule_time field is not supported by the container flow and is ignored.
func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	token, accountID, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	if len(mediaURLs) == 0 {
		return model.PostResult{}, errors.New("instagram requires at least one media URL")
	}

	containerID, err := c.createMediaContainer(ctx, token, accountID, text, mediaURLs[0])
	if err != nil {
		return model.PostResult{}, err
	}

	postID, err := c.publishMediaContainer(ctx, token, accountID, containerID)
	if err != nil {
		return model.PostResult{}, err
	}

	logger.GetLogger().WithField("post_id", postID).Info("Posted to Instagram")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   postID,
		Message:  "Successfully posted to instagram",
	}, nil
}

func (c *Client) createMediaContainer(ctx context.Context, token, accountID, caption, mediaURL string) (string, error) {
	form := url.Values{}
	form.Set("caption", caption)
	form.Set("access_token", token)
	if common.IsVideoURL(mediaURL) {
		form.Set("media_type", "VIDEO")
		form.Set("video_url", mediaURL)
	} else {
		form.Set("image_url", mediaURL)
	}

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+accountID+"/media", form)
	if err != nil {
		return "", fmt.Errorf("instagram container creation: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "container creation", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("instagram container response: %w", err)
	}
	return res.ID, nil
}

func (c *Client) publishMediaContainer(ctx context.Context, token, accountID, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", token)

	status, body, err := common.PostForm(ctx, c.api, c.baseURL+"/"+accountID+"/media_publish", form)
	if err != nil {
		return "", fmt.Errorf("instagram container publish: %w", err)
	}
	if !common.OK(status) {
		return "", common.APIError(platformName, "container publish", status, body)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("instagram publish response: %w", err)
	}
	return res.ID, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (token, accountID string, err error) {
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
	return c.accessToken, c.accountID, nil
}
