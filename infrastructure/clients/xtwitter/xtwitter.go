// Package xtwitter implements posting to X (Twitter) via the v2 API using
// gotwi. Media is downloaded from the caller-supplied URLs and pushed through
// the chunked INIT/APPEND/FINALIZE upload before the tweet is created.
package xtwitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/common"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"

	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/media/upload"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/resources"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"
	"github.com/michimani/gotwi/user/userlookup"
	userlookuptypes "github.com/michimani/gotwi/user/userlookup/types"
)

const (
	platformName  = "x"
	maxMediaItems = 4
)

type Client struct {
	mu                sync.Mutex
	apiKey            string
	apiSecret         string
	accessToken       string
	accessTokenSecret string
	bearerToken       string
	authenticated     bool
	api               *gotwi.Client

	httpClient *http.Client
	media      *http.Client
}

func NewClient(cfg configuration.X) repository.IPlatformPoster {
	return &Client{
		apiKey:            cfg.APIKey,
		apiSecret:         cfg.APISecret,
		accessToken:       cfg.AccessToken,
		accessTokenSecret: cfg.AccessTokenSecret,
		bearerToken:       cfg.BearerToken,
		httpClient:        common.NewAPIClient(),
		media:             common.NewMediaClient(),
	}
}

func (c *Client) Name() string { return platformName }

func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if creds.AccessToken != "" {
		c.accessToken = creds.AccessToken
	}
	if creds.APIKey != "" {
		c.apiKey = creds.APIKey
	}
	if creds.APISecret != "" {
		c.apiSecret = creds.APISecret
	}
	if v := creds.Param("access_token_secret"); v != "" {
		c.accessTokenSecret = v
	}
	if v := creds.Param("bearer_token"); v != "" {
		c.bearerToken = v
	}

	if c.bearerToken == "" && (c.accessToken == "" || c.accessTokenSecret == "") {
		c.authenticated = false
		return model.AuthResult{}, model.MissingCredentialsError{Platform: platformName, Missing: []string{"bearer_token or access_token + access_token_secret"}}
	}

	api, err := c.newGotwiClient()
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, fmt.Errorf("x client setup: %w", err)
	}

	me, err := userlookup.GetMe(ctx, api, &userlookuptypes.GetMeInput{})
	if err != nil {
		c.authenticated = false
		return model.AuthResult{}, model.AuthenticationFailedError{Platform: platformName, Body: unwrapGotwiError(err).Error()}
	}

	c.api = api
	c.authenticated = true
	return model.AuthResult{
		Authenticated: true,
		Details: map[string]interface{}{
			"user_id":  strVal(me.Data.ID),
			"username": strVal(me.Data.Username),
			"name":     strVal(me.Data.Name),
		},
	}, nil
}

// CreatePost publishes a tweet with up to four media attachments. The X v2
// API has no scheduling support, so scheduleTime is ignored.
func (c *Client) CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	api, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return model.PostResult{}, err
	}

	var mediaIDs []string
	if len(mediaURLs) > maxMediaItems {
		mediaURLs = mediaURLs[:maxMediaItems]
	}
	for _, mediaURL := range mediaURLs {
		mediaID, err := c.uploadMedia(ctx, api, mediaURL)
		if err != nil {
			return model.PostResult{}, err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	input := &managetweettypes.CreateInput{Text: gotwi.String(text)}
	if len(mediaIDs) > 0 {
		input.Media = &managetweettypes.CreateInputMedia{MediaIDs: mediaIDs}
	}

	res, err := managetweet.Create(ctx, api, input)
	if err != nil {
		return model.PostResult{}, model.PlatformAPIError{Platform: platformName, Step: "tweet creation", Body: unwrapGotwiError(err).Error()}
	}

	postID := strVal(res.Data.ID)
	logger.GetLogger().WithField("tweet_id", postID).Info("Posted to X")
	return model.PostResult{
		Success:  true,
		Platform: platformName,
		PostID:   postID,
		Message:  "Successfully posted to x",
	}, nil
}

// uploadMedia downloads one media URL and runs it through the chunked upload,
// returning the provider media id.
func (c *Client) uploadMedia(ctx context.Context, api *gotwi.Client, mediaURL string) (string, error) {
	data, contentType, err := common.FetchMedia(ctx, c.media, platformName, mediaURL)
	if err != nil {
		return "", err
	}

	mediaType, category := resolveMediaType(mediaURL, contentType)

	initRes, err := upload.Initialize(ctx, api, &uploadtypes.InitializeInput{
		MediaType:     mediaType,
		TotalBytes:    len(data),
		MediaCategory: category,
	})
	if err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media init", Body: unwrapGotwiError(err).Error()}
	}
	if err := partialError(initRes.Errors); err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media init", Body: err.Error()}
	}
	mediaID := initRes.Data.MediaID

	appendIn := &uploadtypes.AppendInput{
		MediaID:      mediaID,
		Media:        bytes.NewReader(data),
		SegmentIndex: 0,
	}
	appendIn.GenerateBoundary()
	appendRes, err := upload.Append(ctx, api, appendIn)
	if err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media append", Body: unwrapGotwiError(err).Error()}
	}
	if err := partialError(appendRes.Errors); err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media append", Body: err.Error()}
	}

	finalizeRes, err := upload.Finalize(ctx, api, &uploadtypes.FinalizeInput{MediaID: mediaID})
	if err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media finalize", Body: unwrapGotwiError(err).Error()}
	}
	if err := partialError(finalizeRes.Errors); err != nil {
		return "", model.PlatformAPIError{Platform: platformName, Step: "media finalize", Body: err.Error()}
	}

	return mediaID, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (*gotwi.Client, error) {
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

// newGotwiClient prefers the OAuth 2.0 bearer token and falls back to
// OAuth 1.0a user context when an access-token pair is configured. Callers
// hold c.mu.
func (c *Client) newGotwiClient() (*gotwi.Client, error) {
	if c.bearerToken != "" {
		return gotwi.NewClientWithAccessToken(&gotwi.NewClientWithAccessTokenInput{
			HTTPClient:  c.httpClient,
			AccessToken: c.bearerToken,
		})
	}
	return gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           c.httpClient,
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           c.accessToken,
		OAuthTokenSecret:     c.accessTokenSecret,
		APIKey:               c.apiKey,
		APIKeySecret:         c.apiSecret,
	})
}

func resolveMediaType(mediaURL, contentType string) (uploadtypes.MediaType, uploadtypes.MediaCategory) {
	if common.IsVideoURL(mediaURL) || strings.HasPrefix(contentType, "video/") {
		return uploadtypes.MediaType("video/mp4"), uploadtypes.MediaCategory("tweet_video")
	}
	switch {
	case strings.Contains(contentType, "png"):
		return uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage
	case strings.Contains(contentType, "gif"):
		return uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF
	case strings.Contains(contentType, "webp"):
		return uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage
	default:
		return uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage
	}
}

func partialError(partials []resources.PartialError) error {
	if len(partials) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(partials))
	for _, pe := range partials {
		switch {
		case pe.Detail != nil && *pe.Detail != "":
			msgs = append(msgs, *pe.Detail)
		case pe.Title != nil && *pe.Title != "":
			msgs = append(msgs, *pe.Title)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "unknown error")
	}
	return errors.New(strings.Join(msgs, "; "))
}

func unwrapGotwiError(err error) error {
	var gwErr *gotwi.GotwiError
	if errors.As(err, &gwErr) && gwErr != nil {
		parts := make([]string, 0, 4)
		if gwErr.Title != "" {
			parts = append(parts, gwErr.Title)
		}
		if gwErr.Detail != "" {
			parts = append(parts, gwErr.Detail)
		}
		for _, apiErr := range gwErr.APIErrors {
			if apiErr.Message != "" {
				parts = append(parts, apiErr.Message)
			}
		}
		if len(parts) > 0 {
			return errors.New(strings.Join(parts, "; "))
		}
	}
	return err
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
