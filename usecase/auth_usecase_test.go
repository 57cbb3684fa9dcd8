package usecase_test

import (
	"context"
	"testing"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthUsecase_Authenticate(t *testing.T) {
	mockThreads := newMockPoster("threads")

	creds := model.Credentials{AccessToken: "token-1"}
	mockThreads.On("Authenticate", mock.Anything, creds).
		Return(model.AuthResult{
			Authenticated: true,
			Details:       map[string]interface{}{"username": "someone"},
		}, nil).
		Once()

	authUsecase := usecase.NewAuthUsecase(map[string]repository.IPlatformPoster{
		"threads": mockThreads,
	})

	res, err := authUsecase.Authenticate(context.Background(), "threads", creds)

	assert.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "someone", res.Details["username"])
	mockThreads.AssertExpectations(t)
}

func TestAuthUsecase_Authenticate_MissingCredentials(t *testing.T) {
	mockFacebook := newMockPoster("facebook")
	mockFacebook.On("Authenticate", mock.Anything, model.Credentials{}).
		Return(model.AuthResult{}, model.MissingCredentialsError{Platform: "facebook", Missing: []string{"access_token"}}).
		Once()

	authUsecase := usecase.NewAuthUsecase(map[string]repository.IPlatformPoster{
		"facebook": mockFacebook,
	})

	_, err := authUsecase.Authenticate(context.Background(), "facebook", model.Credentials{})

	var missing model.MissingCredentialsError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "facebook", missing.Platform)
	mockFacebook.AssertExpectations(t)
}

func TestAuthUsecase_Authenticate_UnknownPlatform(t *testing.T) {
	authUsecase := usecase.NewAuthUsecase(map[string]repository.IPlatformPoster{})

	_, err := authUsecase.Authenticate(context.Background(), "bogus", model.Credentials{})

	var unsupported model.UnsupportedPlatformError
	assert.ErrorAs(t, err, &unsupported)
}
