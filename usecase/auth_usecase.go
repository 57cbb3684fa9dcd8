package usecase

import (
	"context"

	"social-poster/domain/model"
	"social-poster/domain/repository"
)

type IAuthUsecase interface {
	// Authenticate verifies credentials against one platform. Unknown
	// platforms return UnsupportedPlatformError; credential and provider
	// failures are returned as-is from the adapter.
	Authenticate(ctx context.Context, platform string, creds model.Credentials) (model.AuthResult, error)
}

type authUsecase struct {
	posters map[string]repository.IPlatformPoster
}

func NewAuthUsecase(posters map[string]repository.IPlatformPoster) IAuthUsecase {
	return &authUsecase{posters: posters}
}

func (u *authUsecase) Authenticate(ctx context.Context, platform string, creds model.Credentials) (model.AuthResult, error) {
	poster, ok := u.posters[platform]
	if !ok {
		return model.AuthResult{}, model.UnsupportedPlatformError{Platform: platform}
	}
	return poster.Authenticate(ctx, creds)
}
