package usecase

import (
	"context"
	"fmt"

	"social-poster/domain/model"
	"social-poster/domain/repository"
	"social-poster/infrastructure/logger"

	"golang.org/x/sync/errgroup"
)

type IPostUsecase interface {
	// PostToMany publishes to every requested platform and returns exactly
	// one result per platform id, in request order.
	PostToMany(ctx context.Context, text string, platforms []string, mediaURLs []string, scheduleTime string) []model.PostResult

	// PostToOne publishes to a single platform. Publish failures come back as
	// a failed result; the error return is used only for unknown platforms.
	PostToOne(ctx context.Context, platform string, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error)
}

type postUsecase struct {
	posters map[string]repository.IPlatformPoster
}

func NewPostUsecase(posters map[string]repository.IPlatformPoster) IPostUsecase {
	return &postUsecase{posters: posters}
}

func (u *postUsecase) PostToMany(ctx context.Context, text string, platforms []string, mediaURLs []string, scheduleTime string) []model.PostResult {
	// Fan out one goroutine per platform; each writes to its own slot so the
	// output order matches the request order regardless of completion order.
	results := make([]model.PostResult, len(platforms))
	g := new(errgroup.Group)

	for i, platform := range platforms {
		poster, ok := u.posters[platform]
		if !ok {
			results[i] = model.PostResult{
				Success:  false,
				Platform: platform,
				Message:  "Platform not supported",
				Error:    model.UnsupportedPlatformError{Platform: platform}.Error(),
			}
			continue
		}

		g.Go(func() error {
			results[i] = u.post(ctx, poster, platform, text, mediaURLs, scheduleTime)
			return nil
		})
	}

	// All goroutines return nil; Wait is the join point.
	_ = g.Wait()
	return results
}

func (u *postUsecase) PostToOne(ctx context.Context, platform string, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error) {
	poster, ok := u.posters[platform]
	if !ok {
		return model.PostResult{}, model.UnsupportedPlatformError{Platform: platform}
	}
	return u.post(ctx, poster, platform, text, mediaURLs, scheduleTime), nil
}

// post invokes one adapter and converts any error into a failed result so a
// single platform can never abort its siblings.
func (u *postUsecase) post(ctx context.Context, poster repository.IPlatformPoster, platform, text string, mediaURLs []string, scheduleTime string) model.PostResult {
	result, err := poster.CreatePost(ctx, text, mediaURLs, scheduleTime)
	if err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err.Error()).Warn("Post failed")
		return model.PostResult{
			Success:  false,
			Platform: platform,
			Message:  fmt.Sprintf("Failed to post to %s", platform),
			Error:    err.Error(),
		}
	}
	return result
}
