package repository

import (
	"context"

	"social-poster/domain/model"
)

// IPlatformPoster defines the uniform contract every platform adapter
// implements. An adapter owns its credentials and authenticated flag;
// CreatePost auto-authenticates from stored or configured credentials when
// needed. Implementations must be safe for concurrent use since one adapter
// instance is shared across all requests targeting its platform.
type IPlatformPoster interface {
	// Name returns the platform id (e.g. "facebook").
	Name() string

	// Authenticate verifies credentials against the platform's identity
	// endpoint. Explicit fields in creds win over stored/configured values.
	Authenticate(ctx context.Context, creds model.Credentials) (model.AuthResult, error)

	// CreatePost publishes one post. mediaURLs and scheduleTime are optional;
	// scheduleTime is passed through to the provider verbatim.
	CreatePost(ctx context.Context, text string, mediaURLs []string, scheduleTime string) (model.PostResult, error)
}
