package repository

import (
	"context"
	"io"
)

// IMediaStore persists uploaded media files for later use in posts.
type IMediaStore interface {
	// Save writes the content under a name derived from filename and returns
	// the stored path and size.
	Save(ctx context.Context, filename string, content io.Reader) (path string, size int64, err error)
}
