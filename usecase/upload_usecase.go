package usecase

import (
	"context"
	"io"

	"social-poster/domain/dto"
	"social-poster/domain/repository"
)

type IUploadUsecase interface {
	Upload(ctx context.Context, filename string, content io.Reader) (dto.UploadResponse, error)
}

type uploadUsecase struct {
	store repository.IMediaStore
}

func NewUploadUsecase(store repository.IMediaStore) IUploadUsecase {
	return &uploadUsecase{store: store}
}

func (u *uploadUsecase) Upload(ctx context.Context, filename string, content io.Reader) (dto.UploadResponse, error) {
	path, size, err := u.store.Save(ctx, filename, content)
	if err != nil {
		return dto.UploadResponse{}, err
	}
	return dto.UploadResponse{
		Success:  true,
		Filename: filename,
		FilePath: path,
		FileSize: size,
		Message:  "File uploaded successfully",
	}, nil
}
