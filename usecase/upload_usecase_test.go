package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"social-poster/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Save(ctx context.Context, filename string, content io.Reader) (string, int64, error) {
	args := m.Called(ctx, filename, content)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func TestUploadUsecase_Upload(t *testing.T) {
	mockStore := new(MockMediaStore)
	mockStore.On("Save", mock.Anything, "clip.mp4", mock.Anything).
		Return("uploads/20250101_120000_clip.mp4", int64(11), nil).
		Once()

	uploadUsecase := usecase.NewUploadUsecase(mockStore)

	res, err := uploadUsecase.Upload(context.Background(), "clip.mp4", strings.NewReader("video-bytes"))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "clip.mp4", res.Filename)
	assert.Equal(t, "uploads/20250101_120000_clip.mp4", res.FilePath)
	assert.Equal(t, int64(11), res.FileSize)
	assert.Equal(t, "File uploaded successfully", res.Message)
	mockStore.AssertExpectations(t)
}

func TestUploadUsecase_Upload_StoreError(t *testing.T) {
	mockStore := new(MockMediaStore)
	mockStore.On("Save", mock.Anything, "clip.mp4", mock.Anything).
		Return("", int64(0), errors.New("disk full")).
		Once()

	uploadUsecase := usecase.NewUploadUsecase(mockStore)

	_, err := uploadUsecase.Upload(context.Background(), "clip.mp4", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	mockStore.AssertExpectations(t)
}
