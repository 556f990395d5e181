package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/api"
)

// UploadService wraps the multipart file endpoints. The upload endpoints do
// not agree on a response envelope: `{data:{fileUrl}}`, `{fileUrl}`, and a bare
// string are all tolerated.
type UploadService struct {
	client *api.Client
	logger *zap.Logger
}

// NewUploadService constructs an UploadService over the upload-scoped client.
func NewUploadService(client *api.Client, log *zap.Logger) *UploadService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadService{client: client, logger: log}
}

// UploadAvatar uploads a profile picture and returns its URL.
func (s *UploadService) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	return s.uploadOne(ctx, "/files/upload/avatar", filename, content)
}

// Upload uploads a single generic file and returns its URL.
func (s *UploadService) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	return s.uploadOne(ctx, "/files/upload", filename, content)
}

// UploadHouseImages uploads listing photos and returns their URLs.
func (s *UploadService) UploadHouseImages(ctx context.Context, files []api.FilePart) ([]string, error) {
	return s.uploadMany(ctx, "/files/upload/house-images", files)
}

// UploadMultiple uploads several generic files and returns their URLs.
func (s *UploadService) UploadMultiple(ctx context.Context, files []api.FilePart) ([]string, error) {
	return s.uploadMany(ctx, "/files/upload/multiple", files)
}

// Delete removes a previously uploaded file by URL.
func (s *UploadService) Delete(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return fmt.Errorf("file url is required")
	}
	if err := s.client.Delete(ctx, "/files/delete", map[string]string{"fileUrl": fileURL}); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *UploadService) uploadOne(ctx context.Context, path, filename string, content io.Reader) (string, error) {
	var raw json.RawMessage
	err := s.client.PostMultipart(ctx, path, nil, []api.FilePart{
		{Field: "file", Filename: filename, Content: content},
	}, &raw)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	url, err := decodeFileURL(raw)
	if err != nil {
		return "", err
	}

	s.logger.Info("file uploaded", zap.String("url", url))
	return url, nil
}

func (s *UploadService) uploadMany(ctx context.Context, path string, files []api.FilePart) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	var raw json.RawMessage
	if err := s.client.PostMultipart(ctx, path, nil, files, &raw); err != nil {
		return nil, fmt.Errorf("upload files: %w", err)
	}

	return decodeFileURLs(raw)
}

// decodeFileURL resolves the uploaded file URL from any of the tolerated
// response shapes.
func decodeFileURL(raw json.RawMessage) (string, error) {
	var wrapped struct {
		FileURL string `json:"fileUrl"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.FileURL != "" {
		return wrapped.FileURL, nil
	}

	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil && bare != "" {
		return bare, nil
	}

	return "", ErrUnsupportedResponse
}

func decodeFileURLs(raw json.RawMessage) ([]string, error) {
	var wrapped struct {
		FileURLs []string `json:"fileUrls"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.FileURLs) > 0 {
		return wrapped.FileURLs, nil
	}

	var bare []string
	if err := json.Unmarshal(raw, &bare); err == nil && len(bare) > 0 {
		return bare, nil
	}

	return nil, ErrUnsupportedResponse
}
