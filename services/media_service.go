package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Dosada05/auction-system/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MediaService uploads team logos and player photos and hands back public
// URLs; everywhere else in the system images stay opaque string references.
type MediaService interface {
	UploadLogo(ctx context.Context, file MediaFile) (string, error)
	UploadPhotos(ctx context.Context, files []MediaFile) ([]string, error)

	// Remove deletes a previously uploaded object by its storage key, e.g.
	// the old logo after a team uploads a replacement.
	Remove(ctx context.Context, key string) error
}

type MediaFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

type mediaService struct {
	uploader storage.FileUploader
}

// NewMediaService принимает nil uploader, когда хранилище не сконфигурировано;
// тогда обе операции возвращают ErrUploaderNotConfigured.
func NewMediaService(uploader storage.FileUploader) MediaService {
	return &mediaService{uploader: uploader}
}

func (s *mediaService) UploadLogo(ctx context.Context, file MediaFile) (string, error) {
	return s.upload(ctx, "logos", file)
}

// UploadPhotos uploads player photos concurrently, preserving input order in
// the returned URLs.
func (s *mediaService) UploadPhotos(ctx context.Context, files []MediaFile) ([]string, error) {
	if s.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}
	if len(files) == 0 {
		return nil, ErrMediaFileRequired
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := s.upload(gctx, "players", file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (s *mediaService) Remove(ctx context.Context, key string) error {
	if s.uploader == nil {
		return ErrUploaderNotConfigured
	}
	// Удалять можно только объекты из собственных префиксов сервиса.
	if !strings.HasPrefix(key, "logos/") && !strings.HasPrefix(key, "players/") {
		return ErrMediaKeyInvalid
	}

	if err := s.uploader.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w (key: %s): %w", ErrMediaDeleteFailed, key, err)
	}
	return nil
}

func (s *mediaService) upload(ctx context.Context, prefix string, file MediaFile) (string, error) {
	if s.uploader == nil {
		return "", ErrUploaderNotConfigured
	}
	if file.Reader == nil {
		return "", ErrMediaFileRequired
	}

	ext := strings.ToLower(path.Ext(file.Name))
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := s.uploader.Upload(ctx, key, contentType, file.Reader)
	if err != nil {
		return "", fmt.Errorf("%w (key: %s): %w", ErrMediaUploadFailed, key, err)
	}
	return result.Location, nil
}

// ReadAllMediaFile buffers an upload so it can be retried or fanned out.
func ReadAllMediaFile(name, contentType string, r io.Reader) (MediaFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return MediaFile{}, fmt.Errorf("failed to read upload %q: %w", name, err)
	}
	return MediaFile{Name: name, ContentType: contentType, Reader: bytes.NewReader(data)}, nil
}
