package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/auction-system/storage"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func TestUploadLogo_KeyAndURL(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewMediaService(uploader)

	url, err := svc.UploadLogo(context.Background(), MediaFile{
		Name:        "csk.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("img"),
	})
	assert.NoError(t, err)
	check.True(t, strings.HasPrefix(url, "https://cdn.test/logos/"))
	check.True(t, strings.HasSuffix(url, ".png"))
}

func TestUploadPhotos_AllLandUnderPlayersPrefix(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewMediaService(uploader)

	files := []MediaFile{
		{Name: "a.jpg", Reader: strings.NewReader("a")},
		{Name: "b.jpg", Reader: strings.NewReader("b")},
		{Name: "c.jpg", Reader: strings.NewReader("c")},
	}
	urls, err := svc.UploadPhotos(context.Background(), files)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(urls))
	for _, url := range urls {
		check.True(t, strings.HasPrefix(url, "https://cdn.test/players/"))
	}
	check.Equal(t, 3, len(uploader.uploaded))
}

func TestMedia_NotConfigured(t *testing.T) {
	svc := NewMediaService(nil)
	ctx := context.Background()

	_, err := svc.UploadLogo(ctx, MediaFile{Name: "x.png", Reader: strings.NewReader("x")})
	check.True(t, errors.Is(err, ErrUploaderNotConfigured))

	_, err = svc.UploadPhotos(ctx, []MediaFile{{Name: "x.png", Reader: strings.NewReader("x")}})
	check.True(t, errors.Is(err, ErrUploaderNotConfigured))

	err = svc.Remove(ctx, "logos/x.png")
	check.True(t, errors.Is(err, ErrUploaderNotConfigured))
}

func TestRemove_DeletesByKey(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewMediaService(uploader)

	assert.NoError(t, svc.Remove(context.Background(), "logos/old.png"))
	assert.Equal(t, 1, len(uploader.deleted))
	check.Equal(t, "logos/old.png", uploader.deleted[0])
}

func TestRemove_RejectsForeignKeys(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewMediaService(uploader)
	ctx := context.Background()

	check.True(t, errors.Is(svc.Remove(ctx, ""), ErrMediaKeyInvalid))
	check.True(t, errors.Is(svc.Remove(ctx, "secrets/creds.txt"), ErrMediaKeyInvalid))
	check.Equal(t, 0, len(uploader.deleted))
}
