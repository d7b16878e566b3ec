package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unispace-app/unispace-backend/internal/pkg/storage"
)

// Service handles facility photo uploads and downloads.
type Service interface {
	Upload(ctx context.Context, header *multipart.FileHeader, uploaderID string) (*Photo, error)
	GetByID(ctx context.Context, id string) (*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	store       storage.Storage
	thumbnailer *storage.Thumbnailer
}

// NewService creates a new photo Service.
func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:        repo,
		store:       store,
		thumbnailer: storage.NewThumbnailer(),
	}
}

func (s *service) Upload(ctx context.Context, header *multipart.FileHeader, uploaderID string) (*Photo, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content once; it is read again for the thumbnail.
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))

	// Shard by ID prefix to keep directories small: photos/ab/<uuid>.ext
	shard := id[:2]
	storagePath := fmt.Sprintf("photos/%s/%s%s", shard, id, ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save photo to storage: %w", err)
	}

	// Thumbnail failure does not fail the upload.
	var thumbnailPath *string
	thumb, err := s.thumbnailer.Thumbnail(bytes.NewReader(content))
	if err != nil {
		log.Printf("warning: thumbnail generation failed for photo %s: %v", id, err)
	} else {
		tPath := fmt.Sprintf("photos/%s/%s_thumb.jpg", shard, id)
		if err := s.store.Save(ctx, tPath, thumb); err != nil {
			log.Printf("warning: saving thumbnail failed for photo %s: %v", id, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            id,
		UploadedBy:    uploaderID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// Roll back storage writes if the row cannot be persisted.
		_ = s.store.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.store.Delete(ctx, *thumbnailPath)
		}
		return nil, fmt.Errorf("persist photo metadata: %w", err)
	}

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Photo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open photo content: %w", err)
	}
	return rc, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	rc, err := s.store.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open thumbnail content: %w", err)
	}
	return rc, p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Best-effort storage cleanup after the row is gone.
	_ = s.store.Delete(ctx, p.StoragePath)
	if p.ThumbnailPath != nil {
		_ = s.store.Delete(ctx, *p.ThumbnailPath)
	}
	return nil
}
