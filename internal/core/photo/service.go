package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/blob"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

type Service struct {
	repo     Repository
	store    blob.Store
	views    *cache.Views
	metrics  *metrics.Metrics
	maxBytes int64
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(repo Repository, store blob.Store, views *cache.Views, collector *metrics.Metrics, maxBytes int64, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		views:    views,
		metrics:  collector,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns a guesthouse gallery in display order.
// The owner check always runs against storage; only the gallery is cached.
func (service *Service) List(ctx context.Context, principal *access.Principal, guesthouseID string) ([]*Photo, error) {
	if err := service.authorize(ctx, principal, access.ListPhotos, guesthouseID); err != nil {
		return nil, err
	}

	return cache.Load(ctx, service.views, cache.Key(cache.NamespacePhotos, guesthouseID),
		func(ctx context.Context) ([]*Photo, error) {
			return service.repo.List(ctx, guesthouseID)
		})
}

// Upload stores the image blob, then the row. If the row cannot be written the
// blob is deleted again; a failure of that cleanup is only logged.
func (service *Service) Upload(context context.Context, principal *access.Principal, guesthouseID string, upload Upload) (*Photo, error) {
	if err := service.authorize(context, principal, access.UploadPhoto, guesthouseID); err != nil {
		return nil, err
	}

	caption, err := normalizeCaption(upload.Caption)
	if err != nil {
		return nil, err
	}

	content, contentType, err := service.readImage(upload.Body)
	if err != nil {
		return nil, err
	}

	key := blob.BuildKey(guesthouseID, upload.FileName, contentType.Extension(), content, service.now())

	err = service.store.Put(context, key, bytes.NewReader(content), contentType.String())
	service.metrics.BlobOperation("put", err)
	if err != nil {
		return nil, apperr.StorageFailure(fmt.Errorf("photo_blob_put_failed: %w", err))
	}

	photo := &Photo{
		ID:           uuid.New(),
		GuesthouseID: guesthouseID,
		URL:          service.store.URL(key),
		Caption:      caption,
	}

	if err := service.repo.Create(context, photo); err != nil {
		service.removeBlob(context, key, "photo_blob_compensation_failed")
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespacePhotos, cache.NamespaceDashboard)

	service.logger.Info("photo_uploaded",
		slog.String("photo_id", photo.ID),
		slog.String("guesthouse_id", guesthouseID),
		slog.String("key", key),
		slog.Int("bytes", len(content)),
	)
	return photo, nil
}

// readImage buffers at most maxBytes of body and sniffs its content type.
func (service *Service) readImage(body io.Reader) ([]byte, *mimetype.MIME, error) {
	if body == nil {
		return nil, nil, validate.RequiredError(FieldFile, "A file is required")
	}

	content, err := io.ReadAll(io.LimitReader(body, service.maxBytes+1))
	if err != nil {
		return nil, nil, apperr.ValidationError("Could not read upload",
			apperr.FieldError{Field: FieldFile, Message: "Upload was interrupted"})
	}

	if len(content) == 0 {
		return nil, nil, validate.RequiredError(FieldFile, "A file is required")
	}
	if int64(len(content)) > service.maxBytes {
		return nil, nil, apperr.ValidationError("File is too large", apperr.FieldError{
			Field:   FieldFile,
			Message: fmt.Sprintf("Maximum %d bytes", service.maxBytes),
		})
	}

	contentType := mimetype.Detect(content)
	if !mimetype.EqualsAny(contentType.String(), allowedTypes...) {
		return nil, nil, apperr.ValidationError("Unsupported file type", apperr.FieldError{
			Field:   FieldFile,
			Message: "Must be a JPEG, PNG, GIF, WebP, AVIF or HEIC image",
		})
	}

	return content, contentType, nil
}

// UpdateCaption sets or, for a blank caption, clears the caption.
func (service *Service) UpdateCaption(context context.Context, principal *access.Principal, photoID string, caption *string) (*Photo, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	normalized, err := normalizeCaption(caption)
	if err != nil {
		return nil, err
	}

	existing, err := service.repo.Get(context, photoID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(principal, access.EditPhoto, access.Owned(existing.ManagerID)); err != nil {
		return nil, err
	}

	updated, err := service.repo.UpdateCaption(context, photoID, normalized)
	if err != nil {
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespacePhotos)
	return updated, nil
}

// Reorder puts the gallery in the given order. Every id must belong to the guesthouse.
func (service *Service) Reorder(context context.Context, principal *access.Principal, guesthouseID string, orderedIDs []string) ([]*Photo, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(orderedIDs))
	validator := &validate.Validator{}
	validator.Custom(FieldPhotoIDs, len(orderedIDs) == 0, "Provide the photo ids in display order")
	for _, id := range orderedIDs {
		if seen[id] {
			validator.Custom(FieldPhotoIDs, true, "Each photo may appear only once")
			break
		}
		seen[id] = true
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.authorize(context, principal, access.EditPhoto, guesthouseID); err != nil {
		return nil, err
	}

	if err := service.repo.Reorder(context, guesthouseID, orderedIDs); err != nil {
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespacePhotos)

	return service.repo.List(context, guesthouseID)
}

// Delete removes the row, then the blob. A blob left behind is logged and
// picked up later by the sweeper.
func (service *Service) Delete(context context.Context, principal *access.Principal, photoID string) error {
	if err := access.Authenticated(principal); err != nil {
		return err
	}

	existing, err := service.repo.Get(context, photoID)
	if err != nil {
		return err
	}

	if err := access.Check(principal, access.DeletePhoto, access.Owned(existing.ManagerID)); err != nil {
		return err
	}

	if err := service.repo.Delete(context, photoID); err != nil {
		return err
	}

	service.DeleteBlobs(context, []string{existing.URL})

	service.views.Invalidate(context, cache.NamespacePhotos, cache.NamespaceDashboard)

	service.logger.Info("photo_deleted",
		slog.String("photo_id", photoID),
		slog.String("guesthouse_id", existing.GuesthouseID),
	)
	return nil
}

// DeleteBlobs removes the blobs behind photo URLs, best-effort.
func (service *Service) DeleteBlobs(context context.Context, urls []string) {
	for _, url := range urls {
		key, ok := service.store.Key(url)
		if !ok {
			service.logger.Warn("photo_blob_unknown_url", slog.String("url", url))
			continue
		}
		service.removeBlob(context, key, "photo_blob_delete_failed")
	}
}

// ReferencedURLs lists every photo URL for the blob sweeper.
func (service *Service) ReferencedURLs(context context.Context) ([]string, error) {
	return service.repo.URLs(context)
}

// removeBlob deletes key even if the request has been cancelled.
func (service *Service) removeBlob(ctx context.Context, key, event string) {
	err := service.store.Delete(context.WithoutCancel(ctx), key)
	service.metrics.BlobOperation("delete", err)
	if err != nil {
		service.logger.Warn(event, slog.String("key", key), slog.Any("error", err))
	}
}

func (service *Service) authorize(context context.Context, principal *access.Principal, action access.Action, guesthouseID string) error {
	if err := access.Authenticated(principal); err != nil {
		return err
	}

	managerID, err := service.repo.GuesthouseOwner(context, guesthouseID)
	if err != nil {
		return err
	}
	return access.Check(principal, action, access.Owned(managerID))
}

func normalizeCaption(caption *string) (*string, error) {
	if caption == nil {
		return nil, nil
	}

	text := strings.TrimSpace(*caption)
	if text == "" {
		return nil, nil
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldCaption, text, maxCaptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return &text, nil
}
