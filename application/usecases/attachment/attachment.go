package attachment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/domain/repository"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/storage"
)

// MaxUploadSize caps attachment uploads at 10 MB.
const MaxUploadSize = 10 << 20

// extensionByMime doubles as the MIME allowlist: a type without an entry is
// rejected. The stored filename extension comes from the MIME type, never
// from the client-supplied name.
var extensionByMime = map[string]string{
	"audio/webm": ".webm",
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",
	"audio/mp4":  ".m4a",
	"audio/aac":  ".aac",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadInput struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

type AttachmentUseCase struct {
	attachmentRepo repository.AttachmentRepository
	eventRepo      repository.EventRepository
	driver         storage.Driver
	thumbnailer    *Thumbnailer
	logger         *logger.Logger
}

func NewAttachmentUseCase(
	attachmentRepo repository.AttachmentRepository,
	eventRepo repository.EventRepository,
	driver storage.Driver,
	logger *logger.Logger,
) *AttachmentUseCase {
	return &AttachmentUseCase{
		attachmentRepo: attachmentRepo,
		eventRepo:      eventRepo,
		driver:         driver,
		thumbnailer:    NewThumbnailer(),
		logger:         logger,
	}
}

// Upload validates, stores and records one attachment. Image uploads get a
// thumbnail; a failed thumbnail never fails the upload.
func (uc *AttachmentUseCase) Upload(ctx context.Context, eventID, uploaderID string, input UploadInput) (*model.Attachment, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	ext, err := ValidateUpload(input.MimeType, input.Size)
	if err != nil {
		return nil, err
	}

	// Buffer the body so the size claim can be enforced and the thumbnail
	// read from the same bytes.
	data, err := io.ReadAll(io.LimitReader(input.Body, MaxUploadSize+1))
	if err != nil {
		return nil, apperrors.Internal("failed to read upload body", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, apperrors.New(apperrors.KindTooLarge, "file_too_large", "upload exceeds the maximum size")
	}

	id := uuid.NewString()
	key := fmt.Sprintf("events/%s/%s%s", eventID, id, ext)

	if err := uc.driver.Put(ctx, key, input.MimeType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, err
	}

	att := &model.Attachment{
		ID:          id,
		EventID:     eventID,
		UploaderID:  uploaderID,
		Filename:    input.Filename,
		MimeType:    input.MimeType,
		Size:        int64(len(data)),
		StoragePath: key,
		URL:         uc.driver.URL(key),
		CreatedAt:   time.Now().UTC(),
	}

	if att.IsImage() {
		thumbKey := fmt.Sprintf("events/%s/%s_thumb.jpg", eventID, id)
		if err := uc.storeThumbnail(ctx, thumbKey, data); err != nil {
			uc.logger.Warn("thumbnail generation failed",
				zap.String("attachment_id", id),
				zap.Error(err))
		} else {
			att.ThumbnailKey = thumbKey
			att.ThumbnailURL = uc.driver.URL(thumbKey)
		}
	}

	if err := uc.attachmentRepo.Create(ctx, att); err != nil {
		// Roll the blob back so storage doesn't accumulate orphans.
		if delErr := uc.driver.Delete(ctx, key); delErr != nil {
			uc.logger.Warn("failed to remove orphaned blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	return att, nil
}

func (uc *AttachmentUseCase) Get(ctx context.Context, id string) (*model.Attachment, error) {
	return uc.attachmentRepo.GetByID(ctx, id)
}

func (uc *AttachmentUseCase) ListByEvent(ctx context.Context, eventID string) ([]*model.Attachment, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return uc.attachmentRepo.GetByEvent(ctx, eventID)
}

// Open streams the stored blob for download.
func (uc *AttachmentUseCase) Open(ctx context.Context, id string) (*model.Attachment, io.ReadCloser, error) {
	att, err := uc.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := uc.driver.Get(ctx, att.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return att, body, nil
}

// Delete removes the record and its blobs. Only the uploader may do this.
func (uc *AttachmentUseCase) Delete(ctx context.Context, id, userID string) error {
	att, err := uc.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if att.UploaderID != userID {
		return apperrors.Forbidden("not_uploader", "only the uploader can delete an attachment")
	}

	if err := uc.attachmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := uc.driver.Delete(ctx, att.StoragePath); err != nil {
		uc.logger.Warn("failed to delete stored blob", zap.String("key", att.StoragePath), zap.Error(err))
	}
	if att.ThumbnailKey != "" {
		if err := uc.driver.Delete(ctx, att.ThumbnailKey); err != nil {
			uc.logger.Warn("failed to delete thumbnail blob", zap.String("key", att.ThumbnailKey), zap.Error(err))
		}
	}
	return nil
}

func (uc *AttachmentUseCase) storeThumbnail(ctx context.Context, key string, data []byte) error {
	thumb, err := uc.thumbnailer.FromImage(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return uc.driver.Put(ctx, key, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb)))
}

// ValidateUpload checks the declared MIME type and size, returning the
// storage extension for the type.
func ValidateUpload(mimeType string, size int64) (string, error) {
	ext, ok := extensionByMime[mimeType]
	if !ok {
		return "", apperrors.Validation("unsupported_type", "file type is not allowed: "+mimeType)
	}
	if size <= 0 {
		return "", apperrors.Validation("empty_file", "upload is empty")
	}
	if size > MaxUploadSize {
		return "", apperrors.New(apperrors.KindTooLarge, "file_too_large", "upload exceeds the maximum size")
	}
	return ext, nil
}
