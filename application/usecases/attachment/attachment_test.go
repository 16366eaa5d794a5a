package attachment

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/logger"
)

type fakeAttachmentRepo struct {
	records map[string]*model.Attachment
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	r.records[a.ID] = a
	return nil
}

func (r *fakeAttachmentRepo) GetByID(ctx context.Context, id string) (*model.Attachment, error) {
	a, ok := r.records[id]
	if !ok {
		return nil, apperrors.NotFound("attachment_not_found", "attachment does not exist")
	}
	return a, nil
}

func (r *fakeAttachmentRepo) GetByEvent(ctx context.Context, eventID string) ([]*model.Attachment, error) {
	var out []*model.Attachment
	for _, a := range r.records {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttachmentRepo) Delete(ctx context.Context, id string) error {
	delete(r.records, id)
	return nil
}

type fakeEventRepo struct{}

func (fakeEventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id != "evt" {
		return nil, apperrors.NotFound("event_not_found", "event does not exist")
	}
	return &model.Event{ID: id}, nil
}
func (fakeEventRepo) Create(ctx context.Context, evt *model.Event) error { return nil }
func (fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return nil, apperrors.NotFound("event_not_found", "event does not exist")
}
func (fakeEventRepo) GetAll(ctx context.Context) ([]*model.Event, error)       { return nil, nil }
func (fakeEventRepo) SlugExists(ctx context.Context, slug string) (bool, error) { return false, nil }
func (fakeEventRepo) AddMember(ctx context.Context, m *model.EventMember) error { return nil }
func (fakeEventRepo) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	return false, nil
}
func (fakeEventRepo) GetMembers(ctx context.Context, eventID string) ([]model.EventMember, error) {
	return nil, nil
}
func (fakeEventRepo) RemoveMember(ctx context.Context, eventID, userID string) error { return nil }
func (fakeEventRepo) Delete(ctx context.Context, id string) error                    { return nil }

type memoryDriver struct {
	blobs map[string][]byte
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{blobs: make(map[string][]byte)}
}

func (d *memoryDriver) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	d.blobs[key] = data
	return nil
}

func (d *memoryDriver) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := d.blobs[key]
	if !ok {
		return nil, apperrors.NotFound("attachment_not_found", "stored file does not exist")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *memoryDriver) Delete(ctx context.Context, key string) error {
	delete(d.blobs, key)
	return nil
}

func (d *memoryDriver) URL(key string) string { return "/uploads/" + key }

func newTestUseCase() (*AttachmentUseCase, *fakeAttachmentRepo, *memoryDriver) {
	repo := &fakeAttachmentRepo{records: make(map[string]*model.Attachment)}
	driver := newMemoryDriver()
	uc := NewAttachmentUseCase(repo, fakeEventRepo{}, driver, logger.NewNop())
	return uc, repo, driver
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		mimeType string
		size     int64
		wantExt  string
		wantKind apperrors.Kind
	}{
		{"audio/webm", 1024, ".webm", 0},
		{"audio/mpeg", 1024, ".mp3", 0},
		{"image/jpeg", 1024, ".jpg", 0},
		{"image/webp", 1024, ".webp", 0},
		{"video/mp4", 1024, "", apperrors.KindValidation},
		{"application/x-sh", 1024, "", apperrors.KindValidation},
		{"image/png", MaxUploadSize + 1, "", apperrors.KindTooLarge},
		{"image/png", 0, "", apperrors.KindValidation},
	}

	for _, c := range cases {
		ext, err := ValidateUpload(c.mimeType, c.size)
		if c.wantKind == 0 {
			if err != nil {
				t.Errorf("ValidateUpload(%q, %d) = %v, want ok", c.mimeType, c.size, err)
			}
			if ext != c.wantExt {
				t.Errorf("ValidateUpload(%q) ext = %q, want %q", c.mimeType, ext, c.wantExt)
			}
			continue
		}
		if !apperrors.IsKind(err, c.wantKind) {
			t.Errorf("ValidateUpload(%q, %d) = %v, want kind %v", c.mimeType, c.size, err, c.wantKind)
		}
	}
}

func TestUploadStoresBlobWithMimeDerivedExtension(t *testing.T) {
	uc, repo, driver := newTestUseCase()

	att, err := uc.Upload(context.Background(), "evt", "u1", UploadInput{
		Filename: "definitely-not-audio.exe",
		MimeType: "audio/mpeg",
		Size:     4,
		Body:     strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if !strings.HasSuffix(att.StoragePath, ".mp3") {
		t.Errorf("StoragePath = %q, want extension from MIME type", att.StoragePath)
	}
	if _, ok := driver.blobs[att.StoragePath]; !ok {
		t.Error("blob not stored")
	}
	if _, ok := repo.records[att.ID]; !ok {
		t.Error("record not persisted")
	}
	if att.ThumbnailURL != "" {
		t.Error("audio upload must not get a thumbnail")
	}
}

func TestUploadGeneratesThumbnailForImages(t *testing.T) {
	uc, _, driver := newTestUseCase()
	data := pngBytes(t)

	att, err := uc.Upload(context.Background(), "evt", "u1", UploadInput{
		Filename: "photo.png",
		MimeType: "image/png",
		Size:     int64(len(data)),
		Body:     bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if att.ThumbnailKey == "" || att.ThumbnailURL == "" {
		t.Fatal("image upload must get a thumbnail")
	}
	if _, ok := driver.blobs[att.ThumbnailKey]; !ok {
		t.Error("thumbnail blob not stored")
	}
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	uc, _, _ := newTestUseCase()

	// Declared size is fine but the body is larger.
	_, err := uc.Upload(context.Background(), "evt", "u1", UploadInput{
		Filename: "big.mp3",
		MimeType: "audio/mpeg",
		Size:     1024,
		Body:     bytes.NewReader(make([]byte, MaxUploadSize+1)),
	})
	if !apperrors.IsKind(err, apperrors.KindTooLarge) {
		t.Fatalf("err = %v, want too-large", err)
	}
}

func TestDeleteOnlyByUploader(t *testing.T) {
	uc, repo, driver := newTestUseCase()
	ctx := context.Background()

	att, _ := uc.Upload(ctx, "evt", "u1", UploadInput{
		Filename: "clip.ogg", MimeType: "audio/ogg", Size: 4, Body: strings.NewReader("data"),
	})

	if err := uc.Delete(ctx, att.ID, "u2"); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("delete by stranger = %v, want forbidden", err)
	}
	if err := uc.Delete(ctx, att.ID, "u1"); err != nil {
		t.Fatalf("delete by uploader: %v", err)
	}
	if len(repo.records) != 0 || len(driver.blobs) != 0 {
		t.Error("record and blob must both be gone after delete")
	}
}

func TestThumbnailerFitsWithinBoundingBox(t *testing.T) {
	th := NewThumbnailer()
	thumb, err := th.FromImage(bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > thumbnailMaxEdge || bounds.Dy() > thumbnailMaxEdge {
		t.Errorf("thumbnail %dx%d exceeds %d", bounds.Dx(), bounds.Dy(), thumbnailMaxEdge)
	}
}
