// AngelaMos | 2026
// service.go

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelamos/sitehub/internal/core"
)

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrEmptyUpload     = errors.New("upload is empty")
)

var allowedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/avif",
	"application/pdf",
}

type Upload struct {
	Filename   string
	Body       io.Reader
	UploadedBy string
}

type Service struct {
	repo     Repository
	storage  Storage
	maxBytes int64
}

func NewService(repo Repository, storage Storage, maxBytes int64) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		maxBytes: maxBytes,
	}
}

// Store saves an upload and returns its asset. When identical bytes were
// uploaded before, the existing asset is returned and duplicate is true.
func (s *Service) Store(
	ctx context.Context,
	up Upload,
) (asset *Asset, duplicate bool, err error) {
	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, false, fmt.Errorf("read upload: %w", err)
	}

	if len(data) == 0 {
		return nil, false, ErrEmptyUpload
	}

	if int64(len(data)) > s.maxBytes {
		return nil, false, ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	checksum, size, err := core.Checksum(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetByChecksum(ctx, checksum)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	key := checksum + mtype.Extension()
	if err := s.storage.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, false, err
	}

	asset = &Asset{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Filename:    cleanFilename(up.Filename, mtype.Extension()),
		ContentType: mtype.String(),
		SizeBytes:   size,
		Checksum:    checksum,
		StorageKey:  key,
		URL:         s.storage.URL(key),
		UploadedBy:  up.UploadedBy,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			existing, getErr := s.repo.GetByChecksum(ctx, checksum)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, true, nil
		}
		return nil, false, err
	}

	slog.InfoContext(ctx, "media stored",
		"asset_id", asset.ID,
		"content_type", asset.ContentType,
		"size_bytes", asset.SizeBytes,
		"uploaded_by", asset.UploadedBy,
	)

	return asset, false, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Asset, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// Delete removes the stored file and then the asset row.
func (s *Service) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, asset.StorageKey); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func cleanFilename(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "upload" + ext
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
