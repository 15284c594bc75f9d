// AngelaMos | 2026
// repository.go

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/sitehub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	GetByChecksum(ctx context.Context, checksum string) (*Asset, error)
	List(ctx context.Context, params ListParams) ([]Asset, int, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const assetColumns = `id, filename, content_type, size_bytes, checksum,
		storage_key, url, uploaded_by, created_at`

func (r *repository) Create(ctx context.Context, a *Asset) error {
	query := `
		INSERT INTO media_assets (id, filename, content_type, size_bytes,
		                          checksum, storage_key, url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.ID,
		a.Filename,
		a.ContentType,
		a.SizeBytes,
		a.Checksum,
		a.StorageKey,
		a.URL,
		a.UploadedBy,
	).Scan(&a.CreatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create media asset: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create media asset: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE id = $1`

	var a Asset
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get media asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get media asset: %w", err)
	}

	return &a, nil
}

func (r *repository) GetByChecksum(
	ctx context.Context,
	checksum string,
) (*Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE checksum = $1`

	var a Asset
	err := r.db.GetContext(ctx, &a, query, checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get media asset by checksum: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get media asset by checksum: %w", err)
	}

	return &a, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Asset, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM media_assets`); err != nil {
		return nil, 0, fmt.Errorf("count media assets: %w", err)
	}

	query := `SELECT ` + assetColumns + `
		FROM media_assets
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets, query,
		params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list media assets: %w", err)
	}

	return assets, total, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete media asset rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete media asset: %w", core.ErrNotFound)
	}

	return nil
}
