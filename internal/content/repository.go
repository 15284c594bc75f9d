// AngelaMos | 2026
// repository.go

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/sitehub/internal/core"
)

type Repository interface {
	// WithTx runs fn against a repository bound to one transaction. Calls
	// made on a repository that is already transactional reuse it.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	Get(ctx context.Context, key string) (*Block, error)
	GetForUpdate(ctx context.Context, key string) (*Block, error)
	List(ctx context.Context, section string) ([]Block, error)
	Insert(ctx context.Context, block *Block) error
	Overwrite(ctx context.Context, block *Block) error
	Delete(ctx context.Context, key string) error

	InsertVersion(ctx context.Context, key, value string) (*Version, error)
	GetVersion(ctx context.Context, key string, id int64) (*Version, error)
	ListVersions(ctx context.Context, key string, limit int) ([]Version, error)
	DeleteVersion(ctx context.Context, key string, id int64) error
	DeleteVersions(ctx context.Context, key string) error
}

type repository struct {
	db       core.DBTX
	beginner core.TxBeginner
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, beginner: db}
}

func (r *repository) WithTx(
	ctx context.Context,
	fn func(tx Repository) error,
) error {
	if r.beginner == nil {
		return fn(r)
	}

	return core.InTx(ctx, r.beginner, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const blockColumns = `key, value, type, section, updated_at`

func (r *repository) Get(ctx context.Context, key string) (*Block, error) {
	query := `SELECT ` + blockColumns + ` FROM content_blocks WHERE key = $1`
	return r.getBlock(ctx, "get content block", query, key)
}

func (r *repository) GetForUpdate(
	ctx context.Context,
	key string,
) (*Block, error) {
	query := `SELECT ` + blockColumns + `
		FROM content_blocks
		WHERE key = $1
		FOR UPDATE`
	return r.getBlock(ctx, "lock content block", query, key)
}

func (r *repository) getBlock(
	ctx context.Context,
	op, query, key string,
) (*Block, error) {
	var b Block
	err := r.db.GetContext(ctx, &b, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &b, nil
}

func (r *repository) List(
	ctx context.Context,
	section string,
) ([]Block, error) {
	query := `SELECT ` + blockColumns + ` FROM content_blocks`
	var args []any

	if section != "" {
		query += ` WHERE section = $1`
		args = append(args, section)
	}
	query += ` ORDER BY key`

	blocks := []Block{}
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, fmt.Errorf("list content blocks: %w", err)
	}

	return blocks, nil
}

func (r *repository) Insert(ctx context.Context, b *Block) error {
	query := `
		INSERT INTO content_blocks (key, value, type, section)
		VALUES ($1, $2, $3, $4)
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &b.UpdatedAt, query,
		b.Key,
		b.Value,
		b.Type,
		b.Section,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert content block: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert content block: %w", err)
	}

	return nil
}

func (r *repository) Overwrite(ctx context.Context, b *Block) error {
	query := `
		UPDATE content_blocks
		SET value = $2, type = $3, section = $4, updated_at = NOW()
		WHERE key = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &b.UpdatedAt, query,
		b.Key,
		b.Value,
		b.Type,
		b.Section,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("overwrite content block: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("overwrite content block: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM content_blocks WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete content block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content block: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete content block: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) InsertVersion(
	ctx context.Context,
	key, value string,
) (*Version, error) {
	query := `
		INSERT INTO content_block_versions (block_key, value)
		VALUES ($1, $2)
		RETURNING id, block_key, value, created_at`

	var v Version
	if err := r.db.GetContext(ctx, &v, query, key, value); err != nil {
		return nil, fmt.Errorf("insert content version: %w", err)
	}

	return &v, nil
}

func (r *repository) GetVersion(
	ctx context.Context,
	key string,
	id int64,
) (*Version, error) {
	query := `
		SELECT id, block_key, value, created_at
		FROM content_block_versions
		WHERE block_key = $1 AND id = $2`

	var v Version
	err := r.db.GetContext(ctx, &v, query, key, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get content version: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get content version: %w", err)
	}

	return &v, nil
}

func (r *repository) ListVersions(
	ctx context.Context,
	key string,
	limit int,
) ([]Version, error) {
	query := `
		SELECT id, block_key, value, created_at
		FROM content_block_versions
		WHERE block_key = $1
		ORDER BY id DESC
		LIMIT $2`

	versions := []Version{}
	if err := r.db.SelectContext(ctx, &versions, query, key, limit); err != nil {
		return nil, fmt.Errorf("list content versions: %w", err)
	}

	return versions, nil
}

func (r *repository) DeleteVersion(
	ctx context.Context,
	key string,
	id int64,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM content_block_versions WHERE block_key = $1 AND id = $2`,
		key, id)
	if err != nil {
		return fmt.Errorf("delete content version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content version: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete content version: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteVersions(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM content_block_versions WHERE block_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete content versions: %w", err)
	}

	return nil
}
