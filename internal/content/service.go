// AngelaMos | 2026
// service.go

package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/sitehub/internal/core"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

var (
	ErrInvalidKey   = errors.New("invalid content key")
	ErrValueMissing = errors.New("value is required")
	ErrInvalidType  = errors.New("invalid block type")
	ErrNoBlocks     = errors.New("no blocks to update")
)

// Service is the content store. Every overwrite of an existing block first
// records the block's current value as a version, inside the same
// transaction as the overwrite.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, key string) (*Block, error) {
	return s.repo.Get(ctx, key)
}

// List returns blocks ordered by key, restricted to section when it is
// not empty.
func (s *Service) List(ctx context.Context, section string) ([]Block, error) {
	return s.repo.List(ctx, strings.TrimSpace(section))
}

func (s *Service) Create(
	ctx context.Context,
	req CreateBlockRequest,
) (*Block, error) {
	if err := validateKey(req.Key); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf(
			"create block: %w %q: %w",
			ErrInvalidType, req.Type, core.ErrInvalidInput,
		)
	}

	block := &Block{
		Key:     req.Key,
		Value:   req.Value,
		Type:    req.Type,
		Section: sectionOrDefault(req.Section),
	}

	if err := s.repo.Insert(ctx, block); err != nil {
		return nil, err
	}

	return block, nil
}

// Update overwrites the block at key, creating it when absent. An existing
// block's current value is snapshotted before it is replaced.
func (s *Service) Update(
	ctx context.Context,
	key string,
	req UpdateBlockRequest,
) (*Block, error) {
	if err := validateUpdate(key, req); err != nil {
		return nil, err
	}

	var out *Block
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		b, err := s.update(ctx, tx, key, req)
		out = b
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) update(
	ctx context.Context,
	tx Repository,
	key string,
	req UpdateBlockRequest,
) (*Block, error) {
	current, err := tx.GetForUpdate(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		block := &Block{
			Key:     key,
			Value:   *req.Value,
			Type:    TypeText,
			Section: DefaultSection,
		}
		applyOptional(block, req)

		if err := tx.Insert(ctx, block); err != nil {
			return nil, err
		}
		return block, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.InsertVersion(ctx, key, current.Value); err != nil {
		return nil, err
	}

	current.Value = *req.Value
	applyOptional(current, req)

	if err := tx.Overwrite(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// BulkUpdate applies every entry as an Update in a single transaction.
// Either all entries land or none do.
func (s *Service) BulkUpdate(
	ctx context.Context,
	entries []BulkUpdateEntry,
) ([]Block, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf(
			"bulk update: %w: %w",
			ErrNoBlocks, core.ErrInvalidInput,
		)
	}
	for _, e := range entries {
		if err := validateUpdate(e.Key, e.UpdateBlockRequest); err != nil {
			return nil, err
		}
	}

	out := make([]Block, 0, len(entries))
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		for _, e := range entries {
			b, err := s.update(ctx, tx, e.Key, e.UpdateBlockRequest)
			if err != nil {
				return fmt.Errorf("bulk update %q: %w", e.Key, err)
			}
			out = append(out, *b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetVersions returns up to MaxVersions snapshots for key, newest first.
// History left behind by a block removed out of band is still returned.
func (s *Service) GetVersions(ctx context.Context, key string) ([]Version, error) {
	return s.repo.ListVersions(ctx, key, MaxVersions)
}

// Rollback restores the value held by version versionID. The restore is a
// regular Update, so the value being replaced is itself versioned. The
// version that was restored is then dropped from history.
func (s *Service) Rollback(
	ctx context.Context,
	key string,
	versionID int64,
) (*Block, error) {
	ctx, span := core.StartSpan(ctx, "content.rollback",
		attribute.String("content.key", key),
		attribute.Int64("content.version_id", versionID),
	)
	defer span.End()

	var out *Block
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		v, err := tx.GetVersion(ctx, key, versionID)
		if err != nil {
			return err
		}

		b, err := s.update(ctx, tx, key, UpdateBlockRequest{Value: &v.Value})
		if err != nil {
			return err
		}

		if err := tx.DeleteVersion(ctx, key, versionID); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return out, nil
}

// Delete removes the block at key together with its whole history.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.GetForUpdate(ctx, key); err != nil {
			return err
		}
		if err := tx.DeleteVersions(ctx, key); err != nil {
			return err
		}
		return tx.Delete(ctx, key)
	})
}

func applyOptional(b *Block, req UpdateBlockRequest) {
	if req.Type != nil {
		b.Type = *req.Type
	}
	if req.Section != nil {
		b.Section = sectionOrDefault(*req.Section)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w %q: %w", ErrInvalidKey, key, core.ErrInvalidInput)
	}
	return nil
}

func validateUpdate(key string, req UpdateBlockRequest) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if req.Value == nil {
		return fmt.Errorf("update %q: %w: %w", key, ErrValueMissing, core.ErrInvalidInput)
	}
	if req.Type != nil && !req.Type.Valid() {
		return fmt.Errorf(
			"update %q: %w %q: %w",
			key, ErrInvalidType, *req.Type, core.ErrInvalidInput,
		)
	}
	return nil
}

func sectionOrDefault(section string) string {
	section = strings.ToLower(strings.TrimSpace(section))
	if section == "" {
		return DefaultSection
	}
	return section
}
