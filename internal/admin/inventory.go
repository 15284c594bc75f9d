// AngelaMos | 2026
// inventory.go

package admin

import (
	"context"
	"fmt"

	"github.com/angelamos/sitehub/internal/core"
)

// Inventory summarizes what the site currently holds.
type Inventory struct {
	WorkforceByRole   map[string]int `json:"workforce_by_role"`
	ContentBySection  map[string]int `json:"content_by_section"`
	ContentVersions   int            `json:"content_versions"`
	SubmissionsByKind map[string]int `json:"submissions_by_kind"`
	UnreadSubmissions int            `json:"unread_submissions"`
	MediaAssets       int            `json:"media_assets"`
	MediaBytes        int64          `json:"media_bytes"`
}

type InventoryReader interface {
	Inventory(ctx context.Context) (*Inventory, error)
}

type inventoryRepository struct {
	db core.DBTX
}

func NewInventoryRepository(db core.DBTX) InventoryReader {
	return &inventoryRepository{db: db}
}

type groupCount struct {
	Name  string `db:"name"`
	Count int    `db:"count"`
}

func (r *inventoryRepository) Inventory(ctx context.Context) (*Inventory, error) {
	inv := &Inventory{}

	var err error
	inv.WorkforceByRole, err = r.grouped(ctx,
		`SELECT role AS name, COUNT(*) AS count
		 FROM workforce_members GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count workforce: %w", err)
	}

	inv.ContentBySection, err = r.grouped(ctx,
		`SELECT section AS name, COUNT(*) AS count
		 FROM content_blocks GROUP BY section`)
	if err != nil {
		return nil, fmt.Errorf("count content: %w", err)
	}

	if err := r.db.GetContext(ctx, &inv.ContentVersions,
		`SELECT COUNT(*) FROM content_block_versions`); err != nil {
		return nil, fmt.Errorf("count content versions: %w", err)
	}

	inv.SubmissionsByKind, err = r.grouped(ctx,
		`SELECT kind AS name, COUNT(*) AS count
		 FROM submissions GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	if err := r.db.GetContext(ctx, &inv.UnreadSubmissions,
		`SELECT COUNT(*) FROM submissions WHERE status = 'new'`); err != nil {
		return nil, fmt.Errorf("count unread submissions: %w", err)
	}

	var media struct {
		Count int   `db:"count"`
		Bytes int64 `db:"bytes"`
	}
	if err := r.db.GetContext(ctx, &media,
		`SELECT COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS bytes
		 FROM media_assets`); err != nil {
		return nil, fmt.Errorf("count media: %w", err)
	}
	inv.MediaAssets = media.Count
	inv.MediaBytes = media.Bytes

	return inv, nil
}

func (r *inventoryRepository) grouped(
	ctx context.Context,
	query string,
) (map[string]int, error) {
	var rows []groupCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Count
	}
	return out, nil
}
