// AngelaMos | 2026
// entity.go

package content

import (
	"time"
)

type BlockType string

const (
	TypeText     BlockType = "text"
	TypeRichText BlockType = "rich_text"
	TypeImage    BlockType = "image"
)

func (t BlockType) Valid() bool {
	switch t {
	case TypeText, TypeRichText, TypeImage:
		return true
	default:
		return false
	}
}

const (
	SectionSEO     = "seo"
	DefaultSection = "general"

	// MaxVersions caps how much history GetVersions returns.
	MaxVersions = 20
)

// Block is one named piece of editable site copy. Key is unique across
// all sections.
type Block struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	Type      BlockType `db:"type"`
	Section   string    `db:"section"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Version holds the value a block had immediately before one overwrite.
type Version struct {
	ID        int64     `db:"id"`
	BlockKey  string    `db:"block_key"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
}
