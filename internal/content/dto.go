// AngelaMos | 2026
// dto.go

package content

import (
	"time"
)

type CreateBlockRequest struct {
	Key     string    `json:"key"     validate:"required,max=128"`
	Value   string    `json:"value"   validate:"max=100000"`
	Type    BlockType `json:"type"    validate:"required,oneof=text rich_text image"`
	Section string    `json:"section" validate:"omitempty,max=64"`
}

// UpdateBlockRequest carries a new value. Type and Section are only changed
// when present.
type UpdateBlockRequest struct {
	Value   *string    `json:"value"             validate:"required,max=100000"`
	Type    *BlockType `json:"type,omitempty"    validate:"omitempty,oneof=text rich_text image"`
	Section *string    `json:"section,omitempty" validate:"omitempty,min=1,max=64"`
}

type BulkUpdateEntry struct {
	Key string `json:"key" validate:"required,max=128"`
	UpdateBlockRequest
}

type BulkUpdateRequest struct {
	Blocks []BulkUpdateEntry `json:"blocks" validate:"required,min=1,max=200,dive"`
}

type BlockResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      BlockType `json:"type"`
	Section   string    `json:"section"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VersionResponse struct {
	ID        int64     `json:"id"`
	BlockKey  string    `json:"block_key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func ToBlockResponse(b *Block) BlockResponse {
	return BlockResponse{
		Key:       b.Key,
		Value:     b.Value,
		Type:      b.Type,
		Section:   b.Section,
		UpdatedAt: b.UpdatedAt,
	}
}

func ToBlockResponseList(blocks []Block) []BlockResponse {
	responses := make([]BlockResponse, 0, len(blocks))
	for i := range blocks {
		responses = append(responses, ToBlockResponse(&blocks[i]))
	}
	return responses
}

func ToVersionResponseList(versions []Version) []VersionResponse {
	responses := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		responses = append(responses, VersionResponse{
			ID:        v.ID,
			BlockKey:  v.BlockKey,
			Value:     v.Value,
			CreatedAt: v.CreatedAt,
		})
	}
	return responses
}
