// AngelaMos | 2026
// dto.go

package media

import (
	"time"
)

type AssetResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Checksum    string    `json:"checksum"`
	URL         string    `json:"url"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type UploadResponse struct {
	Asset     AssetResponse `json:"asset"`
	Duplicate bool          `json:"duplicate"`
}

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToAssetResponse(a *Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Checksum:    a.Checksum,
		URL:         a.URL,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}

func ToAssetResponseList(assets []Asset) []AssetResponse {
	responses := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		responses = append(responses, ToAssetResponse(&assets[i]))
	}
	return responses
}
