// AngelaMos | 2026
// entity.go

package media

import (
	"time"
)

// Asset is an uploaded file. Checksum is the BLAKE2b-256 of its bytes and
// is unique, so one file is only ever stored once.
type Asset struct {
	ID          string    `db:"id"`
	Filename    string    `db:"filename"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	Checksum    string    `db:"checksum"`
	StorageKey  string    `db:"storage_key"`
	URL         string    `db:"url"`
	UploadedBy  string    `db:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at"`
}
