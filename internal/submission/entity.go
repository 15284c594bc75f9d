// AngelaMos | 2026
// entity.go

package submission

import (
	"time"
)

type Kind string

const (
	KindContact     Kind = "contact"
	KindApplication Kind = "application"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusArchived:
		return true
	default:
		return false
	}
}

// Submission is a lead captured by one of the public forms. SourceHash is a
// keyed hash of the client address, never the address itself.
type Submission struct {
	ID         string    `db:"id"`
	Kind       Kind      `db:"kind"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	Company    string    `db:"company"`
	Service    string    `db:"service"`
	Position   string    `db:"position"`
	Message    string    `db:"message"`
	Status     Status    `db:"status"`
	SourceHash string    `db:"source_hash"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
