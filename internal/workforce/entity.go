// AngelaMos | 2026
// entity.go

package workforce

import (
	"time"

	"github.com/angelamos/sitehub/internal/access"
)

// Member is one staff identity allowed into the hub. SubjectID is the
// identity provider's opaque subject.
type Member struct {
	SubjectID string      `db:"subject_id"`
	Email     string      `db:"email"`
	Role      access.Role `db:"role"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (m *Member) IsFounder() bool {
	return m.Role == access.RoleFounder
}
