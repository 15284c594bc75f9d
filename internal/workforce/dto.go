// AngelaMos | 2026
// dto.go

package workforce

import (
	"time"

	"github.com/angelamos/sitehub/internal/access"
)

type GrantRequest struct {
	Email string `json:"email" validate:"required,mailbox,max=255"`
	Role  string `json:"role"  validate:"required,max=32"`
}

type MemberResponse struct {
	SubjectID string      `json:"subject_id"`
	Email     string      `json:"email"`
	Role      access.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type MeResponse struct {
	SubjectID    string              `json:"subject_id"`
	Email        string              `json:"email"`
	Role         access.Role         `json:"role"`
	Capabilities []access.Capability `json:"capabilities"`
}

func ToMemberResponse(m *Member) MemberResponse {
	return MemberResponse{
		SubjectID: m.SubjectID,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToMemberResponseList(members []Member) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, ToMemberResponse(&members[i]))
	}
	return responses
}
