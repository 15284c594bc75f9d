// AngelaMos | 2026
// dto.go

package submission

import (
	"time"
)

// ContactRequest is the public contact form. Website is a honeypot that
// real visitors never see.
type ContactRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=120"`
	Email   string `json:"email"   validate:"required,mailbox,max=255"`
	Phone   string `json:"phone"   validate:"omitempty,max=40"`
	Company string `json:"company" validate:"omitempty,max=120"`
	Service string `json:"service" validate:"omitempty,max=120"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
	Website string `json:"website" validate:"omitempty,max=255"`
}

type ApplicationRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=120"`
	Email    string `json:"email"    validate:"required,mailbox,max=255"`
	Phone    string `json:"phone"    validate:"omitempty,max=40"`
	Position string `json:"position" validate:"required,min=1,max=120"`
	Message  string `json:"message"  validate:"omitempty,max=5000"`
	Website  string `json:"website"  validate:"omitempty,max=255"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new read archived"`
}

type ReceiptResponse struct {
	Received bool `json:"received"`
}

type SubmissionResponse struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Service   string    `json:"service,omitempty"`
	Position  string    `json:"position,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListParams struct {
	Kind     Kind
	Status   Status
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToSubmissionResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        s.ID,
		Kind:      s.Kind,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Company:   s.Company,
		Service:   s.Service,
		Position:  s.Position,
		Message:   s.Message,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSubmissionResponseList(subs []Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(subs))
	for i := range subs {
		responses = append(responses, ToSubmissionResponse(&subs[i]))
	}
	return responses
}
