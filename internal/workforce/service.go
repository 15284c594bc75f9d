// AngelaMos | 2026
// service.go

package workforce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/middleware"
)

var (
	// ErrFounderRequired is returned when a non-founder tries to grant,
	// change or remove a FOUNDER entry.
	ErrFounderRequired = errors.New("founder required")

	// ErrFounderProtected guards the entry bound to the founder email.
	ErrFounderProtected = errors.New("founder entry is protected")

	ErrRoleNotAssignable = errors.New("role is not assignable")
)

// Service resolves verified identities onto workforce members and applies
// the rules for managing them. It is the only holder of the founder email.
type Service struct {
	repo         Repository
	founderEmail string
}

func NewService(repo Repository, founderEmail string) *Service {
	return &Service{
		repo:         repo,
		founderEmail: normalizeEmail(founderEmail),
	}
}

// Resolve returns the workforce member for subjectID, or nil when the
// caller is not workforce. A member whose stored or presented email is the
// founder email always comes back as FOUNDER; a divergent row is corrected
// in storage. An unknown subject presenting the founder email is
// provisioned as FOUNDER.
func (s *Service) Resolve(
	ctx context.Context,
	subjectID, email string,
) (*Member, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, fmt.Errorf("resolve identity: empty subject: %w", core.ErrInvalidInput)
	}
	email = normalizeEmail(email)

	member, err := s.repo.GetBySubjectID(ctx, subjectID)
	switch {
	case err == nil:
		return s.heal(ctx, member, email)
	case errors.Is(err, core.ErrNotFound):
	default:
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if email == "" || !s.isFounderEmail(email) {
		return nil, nil
	}

	return s.bootstrapFounder(ctx, subjectID, email)
}

func (s *Service) heal(
	ctx context.Context,
	member *Member,
	presentedEmail string,
) (*Member, error) {
	founder := s.isFounderEmail(member.Email) ||
		s.isFounderEmail(presentedEmail)

	if founder && member.Role != access.RoleFounder {
		if err := s.repo.UpdateRole(ctx, member.SubjectID, access.RoleFounder); err != nil {
			return nil, fmt.Errorf("restore founder role: %w", err)
		}
		slog.WarnContext(ctx, "founder role restored",
			"subject_id", member.SubjectID,
			"previous_role", string(member.Role),
		)
		member.Role = access.RoleFounder
	}

	if role, ok := access.NormalizeRole(string(member.Role)); ok {
		member.Role = role
	}

	return member, nil
}

func (s *Service) bootstrapFounder(
	ctx context.Context,
	subjectID, email string,
) (*Member, error) {
	member := &Member{
		SubjectID: subjectID,
		Email:     email,
		Role:      access.RoleFounder,
	}

	err := s.repo.Create(ctx, member)
	if errors.Is(err, core.ErrDuplicateKey) {
		// a concurrent first request won the insert
		existing, getErr := s.repo.GetBySubjectID(ctx, subjectID)
		if getErr != nil {
			return nil, fmt.Errorf("bootstrap founder: %w", getErr)
		}
		return s.heal(ctx, existing, email)
	}
	if err != nil {
		return nil, fmt.Errorf("bootstrap founder: %w", err)
	}

	slog.InfoContext(ctx, "founder bootstrapped", "subject_id", subjectID)
	return member, nil
}

// ResolveIdentity adapts Resolve to the access guard.
func (s *Service) ResolveIdentity(
	ctx context.Context,
	cred middleware.Credential,
) (*middleware.Identity, error) {
	ctx, span := core.StartSpan(ctx, "workforce.resolve_identity")
	defer span.End()

	member, err := s.Resolve(ctx, cred.SubjectID, cred.Email)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	if member == nil {
		span.SetAttributes(attribute.Bool("workforce.member", false))
		return nil, nil
	}

	span.SetAttributes(
		attribute.Bool("workforce.member", true),
		attribute.String("workforce.role", string(member.Role)),
	)

	return &middleware.Identity{
		SubjectID: member.SubjectID,
		Email:     member.Email,
		Role:      member.Role,
	}, nil
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range members {
		if s.isFounderEmail(members[i].Email) {
			members[i].Role = access.RoleFounder
			continue
		}
		if role, ok := access.NormalizeRole(string(members[i].Role)); ok {
			members[i].Role = role
		}
	}

	return members, nil
}

// Grant creates or changes the workforce entry for subjectID on behalf of
// actor.
func (s *Service) Grant(
	ctx context.Context,
	actor access.Role,
	subjectID string,
	req GrantRequest,
) (*Member, error) {
	role := access.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.IsAssignable() {
		return nil, fmt.Errorf("grant %q: %w", req.Role, ErrRoleNotAssignable)
	}

	email := normalizeEmail(req.Email)

	if s.isFounderEmail(email) && role != access.RoleFounder {
		return nil, fmt.Errorf("grant: %w", ErrFounderProtected)
	}

	if role == access.RoleFounder && actor != access.RoleFounder {
		return nil, fmt.Errorf("grant founder: %w", ErrFounderRequired)
	}

	existing, err := s.repo.GetBySubjectID(ctx, subjectID)
	switch {
	case err == nil:
		if existing.IsFounder() && actor != access.RoleFounder {
			return nil, fmt.Errorf("change founder: %w", ErrFounderRequired)
		}
		if s.isFounderEmail(existing.Email) && !s.isFounderEmail(email) {
			return nil, fmt.Errorf("rebind founder: %w", ErrFounderProtected)
		}
	case errors.Is(err, core.ErrNotFound):
	default:
		return nil, fmt.Errorf("grant: %w", err)
	}

	owner, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if owner.SubjectID != subjectID {
			return nil, fmt.Errorf("grant: email in use: %w", core.ErrDuplicateKey)
		}
	case errors.Is(err, core.ErrNotFound):
	default:
		return nil, fmt.Errorf("grant: %w", err)
	}

	member := &Member{SubjectID: subjectID, Email: email, Role: role}
	if err := s.repo.Save(ctx, member); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "workforce role granted",
		"subject_id", subjectID,
		"role", string(role),
		"actor_role", string(actor),
	)

	return member, nil
}

// Remove deletes subjectID from the workforce. FOUNDER entries need a
// FOUNDER actor and the founder email entry cannot be removed at all.
func (s *Service) Remove(
	ctx context.Context,
	actor access.Role,
	subjectID string,
) error {
	member, err := s.repo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return err
	}

	if s.isFounderEmail(member.Email) {
		return fmt.Errorf("remove: %w", ErrFounderProtected)
	}

	if member.IsFounder() && actor != access.RoleFounder {
		return fmt.Errorf("remove founder: %w", ErrFounderRequired)
	}

	if err := s.repo.Delete(ctx, subjectID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "workforce member removed",
		"subject_id", subjectID,
		"actor_role", string(actor),
	)

	return nil
}

func (s *Service) isFounderEmail(email string) bool {
	return s.founderEmail != "" && normalizeEmail(email) == s.founderEmail
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ middleware.IdentityResolver = (*Service)(nil)
