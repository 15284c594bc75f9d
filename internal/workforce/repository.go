// AngelaMos | 2026
// repository.go

package workforce

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
)

type Repository interface {
	GetBySubjectID(ctx context.Context, subjectID string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	Create(ctx context.Context, member *Member) error
	Save(ctx context.Context, member *Member) error
	UpdateRole(ctx context.Context, subjectID string, role access.Role) error
	Delete(ctx context.Context, subjectID string) error
	List(ctx context.Context) ([]Member, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetBySubjectID(
	ctx context.Context,
	subjectID string,
) (*Member, error) {
	query := `
		SELECT subject_id, email, role, created_at, updated_at
		FROM workforce_members
		WHERE subject_id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get workforce member: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get workforce member: %w", err)
	}

	return &m, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Member, error) {
	query := `
		SELECT subject_id, email, role, created_at, updated_at
		FROM workforce_members
		WHERE lower(email) = lower($1)
		ORDER BY created_at
		LIMIT 1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"get workforce member by email: %w",
			core.ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get workforce member by email: %w", err)
	}

	return &m, nil
}

func (r *repository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO workforce_members (subject_id, email, role)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, m.SubjectID, m.Email, m.Role).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create workforce member: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create workforce member: %w", err)
	}

	return nil
}

// Save inserts the member or overwrites email and role of the existing row
// for the same subject.
func (r *repository) Save(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO workforce_members (subject_id, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id) DO UPDATE
		SET email = EXCLUDED.email, role = EXCLUDED.role, updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, m.SubjectID, m.Email, m.Role).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save workforce member: %w", err)
	}

	return nil
}

func (r *repository) UpdateRole(
	ctx context.Context,
	subjectID string,
	role access.Role,
) error {
	query := `
		UPDATE workforce_members
		SET role = $2, updated_at = NOW()
		WHERE subject_id = $1`

	result, err := r.db.ExecContext(ctx, query, subjectID, role)
	if err != nil {
		return fmt.Errorf("update workforce role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update workforce role: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update workforce role: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, subjectID string) error {
	query := `DELETE FROM workforce_members WHERE subject_id = $1`

	result, err := r.db.ExecContext(ctx, query, subjectID)
	if err != nil {
		return fmt.Errorf("delete workforce member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workforce member: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete workforce member: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Member, error) {
	query := `
		SELECT subject_id, email, role, created_at, updated_at
		FROM workforce_members
		ORDER BY created_at, subject_id`

	var members []Member
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list workforce members: %w", err)
	}

	return members, nil
}
