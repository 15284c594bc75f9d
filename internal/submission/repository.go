// AngelaMos | 2026
// repository.go

package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/angelamos/sitehub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, kind Kind, id string) (*Submission, error)
	List(ctx context.Context, params ListParams) ([]Submission, int, error)
	UpdateStatus(ctx context.Context, kind Kind, id string, status Status) (*Submission, error)
	Delete(ctx context.Context, kind Kind, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const submissionColumns = `id, kind, name, email, phone, company, service,
		position, message, status, source_hash, created_at, updated_at`

func (r *repository) Create(ctx context.Context, s *Submission) error {
	query := `
		INSERT INTO submissions (id, kind, name, email, phone, company,
		                         service, position, message, status, source_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.Kind,
		s.Name,
		s.Email,
		s.Phone,
		s.Company,
		s.Service,
		s.Position,
		s.Message,
		s.Status,
		s.SourceHash,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	kind Kind,
	id string,
) (*Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE id = $1 AND kind = $2`

	var s Submission
	err := r.db.GetContext(ctx, &s, query, id, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get submission: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	return &s, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Submission, int, error) {
	params.Normalize()

	conditions := []string{"kind = $1"}
	args := []any{params.Kind}
	argIdx := 2

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM submissions WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM submissions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		submissionColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	subs := []Submission{}
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}

	return subs, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	kind Kind,
	id string,
	status Status,
) (*Submission, error) {
	query := `
		UPDATE submissions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND kind = $2
		RETURNING ` + submissionColumns

	var s Submission
	err := r.db.GetContext(ctx, &s, query, id, kind, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update submission status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update submission status: %w", err)
	}

	return &s, nil
}

func (r *repository) Delete(ctx context.Context, kind Kind, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete submission: %w", core.ErrNotFound)
	}

	return nil
}
