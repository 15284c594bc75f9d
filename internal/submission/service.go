// AngelaMos | 2026
// service.go

package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/sitehub/internal/core"
)

const notifyTimeout = 10 * time.Second

var ErrInvalidStatus = errors.New("invalid submission status")

type Service struct {
	repo     Repository
	notifier Notifier
	hashKey  string
}

// NewService wires the lead store. hashKey scopes the client address
// hashes to this deployment.
func NewService(repo Repository, notifier Notifier, hashKey string) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		hashKey:  hashKey,
	}
}

func (s *Service) SubmitContact(
	ctx context.Context,
	req ContactRequest,
	clientIP string,
) (*Submission, error) {
	sub := &Submission{
		Kind:    KindContact,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Service: strings.TrimSpace(req.Service),
		Message: strings.TrimSpace(req.Message),
	}

	return s.submit(ctx, sub, req.Website, clientIP)
}

func (s *Service) SubmitApplication(
	ctx context.Context,
	req ApplicationRequest,
	clientIP string,
) (*Submission, error) {
	sub := &Submission{
		Kind:     KindApplication,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Position: strings.TrimSpace(req.Position),
		Message:  strings.TrimSpace(req.Message),
	}

	return s.submit(ctx, sub, req.Website, clientIP)
}

// submit stores sub and notifies staff. A filled honeypot is accepted
// silently and dropped; the returned submission is then nil.
func (s *Service) submit(
	ctx context.Context,
	sub *Submission,
	honeypot, clientIP string,
) (*Submission, error) {
	sourceHash := core.HashIdentifier(clientIP, s.hashKey)

	if strings.TrimSpace(honeypot) != "" {
		slog.WarnContext(ctx, "honeypot submission dropped",
			"kind", string(sub.Kind),
			"source_hash", sourceHash,
		)
		return nil, nil
	}

	if sub.Name == "" || sub.Email == "" {
		return nil, fmt.Errorf("submit %s: %w", sub.Kind, core.ErrInvalidInput)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("submit %s: generate id: %w", sub.Kind, err)
	}

	sub.ID = id.String()
	sub.Status = StatusNew
	sub.SourceHash = sourceHash

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.notify(ctx, sub)

	return sub, nil
}

func (s *Service) notify(ctx context.Context, sub *Submission) {
	if s.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx),
		notifyTimeout,
	)
	defer cancel()

	if err := s.notifier.Notify(notifyCtx, sub); err != nil {
		slog.ErrorContext(ctx, "submission notification failed",
			"id", sub.ID,
			"kind", string(sub.Kind),
			"error", err,
		)
	}
}

func (s *Service) Get(ctx context.Context, kind Kind, id string) (*Submission, error) {
	return s.repo.GetByID(ctx, kind, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Submission, int, error) {
	if params.Status != "" && !params.Status.Valid() {
		return nil, 0, fmt.Errorf("list submissions: %q: %w", params.Status, ErrInvalidStatus)
	}
	params.Normalize()

	return s.repo.List(ctx, params)
}

func (s *Service) SetStatus(
	ctx context.Context,
	kind Kind,
	id string,
	status Status,
) (*Submission, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("set status %q: %w", status, ErrInvalidStatus)
	}

	return s.repo.UpdateStatus(ctx, kind, id, status)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	return s.repo.Delete(ctx, kind, id)
}
