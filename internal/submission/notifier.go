// AngelaMos | 2026
// notifier.go

package submission

import (
	"context"
	"log/slog"
)

// Notifier tells staff about a new lead. Delivery is best effort; a failed
// notification never fails the submission.
type Notifier interface {
	Notify(ctx context.Context, s *Submission) error
}

// LogNotifier writes new leads to the structured log. It stands in for an
// email provider.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, s *Submission) error {
	n.logger.InfoContext(ctx, "new submission",
		"id", s.ID,
		"kind", string(s.Kind),
		"email", s.Email,
		"service", s.Service,
		"position", s.Position,
	)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
