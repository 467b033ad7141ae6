// ABOUTME: Loads a snapshot and runs the triage engine over it
// ABOUTME: Any load failure fails the whole feed with a DataUnavailableError
package triage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

// Loader supplies a consistent read of all triage inputs.
type Loader interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
}

type Service struct {
	loader Loader
	engine *Engine
	logger *slog.Logger
}

func NewService(loader Loader, engine *Engine, logger *slog.Logger) *Service {
	return &Service{loader: loader, engine: engine, logger: logging.OrDiscard(logger)}
}

// ActionFeed computes the feed as of asOf. It returns either a complete feed or an error, never both.
func (s *Service) ActionFeed(ctx context.Context, asOf time.Time) (feed *ActionFeed, err error) {
	start := time.Now()
	defer func() {
		fields := []any{"as_of", asOf.Format(time.RFC3339)}
		if feed != nil {
			fields = append(fields,
				"overdue", feed.ActionRequired.OverdueTotal,
				"due_today", feed.ActionRequired.DueTodayTotal,
			)
		}
		logging.Observe(ctx, s.logger, "triage.action_feed", start, err, fields...)
	}()

	snap, err := s.loader.LoadSnapshot(ctx)
	if err != nil {
		var unavailable *models.DataUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, &models.DataUnavailableError{Op: "load triage snapshot", Err: err}
	}
	if snap == nil {
		return nil, &models.DataUnavailableError{Op: "load triage snapshot", Err: errors.New("no snapshot returned")}
	}
	return s.engine.Compute(snap, asOf), nil
}
