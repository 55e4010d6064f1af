package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

// HistoryService lists the snapshot index the backend keeps per league.
type HistoryService struct {
	provider UpstreamProvider
	logger   *logging.Logger
}

func NewHistoryService(provider UpstreamProvider, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryService{provider: provider, logger: logger}
}

func (s *HistoryService) List(ctx context.Context, leagueID int64) ([]history.Snapshot, error) {
	if leagueID <= 0 {
		return nil, crerr.Wrapf(ErrInvalidInput, "league id %d", leagueID)
	}

	snapshots, err := s.provider.FetchSnapshots(ctx, leagueID)
	if crerr.Is(err, ErrDependencyUnavailable) {
		// No backend means no archive; serve an empty index rather than 503.
		s.logger.DebugContext(ctx, "snapshot index unavailable, serving empty history",
			"league_id", leagueID, "error", err)
		return []history.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// SnapshotService triggers standings captures on the backend.
type SnapshotService struct {
	publisher SnapshotPublisher
	logger    *logging.Logger
}

func NewSnapshotService(publisher SnapshotPublisher, logger *logging.Logger) *SnapshotService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotService{publisher: publisher, logger: logger}
}

func (s *SnapshotService) Trigger(ctx context.Context, leagueID int64) error {
	if leagueID <= 0 {
		return crerr.Wrapf(ErrInvalidInput, "league id %d", leagueID)
	}
	if s.publisher == nil {
		return crerr.Wrap(ErrDependencyUnavailable, "snapshot publisher disabled")
	}

	if err := s.publisher.Publish(ctx, leagueID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "snapshot triggered", "league_id", leagueID)
	return nil
}
