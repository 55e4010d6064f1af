package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

// StandingsService serves classic league tables.
type StandingsService struct {
	provider UpstreamProvider
	logger   *logging.Logger
}

func NewStandingsService(provider UpstreamProvider, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{provider: provider, logger: logger}
}

func (s *StandingsService) Get(ctx context.Context, leagueID int64) (standings.League, error) {
	if leagueID <= 0 {
		return standings.League{}, crerr.Wrapf(ErrInvalidInput, "league id %d", leagueID)
	}

	league, err := s.provider.FetchStandings(ctx, leagueID)
	if err != nil {
		return standings.League{}, err
	}

	s.logger.DebugContext(ctx, "standings fetched",
		"league_id", leagueID, "rows", len(league.Rows))
	return league, nil
}
