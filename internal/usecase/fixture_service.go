package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

// FixtureService serves fixtures ready for display: normalized, then
// ordered by stage and kickoff.
type FixtureService struct {
	provider UpstreamProvider
	logger   *logging.Logger
}

func NewFixtureService(provider UpstreamProvider, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureService{provider: provider, logger: logger}
}

// List returns fixtures for one gameweek, or the whole season when
// gameweek is zero.
func (s *FixtureService) List(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	if gameweek < 0 {
		return nil, crerr.Wrapf(ErrInvalidInput, "gameweek %d", gameweek)
	}

	fixtures, err := s.provider.FetchFixtures(ctx, gameweek)
	if err != nil {
		return nil, err
	}

	fixture.SortForDisplay(fixtures)
	return fixtures, nil
}
