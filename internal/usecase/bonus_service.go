package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

const seasonTallyWorkers = 4

// BonusRank is one row of a bonus leaderboard.
type BonusRank struct {
	ElementID  int
	PlayerName string
	Bonus      int
}

// BonusService builds bonus-point leaderboards from fixture stat blocks.
type BonusService struct {
	provider UpstreamProvider
	catalogs *CatalogService
	logger   *logging.Logger
}

func NewBonusService(provider UpstreamProvider, catalogs *CatalogService, logger *logging.Logger) *BonusService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BonusService{
		provider: provider,
		catalogs: catalogs,
		logger:   logger,
	}
}

// Tally sums the bonus stat across every fixture of one gameweek.
func (s *BonusService) Tally(ctx context.Context, gameweek int) ([]BonusRank, error) {
	if gameweek < 1 {
		return nil, crerr.Wrapf(ErrInvalidInput, "gameweek %d", gameweek)
	}

	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "load reference catalog")
	}

	fixtures, err := s.provider.FetchFixtures(ctx, gameweek)
	if err != nil {
		return nil, err
	}

	ranks := tallyBonus(fixtures)
	for i := range ranks {
		ranks[i].PlayerName = cat.PlayerName(ranks[i].ElementID)
	}
	return ranks, nil
}

// SeasonTally aggregates bonus points across every finished gameweek.
// Fixture pages are fetched through a bounded worker pool; a failed
// gameweek is skipped, and the tally only errors when no page loads.
func (s *BonusService) SeasonTally(ctx context.Context) ([]BonusRank, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "load reference catalog")
	}

	gameweeks := cat.FinishedGameweeks()
	if len(gameweeks) == 0 {
		return []BonusRank{}, nil
	}

	pool, err := ants.NewPool(seasonTallyWorkers)
	if err != nil {
		return nil, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	pages := make([][]fixture.Fixture, len(gameweeks))
	var failures atomic.Int32
	var wg sync.WaitGroup
	for i, gw := range gameweeks {
		i, gw := i, gw
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			fixtures, fetchErr := s.provider.FetchFixtures(ctx, gw)
			if fetchErr != nil {
				failures.Add(1)
				s.logger.WarnContext(ctx, "season tally skipped gameweek",
					"gameweek", gw, "error", fetchErr)
				return
			}
			pages[i] = fixtures
		}); submitErr != nil {
			wg.Done()
			failures.Add(1)
			s.logger.WarnContext(ctx, "season tally submit failed",
				"gameweek", gw, "error", submitErr)
		}
	}
	wg.Wait()

	if int(failures.Load()) == len(gameweeks) {
		return nil, crerr.Wrap(ErrUpstreamUnavailable, "season tally: every gameweek fetch failed")
	}

	// Merge in gameweek order so tie ranks stay deterministic.
	var all []fixture.Fixture
	for _, page := range pages {
		all = append(all, page...)
	}
	ranks := tallyBonus(all)
	for i := range ranks {
		ranks[i].PlayerName = cat.PlayerName(ranks[i].ElementID)
	}
	return ranks, nil
}

// tallyBonus groups the bonus stat by element across home and away blocks.
// Ranks are ordered by total descending; ties keep first-seen input order.
func tallyBonus(fixtures []fixture.Fixture) []BonusRank {
	index := make(map[int]int)
	out := make([]BonusRank, 0)
	for _, f := range fixtures {
		for _, stat := range f.Stats {
			if stat.Identifier != fixture.StatBonus {
				continue
			}
			for _, side := range [][]fixture.StatValue{stat.Home, stat.Away} {
				for _, sv := range side {
					if pos, ok := index[sv.Element]; ok {
						out[pos].Bonus += sv.Value
						continue
					}
					index[sv.Element] = len(out)
					out = append(out, BonusRank{ElementID: sv.Element, Bonus: sv.Value})
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bonus > out[j].Bonus })
	return out
}
