package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

// TenureService derives how long a manager has played from the entry's
// past-season history.
type TenureService struct {
	provider UpstreamProvider
	logger   *logging.Logger
}

func NewTenureService(provider UpstreamProvider, logger *logging.Logger) *TenureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TenureService{provider: provider, logger: logger}
}

func (s *TenureService) Get(ctx context.Context, entryID int64) (history.Tenure, error) {
	if entryID <= 0 {
		return history.Tenure{}, crerr.Wrapf(ErrInvalidInput, "entry id %d", entryID)
	}

	seasons, err := s.provider.FetchSeasonNames(ctx, entryID)
	if err != nil {
		return history.Tenure{}, err
	}

	sort.Strings(seasons)
	tenure := history.Tenure{
		EntryID:       int(entryID),
		SeasonsPlayed: len(seasons),
		Seasons:       seasons,
	}
	if len(seasons) > 0 {
		tenure.FirstSeason = seasons[0]
		tenure.PlayingSinceYear = seasonStartYear(seasons[0])
	}
	return tenure, nil
}

// seasonStartYear parses the leading year of a season label like "2019/20".
func seasonStartYear(season string) int {
	head, _, _ := strings.Cut(season, "/")
	year, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return year
}
