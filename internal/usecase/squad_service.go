package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

// SquadService assembles an entry's gameweek squad: normalized picks off
// the wire, enriched against the reference catalog, with live points
// applied when the payload itself carried none.
type SquadService struct {
	provider UpstreamProvider
	catalogs *CatalogService
	logger   *logging.Logger
}

func NewSquadService(provider UpstreamProvider, catalogs *CatalogService, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SquadService{
		provider: provider,
		catalogs: catalogs,
		logger:   logger,
	}
}

func (s *SquadService) GetSquad(ctx context.Context, entryID int64) (squad.Squad, error) {
	if entryID <= 0 {
		return squad.Squad{}, crerr.Wrapf(ErrInvalidInput, "entry id %d", entryID)
	}

	// The catalog drives gameweek resolution and every enrichment lookup,
	// so its failure aborts the request. Per-player misses only degrade.
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return squad.Squad{}, crerr.Wrap(err, "load reference catalog")
	}
	gameweek := cat.CurrentGameweek()

	var (
		payload    SquadPayload
		payloadErr error
		profile    squad.Meta
		profileErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		payload, payloadErr = s.provider.FetchSquad(ctx, entryID, gameweek)
	})
	wg.Go(func() {
		profile, profileErr = s.provider.FetchEntryProfile(ctx, entryID)
	})
	wg.Wait()

	if payloadErr != nil {
		return squad.Squad{}, payloadErr
	}
	if profileErr != nil {
		s.logger.WarnContext(ctx, "entry profile fetch failed, using payload meta only",
			"entry_id", entryID, "error", profileErr)
		profile = squad.Meta{}
	}

	picks, droppedHere := enrichPicks(payload.Picks, cat)
	dropped := payload.Dropped + droppedHere
	if dropped > 0 {
		s.logger.InfoContext(ctx, "dropped unresolvable picks",
			"entry_id", entryID, "dropped", dropped, "kept", len(picks))
	}
	if len(picks) == 0 && payload.SourceHadItems {
		return squad.Squad{}, crerr.Wrapf(ErrNoUsableData, "entry %d gameweek %d", entryID, gameweek)
	}

	meta := mergeMeta(payload.Meta, profile, entryID, gameweek)

	if len(picks) > 0 && !anyPickScored(picks) {
		s.applyLivePoints(ctx, picks, meta.Gameweek)
	}

	return squad.Squad{Meta: meta, Picks: picks}, nil
}

// enrichPicks backfills names, teams, and positions from the catalog and
// drops picks whose position stays unresolvable.
func enrichPicks(picks []squad.Pick, cat *catalog.Catalog) ([]squad.Pick, int) {
	out := make([]squad.Pick, 0, len(picks))
	dropped := 0
	for _, p := range picks {
		el, known := cat.Elements[p.ElementID]
		if p.Position == "" && known {
			p.Position = el.Position
		}
		if p.Position == "" {
			dropped++
			continue
		}
		if p.TeamID == 0 && known {
			p.TeamID = el.TeamID
		}
		if p.Name == "" {
			p.Name = cat.PlayerName(p.ElementID)
		}
		p.TeamLabel = cat.TeamLabel(p.TeamID)
		if p.Multiplier < 1 {
			p.Multiplier = 1
		}
		out = append(out, p)
	}
	return out, dropped
}

func anyPickScored(picks []squad.Pick) bool {
	for _, p := range picks {
		if p.Points != nil {
			return true
		}
	}
	return false
}

func (s *SquadService) applyLivePoints(ctx context.Context, picks []squad.Pick, gameweek int) {
	live, err := s.provider.FetchLivePoints(ctx, gameweek)
	if err != nil {
		s.logger.WarnContext(ctx, "live points fetch failed, serving squad without scores",
			"gameweek", gameweek, "error", err)
		return
	}
	for i := range picks {
		if raw, ok := live[picks[i].ElementID]; ok {
			effective := squad.EffectivePoints(raw, picks[i].Multiplier)
			picks[i].Points = &effective
		}
	}
}

func mergeMeta(payload, profile squad.Meta, entryID int64, gameweek int) squad.Meta {
	meta := payload
	if meta.EntryID == 0 {
		meta.EntryID = profile.EntryID
	}
	if meta.EntryID == 0 {
		meta.EntryID = int(entryID)
	}
	if meta.TeamName == "" {
		meta.TeamName = profile.TeamName
	}
	if meta.ManagerName == "" {
		meta.ManagerName = profile.ManagerName
	}
	if meta.Gameweek == 0 {
		meta.Gameweek = profile.Gameweek
	}
	if meta.Gameweek == 0 {
		meta.Gameweek = gameweek
	}
	return meta
}
