package usecase

import (
	"context"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
)

// SquadPayload is a normalized squad straight off the wire, before catalog
// enrichment. SourceHadItems distinguishes a legitimately empty squad from
// a payload whose rows were all dropped during normalization.
type SquadPayload struct {
	Meta           squad.Meta
	Picks          []squad.Pick
	Dropped        int
	SourceHadItems bool
}

// UpstreamProvider is the outbound port to the FPL API and the optional
// aggregation backend.
type UpstreamProvider interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
	FetchStandings(ctx context.Context, leagueID int64) (standings.League, error)
	FetchEntryProfile(ctx context.Context, entryID int64) (squad.Meta, error)
	FetchSquad(ctx context.Context, entryID int64, gameweek int) (SquadPayload, error)
	FetchFixtures(ctx context.Context, gameweek int) ([]fixture.Fixture, error)
	FetchLivePoints(ctx context.Context, gameweek int) (map[int]int, error)
	FetchSeasonNames(ctx context.Context, entryID int64) ([]string, error)
	FetchSnapshots(ctx context.Context, leagueID int64) ([]history.Snapshot, error)
}

// SnapshotPublisher triggers a standings snapshot on the backend.
type SnapshotPublisher interface {
	Publish(ctx context.Context, leagueID int64) error
}
