package usecase

import (
	"context"
	"sync"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
)

type stubProvider struct {
	mu sync.Mutex

	catalog      *catalog.Catalog
	catalogErr   error
	catalogCalls int

	league       standings.League
	standingsErr error

	payload  SquadPayload
	squadErr error
	squadGW  int

	profile    squad.Meta
	profileErr error

	fixturesByGW map[int][]fixture.Fixture
	fixturesErr  error

	live      map[int]int
	liveErr   error
	liveCalls int

	seasons    []string
	seasonsErr error

	snapshots    []history.Snapshot
	snapshotsErr error
}

func (p *stubProvider) FetchCatalog(context.Context) (*catalog.Catalog, error) {
	p.mu.Lock()
	p.catalogCalls++
	p.mu.Unlock()
	if p.catalogErr != nil {
		return nil, p.catalogErr
	}
	if p.catalog != nil {
		return p.catalog, nil
	}
	return &catalog.Catalog{}, nil
}

func (p *stubProvider) FetchStandings(_ context.Context, leagueID int64) (standings.League, error) {
	if p.standingsErr != nil {
		return standings.League{}, p.standingsErr
	}
	league := p.league
	league.ID = leagueID
	return league, nil
}

func (p *stubProvider) FetchEntryProfile(context.Context, int64) (squad.Meta, error) {
	if p.profileErr != nil {
		return squad.Meta{}, p.profileErr
	}
	return p.profile, nil
}

func (p *stubProvider) FetchSquad(_ context.Context, _ int64, gameweek int) (SquadPayload, error) {
	p.mu.Lock()
	p.squadGW = gameweek
	p.mu.Unlock()
	if p.squadErr != nil {
		return SquadPayload{}, p.squadErr
	}
	return p.payload, nil
}

func (p *stubProvider) FetchFixtures(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	if p.fixturesErr != nil {
		return nil, p.fixturesErr
	}
	return p.fixturesByGW[gameweek], nil
}

func (p *stubProvider) FetchLivePoints(context.Context, int) (map[int]int, error) {
	p.mu.Lock()
	p.liveCalls++
	p.mu.Unlock()
	if p.liveErr != nil {
		return nil, p.liveErr
	}
	return p.live, nil
}

func (p *stubProvider) FetchSeasonNames(context.Context, int64) ([]string, error) {
	if p.seasonsErr != nil {
		return nil, p.seasonsErr
	}
	return p.seasons, nil
}

func (p *stubProvider) FetchSnapshots(context.Context, int64) ([]history.Snapshot, error) {
	if p.snapshotsErr != nil {
		return nil, p.snapshotsErr
	}
	return p.snapshots, nil
}

func referenceCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Events: []catalog.Event{
			{ID: 1, Finished: true},
			{ID: 2, IsCurrent: true},
			{ID: 3},
		},
		Teams: map[int]catalog.Team{
			1: {ID: 1, Name: "Arsenal", ShortName: "ARS"},
			2: {ID: 2, Name: "Liverpool", ShortName: "LIV"},
		},
		Elements: map[int]catalog.Element{
			7:  {ID: 7, WebName: "Saka", TeamID: 1, Position: catalog.PositionMidfielder},
			11: {ID: 11, WebName: "Salah", TeamID: 2, Position: catalog.PositionMidfielder},
		},
	}
}
