package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
)

func newSquadService(p *stubProvider) *SquadService {
	catalogs := NewCatalogService(p, time.Minute, nil)
	return NewSquadService(p, catalogs, nil)
}

func TestGetSquadRejectsInvalidEntry(t *testing.T) {
	svc := newSquadService(&stubProvider{})
	if _, err := svc.GetSquad(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestGetSquadEnrichesCaptainFromCatalogAndLivePoints(t *testing.T) {
	p := &stubProvider{
		catalog: referenceCatalog(),
		payload: SquadPayload{
			Picks:          []squad.Pick{{ElementID: 7, IsCaptain: true, Multiplier: 2}},
			SourceHadItems: true,
		},
		live: map[int]int{7: 8},
	}
	svc := newSquadService(p)

	got, err := svc.GetSquad(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetSquad: %v", err)
	}
	if len(got.Picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(got.Picks))
	}

	pick := got.Picks[0]
	if pick.Name != "Saka" {
		t.Fatalf("name = %q", pick.Name)
	}
	if pick.Position != "MID" {
		t.Fatalf("position = %q", pick.Position)
	}
	if pick.TeamLabel != "ARS" {
		t.Fatalf("team label = %q", pick.TeamLabel)
	}
	if pick.Points == nil || *pick.Points != 16 {
		t.Fatalf("points = %v, want 16 (8 doubled for captaincy)", pick.Points)
	}
	if got.Meta.Gameweek != 2 {
		t.Fatalf("gameweek = %d, want 2", got.Meta.Gameweek)
	}
}

func TestGetSquadDropsPickWithoutResolvablePosition(t *testing.T) {
	p := &stubProvider{
		catalog: referenceCatalog(),
		payload: SquadPayload{
			Picks: []squad.Pick{
				{ElementID: 7},
				{ElementID: 9999}, // unknown element, no position anywhere
			},
			SourceHadItems: true,
		},
	}
	svc := newSquadService(p)

	got, err := svc.GetSquad(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetSquad: %v", err)
	}
	if len(got.Picks) != 1 || got.Picks[0].ElementID != 7 {
		t.Fatalf("picks = %+v, want only element 7", got.Picks)
	}
}

func TestGetSquadAllPicksDroppedIsNoUsableData(t *testing.T) {
	p := &stubProvider{
		catalog: referenceCatalog(),
		payload: SquadPayload{
			Picks:          []squad.Pick{{ElementID: 9999}},
			SourceHadItems: true,
		},
	}
	svc := newSquadService(p)

	if _, err := svc.GetSquad(context.Background(), 555); !errors.Is(err, ErrNoUsableData) {
		t.Fatalf("got %v, want ErrNoUsableData", err)
	}
}

func TestGetSquadEmptySourceIsNotAnError(t *testing.T) {
	p := &stubProvider{
		catalog: referenceCatalog(),
		payload: SquadPayload{SourceHadItems: false},
		profile: squad.Meta{TeamName: "Lobster XI", ManagerName: "Sam"},
	}
	svc := newSquadService(p)

	got, err := svc.GetSquad(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetSquad: %v", err)
	}
	if len(got.Picks) != 0 {
		t.Fatalf("picks = %+v, want none", got.Picks)
	}
	if got.Meta.TeamName != "Lobster XI" || got.Meta.ManagerName != "Sam" {
		t.Fatalf("meta = %+v, want profile backfill", got.Meta)
	}
	if got.Meta.EntryID != 555 {
		t.Fatalf("entry id = %d, want 555", got.Meta.EntryID)
	}
}

func TestGetSquadCatalogFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	p := &stubProvider{catalogErr: boom}
	svc := newSquadService(p)

	if _, err := svc.GetSquad(context.Background(), 555); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}

func TestGetSquadSkipsLiveFetchWhenPayloadScored(t *testing.T) {
	points := 9
	p := &stubProvider{
		catalog: referenceCatalog(),
		payload: SquadPayload{
			Picks:          []squad.Pick{{ElementID: 7, Points: &points, Multiplier: 1}},
			SourceHadItems: true,
		},
		live: map[int]int{7: 99},
	}
	svc := newSquadService(p)

	got, err := svc.GetSquad(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetSquad: %v", err)
	}
	if p.liveCalls != 0 {
		t.Fatalf("live endpoint hit %d times, want 0", p.liveCalls)
	}
	if *got.Picks[0].Points != 9 {
		t.Fatalf("points = %d, want payload value 9", *got.Picks[0].Points)
	}
}

func TestGetSquadProfileFailureDegrades(t *testing.T) {
	p := &stubProvider{
		catalog:    referenceCatalog(),
		payload:    SquadPayload{Picks: []squad.Pick{{ElementID: 7}}, SourceHadItems: true},
		profileErr: errors.New("profile down"),
	}
	svc := newSquadService(p)

	got, err := svc.GetSquad(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetSquad: %v", err)
	}
	if got.Meta.EntryID != 555 {
		t.Fatalf("entry id = %d, want fallback 555", got.Meta.EntryID)
	}
}

func TestEffectivePointsDefaultsMultiplier(t *testing.T) {
	if got := squad.EffectivePoints(5, 0); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
	if got := squad.EffectivePoints(5, 3); got != 15 {
		t.Fatalf("got %d, want 15", got)
	}
}
