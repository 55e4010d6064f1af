package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
)

func TestStandingsRejectsInvalidLeague(t *testing.T) {
	svc := NewStandingsService(&stubProvider{}, nil)
	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestStandingsPassesThroughRows(t *testing.T) {
	p := &stubProvider{
		league: standings.League{
			Name: "Office League",
			Rows: []standings.Row{
				{EntryID: 1, EntryName: "Top Squad", Rank: 1, Total: 100},
				{EntryID: 2, EntryName: "Runner Up", Rank: 2, Total: 90},
			},
		},
	}
	svc := NewStandingsService(p, nil)

	got, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("league id = %d, want 42", got.ID)
	}
	if len(got.Rows) != 2 || got.Rows[0].EntryName != "Top Squad" {
		t.Fatalf("rows = %+v", got.Rows)
	}
}

func TestStandingsUpstreamErrorPropagates(t *testing.T) {
	p := &stubProvider{standingsErr: ErrUpstreamUnavailable}
	svc := NewStandingsService(p, nil)

	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("got %v, want ErrUpstreamUnavailable", err)
	}
}
