package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestTenureSummarizesSeasons(t *testing.T) {
	p := &stubProvider{seasons: []string{"2021/22", "2019/20", "2020/21"}}
	svc := NewTenureService(p, nil)

	got, err := svc.Get(context.Background(), 555)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SeasonsPlayed != 3 {
		t.Fatalf("seasons played = %d, want 3", got.SeasonsPlayed)
	}
	if got.FirstSeason != "2019/20" {
		t.Fatalf("first season = %q", got.FirstSeason)
	}
	if got.PlayingSinceYear != 2019 {
		t.Fatalf("playing since = %d, want 2019", got.PlayingSinceYear)
	}
}

func TestTenureEmptyHistory(t *testing.T) {
	svc := NewTenureService(&stubProvider{}, nil)

	got, err := svc.Get(context.Background(), 555)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SeasonsPlayed != 0 || got.FirstSeason != "" || got.PlayingSinceYear != 0 {
		t.Fatalf("got %+v, want zero tenure", got)
	}
}

func TestTenureRejectsInvalidEntry(t *testing.T) {
	svc := NewTenureService(&stubProvider{}, nil)
	if _, err := svc.Get(context.Background(), -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestSeasonStartYear(t *testing.T) {
	tests := []struct {
		season string
		want   int
	}{
		{"2019/20", 2019},
		{"2024/25", 2024},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := seasonStartYear(tt.season); got != tt.want {
			t.Fatalf("seasonStartYear(%q) = %d, want %d", tt.season, got, tt.want)
		}
	}
}
