package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

type snapshotJobRequest struct {
	LeagueID int64 `json:"league_id" validate:"required,gt=0"`
}

func decodeSnapshotJobRequest(r *http.Request) (snapshotJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req snapshotJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return snapshotJobRequest{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return snapshotJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type bootstrapDTO struct {
	CurrentGameweek int        `json:"currentGameweek"`
	Events          []eventDTO `json:"events"`
	Teams           []teamDTO  `json:"teams"`
	PlayerCount     int        `json:"playerCount"`
}

type eventDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"isCurrent"`
	Finished  bool   `json:"finished"`
}

type teamDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type leagueDTO struct {
	ID   int64             `json:"id"`
	Name string            `json:"name"`
	Rows []standingsRowDTO `json:"rows"`
}

type standingsRowDTO struct {
	EntryID     int    `json:"entryId"`
	EntryName   string `json:"entryName"`
	ManagerName string `json:"managerName"`
	Rank        int    `json:"rank"`
	LastRank    int    `json:"lastRank"`
	Total       int    `json:"total"`
	EventTotal  *int   `json:"eventTotal,omitempty"`
}

type squadDTO struct {
	EntryID     int       `json:"entryId"`
	TeamName    string    `json:"teamName"`
	ManagerName string    `json:"managerName"`
	Gameweek    int       `json:"gameweek"`
	TotalPoints int       `json:"totalPoints"`
	Picks       []pickDTO `json:"picks"`
}

type pickDTO struct {
	ElementID     int    `json:"elementId"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	TeamID        int    `json:"teamId"`
	TeamLabel     string `json:"teamLabel"`
	Points        *int   `json:"points,omitempty"`
	Multiplier    int    `json:"multiplier"`
	IsCaptain     bool   `json:"isCaptain"`
	IsViceCaptain bool   `json:"isViceCaptain"`
}

type fixtureDTO struct {
	ID             int       `json:"id"`
	Gameweek       int       `json:"gameweek"`
	KickoffAt      string    `json:"kickoffAt,omitempty"`
	Stage          string    `json:"stage"`
	HomeTeamID     int       `json:"homeTeamId"`
	AwayTeamID     int       `json:"awayTeamId"`
	HomeScore      *int      `json:"homeScore,omitempty"`
	AwayScore      *int      `json:"awayScore,omitempty"`
	HomeDifficulty int       `json:"homeDifficulty"`
	AwayDifficulty int       `json:"awayDifficulty"`
	Stats          []statDTO `json:"stats,omitempty"`
}

type statDTO struct {
	Identifier string         `json:"identifier"`
	Home       []statValueDTO `json:"home"`
	Away       []statValueDTO `json:"away"`
}

type statValueDTO struct {
	Element int `json:"element"`
	Value   int `json:"value"`
}

type bonusRankDTO struct {
	ElementID  int    `json:"elementId"`
	PlayerName string `json:"playerName"`
	Bonus      int    `json:"bonus"`
}

type tenureDTO struct {
	EntryID          int      `json:"entryId"`
	SeasonsPlayed    int      `json:"seasonsPlayed"`
	FirstSeason      string   `json:"firstSeason,omitempty"`
	PlayingSinceYear int      `json:"playingSinceYear,omitempty"`
	Seasons          []string `json:"seasons"`
}

type snapshotDTO struct {
	LeagueID int64  `json:"leagueId"`
	Gameweek int    `json:"gameweek"`
	TakenAt  string `json:"takenAt"`
	Label    string `json:"label,omitempty"`
}

type snapshotJobResultDTO struct {
	LeagueID int64  `json:"leagueId"`
	Status   string `json:"status"`
}

func catalogToDTO(ctx context.Context, cat *catalog.Catalog) bootstrapDTO {
	ctx, span := startSpan(ctx, "httpapi.catalogToDTO")
	defer span.End()

	events := make([]eventDTO, 0, len(cat.Events))
	for _, ev := range cat.Events {
		events = append(events, eventDTO{
			ID:        ev.ID,
			Name:      ev.Name,
			IsCurrent: ev.IsCurrent,
			Finished:  ev.Finished,
		})
	}

	teams := make([]teamDTO, 0, len(cat.Teams))
	for _, team := range cat.Teams {
		teams = append(teams, teamDTO{
			ID:        team.ID,
			Name:      team.Name,
			ShortName: team.ShortName,
		})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })

	return bootstrapDTO{
		CurrentGameweek: cat.CurrentGameweek(),
		Events:          events,
		Teams:           teams,
		PlayerCount:     len(cat.Elements),
	}
}

func leagueToDTO(ctx context.Context, league standings.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	rows := make([]standingsRowDTO, 0, len(league.Rows))
	for _, row := range league.Rows {
		rows = append(rows, standingsRowDTO{
			EntryID:     row.EntryID,
			EntryName:   row.EntryName,
			ManagerName: row.ManagerName,
			Rank:        row.Rank,
			LastRank:    row.LastRank,
			Total:       row.Total,
			EventTotal:  row.EventTotal,
		})
	}

	return leagueDTO{
		ID:   league.ID,
		Name: league.Name,
		Rows: rows,
	}
}

func squadToDTO(ctx context.Context, item squad.Squad) squadDTO {
	ctx, span := startSpan(ctx, "httpapi.squadToDTO")
	defer span.End()

	picks := make([]pickDTO, 0, len(item.Picks))
	for _, pick := range item.Picks {
		picks = append(picks, pickDTO{
			ElementID:     pick.ElementID,
			Name:          pick.Name,
			Position:      string(pick.Position),
			TeamID:        pick.TeamID,
			TeamLabel:     pick.TeamLabel,
			Points:        pick.Points,
			Multiplier:    pick.Multiplier,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}

	return squadDTO{
		EntryID:     item.Meta.EntryID,
		TeamName:    item.Meta.TeamName,
		ManagerName: item.Meta.ManagerName,
		Gameweek:    item.Meta.Gameweek,
		TotalPoints: item.TotalPoints(),
		Picks:       picks,
	}
}

func fixtureToDTO(ctx context.Context, f fixture.Fixture) fixtureDTO {
	ctx, span := startSpan(ctx, "httpapi.fixtureToDTO")
	defer span.End()

	dto := fixtureDTO{
		ID:             f.ID,
		Gameweek:       f.Event,
		Stage:          fixtureStage(f),
		HomeTeamID:     f.HomeTeamID,
		AwayTeamID:     f.AwayTeamID,
		HomeScore:      f.HomeScore,
		AwayScore:      f.AwayScore,
		HomeDifficulty: f.HomeDifficulty,
		AwayDifficulty: f.AwayDifficulty,
	}
	if f.KickoffAt != nil {
		dto.KickoffAt = f.KickoffAt.UTC().Format(time.RFC3339)
	}
	for _, stat := range f.Stats {
		dto.Stats = append(dto.Stats, statDTO{
			Identifier: stat.Identifier,
			Home:       statValuesToDTO(stat.Home),
			Away:       statValuesToDTO(stat.Away),
		})
	}
	return dto
}

func fixtureStage(f fixture.Fixture) string {
	switch {
	case f.Finished || f.FinishedProvisional:
		return "finished"
	case f.Started:
		return "live"
	default:
		return "upcoming"
	}
}

func statValuesToDTO(values []fixture.StatValue) []statValueDTO {
	out := make([]statValueDTO, 0, len(values))
	for _, sv := range values {
		out = append(out, statValueDTO{Element: sv.Element, Value: sv.Value})
	}
	return out
}

func bonusRanksToDTO(ctx context.Context, ranks []usecase.BonusRank) []bonusRankDTO {
	ctx, span := startSpan(ctx, "httpapi.bonusRanksToDTO")
	defer span.End()

	items := make([]bonusRankDTO, 0, len(ranks))
	for _, rank := range ranks {
		items = append(items, bonusRankDTO{
			ElementID:  rank.ElementID,
			PlayerName: rank.PlayerName,
			Bonus:      rank.Bonus,
		})
	}
	return items
}

func snapshotToDTO(ctx context.Context, snap history.Snapshot) snapshotDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	return snapshotDTO{
		LeagueID: snap.LeagueID,
		Gameweek: snap.Gameweek,
		TakenAt:  snap.TakenAt.UTC().Format(time.RFC3339),
		Label:    snap.Label,
	}
}
