package fpl

import (
	"fmt"
	"strings"
	"time"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

// Container keys probed, in order, when a squad payload is not a bare
// array. A nested team object gets one extra probe for its picks.
var pickContainers = []string{"picks", "squad", "results", "players", "data"}

var fixtureContainers = []string{"fixtures", "results", "data"}

// normalizeSquad extracts picks and meta from a decoded squad payload of
// any of the known shapes. Rows without a usable element id are dropped
// and counted; rows without a position survive for catalog backfill.
func normalizeSquad(root any, deepScan bool) usecase.SquadPayload {
	rows := pickRows(root, deepScan)

	payload := usecase.SquadPayload{
		Meta:           normalizeSquadMeta(root),
		SourceHadItems: len(rows) > 0,
	}
	for _, row := range rows {
		pick, ok := normalizePickRow(row)
		if !ok {
			payload.Dropped++
			continue
		}
		payload.Picks = append(payload.Picks, pick)
	}
	return payload
}

func pickRows(root any, deepScan bool) []any {
	if rows, ok := asSlice(root); ok {
		return rows
	}
	m, ok := asMap(root)
	if !ok {
		return nil
	}
	for _, key := range pickContainers {
		if rows, ok := asSlice(m[key]); ok && len(rows) > 0 {
			return rows
		}
	}
	if team, ok := asMap(m["team"]); ok {
		if rows, ok := asSlice(team["picks"]); ok && len(rows) > 0 {
			return rows
		}
	}
	if deepScan {
		return deepScanForRows(root, looksLikePick)
	}
	return nil
}

func normalizePickRow(row any) (squad.Pick, bool) {
	m, ok := asMap(row)
	if !ok {
		return squad.Pick{}, false
	}
	id, ok := getInt(m, "id", "element", "player_id", "code")
	if !ok || id <= 0 {
		return squad.Pick{}, false
	}

	pick := squad.Pick{
		ElementID:     id,
		Name:          getString(m, "web_name", "name", "player_name"),
		IsCaptain:     getBool(m, "is_captain", "captain"),
		IsViceCaptain: getBool(m, "is_vice_captain", "vice_captain"),
	}
	if v, ok := firstPresent(m, "position", "element_type", "pos"); ok {
		pick.Position = resolvePosition(v)
	}
	if team, ok := getInt(m, "team", "team_id", "team_code"); ok {
		pick.TeamID = team
	}
	if points, ok := getInt(m, "gw_points", "event_points", "points"); ok {
		pick.Points = &points
	}
	if mult, ok := getInt(m, "multiplier"); ok && mult >= 1 {
		pick.Multiplier = mult
	} else if pick.IsCaptain {
		pick.Multiplier = 2
	} else {
		pick.Multiplier = 1
	}
	return pick, true
}

func resolvePosition(v any) catalog.Position {
	if n, ok := intFromAny(v); ok {
		if pos, ok := catalog.PositionFromID(n); ok {
			return pos
		}
		// A digit string may also be a textual id, fall through for text.
	}
	if s, ok := v.(string); ok {
		if pos, ok := catalog.PositionFromName(s); ok {
			return pos
		}
	}
	return ""
}

func normalizeSquadMeta(root any) squad.Meta {
	m, ok := asMap(root)
	if !ok {
		return squad.Meta{}
	}

	meta := squad.Meta{
		TeamName:    getString(m, "team_name", "entry_name"),
		ManagerName: getString(m, "manager_name", "player_name"),
	}
	if id, ok := getInt(m, "entry_id", "entry"); ok && id > 0 {
		meta.EntryID = id
	}
	if gw, ok := getInt(m, "gw", "event"); ok && gw > 0 {
		meta.Gameweek = gw
	}
	if meta.TeamName == "" {
		if team, ok := asMap(m["team"]); ok {
			meta.TeamName = getString(team, "team_name", "entry_name", "name")
		}
	}
	return meta
}

// normalizeStandings accepts a bare row array, a standings array, or the
// public API shape with rows under standings.results.
func normalizeStandings(root any, leagueID int64) (standings.League, bool) {
	league := standings.League{ID: leagueID}
	rows, hadRows := standingsRows(root)

	if m, ok := asMap(root); ok {
		if lm, ok := asMap(m["league"]); ok {
			league.Name = getString(lm, "name")
		}
		if league.Name == "" {
			league.Name = getString(m, "league_name", "name")
		}
	}

	for _, row := range rows {
		if normalized, ok := normalizeStandingRow(row); ok {
			league.Rows = append(league.Rows, normalized)
		}
	}
	return league, hadRows
}

func standingsRows(root any) ([]any, bool) {
	if rows, ok := asSlice(root); ok {
		return rows, len(rows) > 0
	}
	m, ok := asMap(root)
	if !ok {
		return nil, false
	}
	switch standingsVal := m["standings"].(type) {
	case []any:
		return standingsVal, len(standingsVal) > 0
	case map[string]any:
		if rows, ok := asSlice(standingsVal["results"]); ok {
			return rows, len(rows) > 0
		}
	}
	if rows, ok := asSlice(m["results"]); ok {
		return rows, len(rows) > 0
	}
	return nil, false
}

func normalizeStandingRow(row any) (standings.Row, bool) {
	m, ok := asMap(row)
	if !ok {
		return standings.Row{}, false
	}
	id, ok := getInt(m, "entry", "id", "entry_id")
	if !ok || id <= 0 {
		return standings.Row{}, false
	}

	out := standings.Row{
		EntryID:     id,
		EntryName:   getString(m, "entry_name", "team_name"),
		ManagerName: getString(m, "player_name", "manager_name"),
		EventTotal:  optInt(m, "event_total"),
	}
	if out.EntryName == "" {
		out.EntryName = fmt.Sprintf("Team %d", id)
	}
	if out.ManagerName == "" {
		out.ManagerName = fmt.Sprintf("Manager %d", id)
	}
	if rank, ok := getInt(m, "rank"); ok && rank > 0 {
		out.Rank = rank
	}
	if lastRank, ok := getInt(m, "last_rank"); ok && lastRank > 0 {
		out.LastRank = lastRank
	}
	if total, ok := getInt(m, "total", "total_points"); ok {
		out.Total = total
	}
	return out, true
}

func normalizeFixtures(root any) []fixture.Fixture {
	rows, ok := asSlice(root)
	if !ok {
		if m, isMap := asMap(root); isMap {
			for _, key := range fixtureContainers {
				if candidate, found := asSlice(m[key]); found && len(candidate) > 0 {
					rows = candidate
					break
				}
			}
		}
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		if f, ok := normalizeFixtureRow(row); ok {
			out = append(out, f)
		}
	}
	return out
}

func normalizeFixtureRow(row any) (fixture.Fixture, bool) {
	m, ok := asMap(row)
	if !ok {
		return fixture.Fixture{}, false
	}
	id, ok := getInt(m, "id", "fixture_id")
	if !ok || id <= 0 {
		return fixture.Fixture{}, false
	}

	f := fixture.Fixture{
		ID:                  id,
		Started:             getBool(m, "started"),
		Finished:            getBool(m, "finished"),
		FinishedProvisional: getBool(m, "finished_provisional"),
		HomeScore:           optInt(m, "team_h_score"),
		AwayScore:           optInt(m, "team_a_score"),
	}
	if event, ok := getInt(m, "event", "gw"); ok && event > 0 {
		f.Event = event
	}
	if home, ok := getInt(m, "team_h", "home_team"); ok {
		f.HomeTeamID = home
	}
	if away, ok := getInt(m, "team_a", "away_team"); ok {
		f.AwayTeamID = away
	}
	if diff, ok := getInt(m, "team_h_difficulty"); ok {
		f.HomeDifficulty = diff
	}
	if diff, ok := getInt(m, "team_a_difficulty"); ok {
		f.AwayDifficulty = diff
	}
	if kickoff := getString(m, "kickoff_time", "kickoff"); kickoff != "" {
		if t, err := time.Parse(time.RFC3339, kickoff); err == nil {
			f.KickoffAt = &t
		}
	}
	if stats, ok := asSlice(m["stats"]); ok {
		f.Stats = normalizeFixtureStats(stats)
	}
	return f, true
}

func normalizeFixtureStats(rows []any) []fixture.Stat {
	out := make([]fixture.Stat, 0, len(rows))
	for _, row := range rows {
		m, ok := asMap(row)
		if !ok {
			continue
		}
		identifier := getString(m, "identifier")
		if identifier == "" {
			continue
		}
		stat := fixture.Stat{Identifier: identifier}
		if home, ok := asSlice(m["h"]); ok {
			stat.Home = normalizeStatValues(home)
		}
		if away, ok := asSlice(m["a"]); ok {
			stat.Away = normalizeStatValues(away)
		}
		out = append(out, stat)
	}
	return out
}

func normalizeStatValues(rows []any) []fixture.StatValue {
	out := make([]fixture.StatValue, 0, len(rows))
	for _, row := range rows {
		m, ok := asMap(row)
		if !ok {
			continue
		}
		element, ok := getInt(m, "element")
		if !ok {
			continue
		}
		value, _ := getInt(m, "value")
		out = append(out, fixture.StatValue{Element: element, Value: value})
	}
	return out
}

// normalizeLivePoints reads event/{gw}/live payloads: an elements array
// with per-player stats, or a map keyed by element id.
func normalizeLivePoints(root any) map[int]int {
	out := make(map[int]int)
	m, ok := asMap(root)
	if !ok {
		return out
	}

	switch elements := m["elements"].(type) {
	case []any:
		for _, row := range elements {
			em, ok := asMap(row)
			if !ok {
				continue
			}
			id, ok := getInt(em, "id", "element")
			if !ok || id <= 0 {
				continue
			}
			out[id] = livePointsFromEntry(em)
		}
	case map[string]any:
		for key, row := range elements {
			id, ok := intFromAny(strings.TrimSpace(key))
			if !ok || id <= 0 {
				continue
			}
			if em, ok := asMap(row); ok {
				out[id] = livePointsFromEntry(em)
			}
		}
	}
	return out
}

func livePointsFromEntry(m map[string]any) int {
	if stats, ok := asMap(m["stats"]); ok {
		if points, ok := getInt(stats, "total_points"); ok {
			return points
		}
	}
	points, _ := getInt(m, "total_points", "points")
	return points
}
