package fpl

import (
	"reflect"
	"testing"

	"github.com/bytedance/sonic"
)

func decodeAny(t *testing.T, raw string) any {
	t.Helper()
	var root any
	if err := sonic.Unmarshal([]byte(raw), &root); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return root
}

func TestNormalizeSquadBareArray(t *testing.T) {
	root := decodeAny(t, `[{"id": 7, "position": 3, "web_name": "Saka"}]`)

	payload := normalizeSquad(root, false)
	if !payload.SourceHadItems {
		t.Fatal("SourceHadItems = false")
	}
	if len(payload.Picks) != 1 {
		t.Fatalf("got %d picks", len(payload.Picks))
	}
	p := payload.Picks[0]
	if p.ElementID != 7 || p.Position != "MID" || p.Name != "Saka" {
		t.Fatalf("pick = %+v", p)
	}
}

func TestNormalizeSquadResultsContainerWithCaptainAlias(t *testing.T) {
	root := decodeAny(t, `{"results": [{"element": 7, "is_captain": true}]}`)

	payload := normalizeSquad(root, false)
	if len(payload.Picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(payload.Picks))
	}
	p := payload.Picks[0]
	if p.ElementID != 7 {
		t.Fatalf("element = %d", p.ElementID)
	}
	if !p.IsCaptain {
		t.Fatal("is_captain not mapped")
	}
	if p.Multiplier != 2 {
		t.Fatalf("multiplier = %d, want captain default 2", p.Multiplier)
	}
	if p.Position != "" {
		t.Fatalf("position = %q, want unresolved for catalog backfill", p.Position)
	}
}

func TestNormalizeSquadContainerProbeOrder(t *testing.T) {
	// picks wins over squad even when both are present.
	root := decodeAny(t, `{
		"squad": [{"id": 2, "position": 1}],
		"picks": [{"id": 1, "position": 1}]
	}`)

	payload := normalizeSquad(root, false)
	if len(payload.Picks) != 1 || payload.Picks[0].ElementID != 1 {
		t.Fatalf("picks = %+v, want the picks container", payload.Picks)
	}
}

func TestNormalizeSquadNestedTeamPicks(t *testing.T) {
	root := decodeAny(t, `{"team": {"name": "Lobster XI", "picks": [{"player_id": 11, "pos": "MID"}]}}`)

	payload := normalizeSquad(root, false)
	if len(payload.Picks) != 1 {
		t.Fatalf("got %d picks", len(payload.Picks))
	}
	if payload.Picks[0].ElementID != 11 || payload.Picks[0].Position != "MID" {
		t.Fatalf("pick = %+v", payload.Picks[0])
	}
	if payload.Meta.TeamName != "Lobster XI" {
		t.Fatalf("team name = %q", payload.Meta.TeamName)
	}
}

func TestNormalizeSquadAliasGrid(t *testing.T) {
	root := decodeAny(t, `[{
		"player_id": 42,
		"element_type": "GKP",
		"team_id": 3,
		"player_name": "Raya",
		"event_points": 6,
		"captain": false,
		"is_vice_captain": true,
		"multiplier": 1
	}]`)

	payload := normalizeSquad(root, false)
	if len(payload.Picks) != 1 {
		t.Fatalf("got %d picks", len(payload.Picks))
	}
	p := payload.Picks[0]
	if p.ElementID != 42 {
		t.Fatalf("element = %d", p.ElementID)
	}
	if p.Position != "GK" {
		t.Fatalf("position = %q", p.Position)
	}
	if p.TeamID != 3 {
		t.Fatalf("team = %d", p.TeamID)
	}
	if p.Name != "Raya" {
		t.Fatalf("name = %q", p.Name)
	}
	if p.Points == nil || *p.Points != 6 {
		t.Fatalf("points = %v", p.Points)
	}
	if p.IsCaptain || !p.IsViceCaptain {
		t.Fatalf("captaincy = %v/%v", p.IsCaptain, p.IsViceCaptain)
	}
}

func TestNormalizeSquadDropsRowsWithoutID(t *testing.T) {
	root := decodeAny(t, `{"picks": [
		{"web_name": "nobody"},
		{"id": 7, "position": 3},
		"not even an object"
	]}`)

	payload := normalizeSquad(root, false)
	if len(payload.Picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(payload.Picks))
	}
	if payload.Dropped != 2 {
		t.Fatalf("dropped = %d, want 2", payload.Dropped)
	}
}

func TestNormalizeSquadIdempotentOnCanonicalPayload(t *testing.T) {
	canonical := `{"picks": [
		{"id": 7, "position": 3, "team": 1, "web_name": "Saka", "gw_points": 8, "is_captain": true, "multiplier": 2},
		{"id": 11, "position": 3, "team": 2, "web_name": "Salah", "gw_points": 12, "is_captain": false, "multiplier": 1}
	]}`

	first := normalizeSquad(decodeAny(t, canonical), false)
	second := normalizeSquad(decodeAny(t, canonical), false)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not stable:\n%+v\n%+v", first, second)
	}
	if first.Dropped != 0 {
		t.Fatalf("dropped = %d on canonical payload", first.Dropped)
	}
	if *first.Picks[0].Points != 8 || first.Picks[0].Multiplier != 2 {
		t.Fatalf("canonical fields rewritten: %+v", first.Picks[0])
	}
}

func TestNormalizeSquadMetaAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"primary keys", `{"entry_id": 555, "team_name": "Lobster XI", "manager_name": "Sam", "gw": 4, "picks": []}`},
		{"alias keys", `{"entry": 555, "entry_name": "Lobster XI", "player_name": "Sam", "event": 4, "picks": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := normalizeSquadMeta(decodeAny(t, tt.raw))
			if meta.EntryID != 555 || meta.TeamName != "Lobster XI" || meta.ManagerName != "Sam" || meta.Gameweek != 4 {
				t.Fatalf("meta = %+v", meta)
			}
		})
	}
}

func TestNormalizeStandingsPublicShape(t *testing.T) {
	root := decodeAny(t, `{
		"league": {"name": "Office League"},
		"standings": {"results": [
			{"entry": 1, "entry_name": "Top", "player_name": "A", "rank": 1, "last_rank": 2, "total": 100, "event_total": 50},
			{"entry": 2, "rank": 2, "total": 90}
		]}
	}`)

	league, hadRows := normalizeStandings(root, 42)
	if !hadRows {
		t.Fatal("hadRows = false")
	}
	if league.ID != 42 || league.Name != "Office League" {
		t.Fatalf("league = %+v", league)
	}
	if len(league.Rows) != 2 {
		t.Fatalf("rows = %d", len(league.Rows))
	}
	first := league.Rows[0]
	if first.EntryID != 1 || first.Rank != 1 || first.LastRank != 2 || first.Total != 100 {
		t.Fatalf("row = %+v", first)
	}
	if first.EventTotal == nil || *first.EventTotal != 50 {
		t.Fatalf("event total = %v", first.EventTotal)
	}
	second := league.Rows[1]
	if second.EntryName != "Team 2" || second.ManagerName != "Manager 2" {
		t.Fatalf("placeholders = %q/%q", second.EntryName, second.ManagerName)
	}
	if second.EventTotal != nil {
		t.Fatalf("event total = %v, want nil", second.EventTotal)
	}
}

func TestNormalizeStandingsFlatArray(t *testing.T) {
	root := decodeAny(t, `{"standings": [{"entry_id": 9, "team_name": "Niners", "total": 10}]}`)

	league, hadRows := normalizeStandings(root, 1)
	if !hadRows || len(league.Rows) != 1 {
		t.Fatalf("rows = %+v, hadRows = %v", league.Rows, hadRows)
	}
	if league.Rows[0].EntryID != 9 || league.Rows[0].EntryName != "Niners" {
		t.Fatalf("row = %+v", league.Rows[0])
	}
}

func TestNormalizeStandingsEmptyPayload(t *testing.T) {
	league, hadRows := normalizeStandings(decodeAny(t, `{"standings": {"results": []}}`), 1)
	if hadRows {
		t.Fatal("hadRows = true for empty results")
	}
	if len(league.Rows) != 0 {
		t.Fatalf("rows = %+v", league.Rows)
	}
}

func TestNormalizeFixtures(t *testing.T) {
	root := decodeAny(t, `[
		{
			"id": 100, "event": 2, "kickoff_time": "2026-08-22T14:00:00Z",
			"started": true, "finished": false,
			"team_h": 1, "team_a": 2, "team_h_score": 1, "team_a_score": 0,
			"team_h_difficulty": 3, "team_a_difficulty": 4,
			"stats": [{"identifier": "bonus", "h": [{"element": 7, "value": 3}], "a": []}]
		},
		{"id": 101, "event": null, "kickoff_time": null}
	]`)

	fixtures := normalizeFixtures(root)
	if len(fixtures) != 2 {
		t.Fatalf("got %d fixtures", len(fixtures))
	}

	f := fixtures[0]
	if f.ID != 100 || f.Event != 2 || !f.Started || f.Finished {
		t.Fatalf("fixture = %+v", f)
	}
	if f.KickoffAt == nil || f.KickoffAt.UTC().Hour() != 14 {
		t.Fatalf("kickoff = %v", f.KickoffAt)
	}
	if f.HomeScore == nil || *f.HomeScore != 1 || f.AwayScore == nil || *f.AwayScore != 0 {
		t.Fatalf("scores = %v/%v", f.HomeScore, f.AwayScore)
	}
	if len(f.Stats) != 1 || f.Stats[0].Identifier != "bonus" || f.Stats[0].Home[0].Element != 7 {
		t.Fatalf("stats = %+v", f.Stats)
	}

	postponed := fixtures[1]
	if postponed.Event != 0 || postponed.KickoffAt != nil {
		t.Fatalf("postponed = %+v", postponed)
	}
}

func TestNormalizeFixturesContainer(t *testing.T) {
	root := decodeAny(t, `{"fixtures": [{"id": 5, "event": 1}]}`)
	fixtures := normalizeFixtures(root)
	if len(fixtures) != 1 || fixtures[0].ID != 5 {
		t.Fatalf("fixtures = %+v", fixtures)
	}
}

func TestNormalizeLivePointsElementsArray(t *testing.T) {
	root := decodeAny(t, `{"elements": [
		{"id": 7, "stats": {"total_points": 8}},
		{"id": 11, "total_points": 12}
	]}`)

	live := normalizeLivePoints(root)
	if live[7] != 8 || live[11] != 12 {
		t.Fatalf("live = %v", live)
	}
}

func TestNormalizeLivePointsKeyedMap(t *testing.T) {
	root := decodeAny(t, `{"elements": {"7": {"stats": {"total_points": 8}}}}`)

	live := normalizeLivePoints(root)
	if live[7] != 8 {
		t.Fatalf("live = %v", live)
	}
}
