package fpl

import "testing"

func TestDeepScanFindsNestedPickRows(t *testing.T) {
	root := decodeAny(t, `{"response": {"payload": {"roster": [
		{"element": 7, "is_captain": true},
		{"element": 11}
	]}}}`)

	payload := normalizeSquad(root, true)
	if len(payload.Picks) != 2 {
		t.Fatalf("got %d picks, want 2", len(payload.Picks))
	}
	if payload.Picks[0].ElementID != 7 || payload.Picks[1].ElementID != 11 {
		t.Fatalf("picks = %+v", payload.Picks)
	}
}

func TestDeepScanDisabledFindsNothing(t *testing.T) {
	root := decodeAny(t, `{"response": {"payload": {"roster": [{"element": 7}]}}}`)

	payload := normalizeSquad(root, false)
	if payload.SourceHadItems || len(payload.Picks) != 0 {
		t.Fatalf("payload = %+v, want empty without deep scan", payload)
	}
}

func TestDeepScanRespectsDepthBound(t *testing.T) {
	root := decodeAny(t, `{"a": {"b": {"c": {"d": {"e": {"f": [{"element": 7}]}}}}}}`)

	if rows := deepScanForRows(root, looksLikePick); rows != nil {
		t.Fatalf("found rows %v beyond the depth bound", rows)
	}
}

func TestDeepScanRejectsMixedArrays(t *testing.T) {
	root := decodeAny(t, `{"data": {"things": [{"element": 7}, {"note": "not a pick"}]}}`)

	if rows := deepScanForRows(root, looksLikePick); rows != nil {
		t.Fatalf("mixed array accepted: %v", rows)
	}
}

func TestLooksLikePick(t *testing.T) {
	yes := map[string]any{"element": float64(7)}
	no := map[string]any{"identifier": "bonus"}
	stringID := map[string]any{"player_id": "12"}

	if !looksLikePick(yes) {
		t.Fatal("element key rejected")
	}
	if looksLikePick(no) {
		t.Fatal("non-pick accepted")
	}
	if !looksLikePick(stringID) {
		t.Fatal("digit-string id rejected")
	}
}
