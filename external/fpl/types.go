package fpl

// Typed envelopes for the stable public endpoints. Squad, standings, and
// fixture payloads vary by source and go through the normalizer instead.

type bootstrapEnvelope struct {
	Events []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		IsCurrent bool   `json:"is_current"`
		Finished  bool   `json:"finished"`
	} `json:"events"`
	Teams []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		ShortName string `json:"short_name"`
	} `json:"teams"`
	Elements []struct {
		ID          int    `json:"id"`
		WebName     string `json:"web_name"`
		Team        int    `json:"team"`
		ElementType int    `json:"element_type"`
	} `json:"elements"`
}

type entryEnvelope struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PlayerFirstName string `json:"player_first_name"`
	PlayerLastName  string `json:"player_last_name"`
	CurrentEvent    int    `json:"current_event"`
}

type entryHistoryEnvelope struct {
	Past []struct {
		SeasonName string `json:"season_name"`
	} `json:"past"`
}
