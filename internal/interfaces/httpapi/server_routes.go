package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/bootstrap", handler.GetBootstrap)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/history", handler.ListLeagueHistory)
	mux.HandleFunc("GET /v1/entries/{entryID}/squad", handler.GetEntrySquad)
	mux.HandleFunc("GET /v1/entries/{entryID}/tenure", handler.GetEntryTenure)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/gameweeks/{gw}/bonus", handler.GetGameweekBonus)
	mux.HandleFunc("GET /v1/bonus/season", handler.GetSeasonBonus)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/snapshot", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSnapshotJob)))
}
