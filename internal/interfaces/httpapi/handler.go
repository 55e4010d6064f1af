package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

type Handler struct {
	catalogService   *usecase.CatalogService
	standingsService *usecase.StandingsService
	squadService     *usecase.SquadService
	fixtureService   *usecase.FixtureService
	bonusService     *usecase.BonusService
	tenureService    *usecase.TenureService
	historyService   *usecase.HistoryService
	snapshotService  *usecase.SnapshotService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	standingsService *usecase.StandingsService,
	squadService *usecase.SquadService,
	fixtureService *usecase.FixtureService,
	bonusService *usecase.BonusService,
	tenureService *usecase.TenureService,
	historyService *usecase.HistoryService,
	snapshotService *usecase.SnapshotService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:   catalogService,
		standingsService: standingsService,
		squadService:     squadService,
		fixtureService:   fixtureService,
		bonusService:     bonusService,
		tenureService:    tenureService,
		historyService:   historyService,
		snapshotService:  snapshotService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBootstrap")
	defer span.End()

	cat, err := h.catalogService.Get(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get bootstrap failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogToDTO(ctx, cat))
}

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	league, err := h.standingsService.Get(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(ctx, league))
}

func (h *Handler) GetEntrySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntrySquad")
	defer span.End()

	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.squadService.GetSquad(ctx, entryID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, item))
}

func (h *Handler) GetEntryTenure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntryTenure")
	defer span.End()

	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tenure, err := h.tenureService.Get(ctx, entryID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tenure failed", "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tenureDTO{
		EntryID:          tenure.EntryID,
		SeasonsPlayed:    tenure.SeasonsPlayed,
		FirstSeason:      tenure.FirstSeason,
		PlayingSinceYear: tenure.PlayingSinceYear,
		Seasons:          append([]string(nil), tenure.Seasons...),
	})
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	gameweek := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("event")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: event query %q is not a number", usecase.ErrInvalidInput, raw))
			return
		}
		gameweek = parsed
	}

	fixtures, err := h.fixtureService.List(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameweekBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekBonus")
	defer span.End()

	raw := r.PathValue("gw")
	gameweek, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: gameweek %q is not a number", usecase.ErrInvalidInput, raw))
		return
	}

	ranks, err := h.bonusService.Tally(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "gameweek bonus tally failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bonusRanksToDTO(ctx, ranks))
}

func (h *Handler) GetSeasonBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonBonus")
	defer span.End()

	ranks, err := h.bonusService.SeasonTally(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "season bonus tally failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bonusRanksToDTO(ctx, ranks))
}

func (h *Handler) ListLeagueHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueHistory")
	defer span.End()

	leagueID, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshots, err := h.historyService.List(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list history failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]snapshotDTO, 0, len(snapshots))
	for _, snap := range snapshots {
		items = append(items, snapshotToDTO(ctx, snap))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunSnapshotJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSnapshotJob")
	defer span.End()

	req, err := decodeSnapshotJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.snapshotService.Trigger(ctx, req.LeagueID); err != nil {
		h.logger.WarnContext(ctx, "snapshot job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, snapshotJobResultDTO{
		LeagueID: req.LeagueID,
		Status:   "accepted",
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a positive number", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
