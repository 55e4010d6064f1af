package fpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/domain/fixture"
	"github.com/lobsterleague/fpl-companion/internal/domain/history"
	"github.com/lobsterleague/fpl-companion/internal/domain/squad"
	"github.com/lobsterleague/fpl-companion/internal/domain/standings"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
	"github.com/lobsterleague/fpl-companion/internal/platform/resilience"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

const (
	DefaultPublicBaseURL = "https://fantasy.premierleague.com/api"

	defaultTimeout             = 12 * time.Second
	defaultStandingsRetries    = 3
	defaultStandingsRetryDelay = 1500 * time.Millisecond

	maxResponseBytes = 8 << 20
	bodyExcerptLimit = 500

	// The public API rejects default Go user agents, so public calls carry
	// ordinary browser headers.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
	publicReferer    = "https://fantasy.premierleague.com/"
	backendUserAgent = "fpl-companion/1.0"
)

type ClientConfig struct {
	HTTPClient          *http.Client
	PublicBaseURL       string
	BackendBaseURL      string // optional primary source; empty means public only
	Timeout             time.Duration
	StandingsRetries    int
	StandingsRetryDelay time.Duration
	DeepScanEnabled     bool

	CircuitEnabled        bool
	CircuitFailureCount   int
	CircuitOpenTimeout    time.Duration
	CircuitHalfOpenMaxReq int

	Logger *logging.Logger
}

// Client talks to the public FPL API and, when configured, an internal
// aggregation backend that is tried first for squad, league, and snapshot
// resources. Outbound calls share a circuit breaker and single-flight
// deduplication; every call is bounded by the configured timeout.
type Client struct {
	httpClient          *http.Client
	publicBaseURL       string
	backendBaseURL      string
	timeout             time.Duration
	standingsRetries    int
	standingsRetryDelay time.Duration
	deepScan            bool
	breaker             *resilience.Breaker
	flight              resilience.Group[[]byte]
	logger              *logging.Logger
}

var _ usecase.UpstreamProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	publicBaseURL := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBaseURL == "" {
		publicBaseURL = DefaultPublicBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.StandingsRetries
	if retries < 1 {
		retries = defaultStandingsRetries
	}
	retryDelay := cfg.StandingsRetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultStandingsRetryDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.Breaker
	if cfg.CircuitEnabled {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{
			FailureThreshold:    cfg.CircuitFailureCount,
			OpenTimeout:         cfg.CircuitOpenTimeout,
			HalfOpenMaxInFlight: cfg.CircuitHalfOpenMaxReq,
		})
	}

	return &Client{
		httpClient:          httpClient,
		publicBaseURL:       publicBaseURL,
		backendBaseURL:      strings.TrimRight(strings.TrimSpace(cfg.BackendBaseURL), "/"),
		timeout:             timeout,
		standingsRetries:    retries,
		standingsRetryDelay: retryDelay,
		deepScan:            cfg.DeepScanEnabled,
		breaker:             breaker,
		logger:              logger,
	}
}

func (c *Client) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	raw, err := c.get(ctx, c.publicBaseURL+"/bootstrap-static/", 1, true)
	if err != nil {
		return nil, err
	}

	var env bootstrapEnvelope
	if err := decodeJSON(raw, &env); err != nil {
		return nil, err
	}

	cat := &catalog.Catalog{
		Events:   make([]catalog.Event, 0, len(env.Events)),
		Teams:    make(map[int]catalog.Team, len(env.Teams)),
		Elements: make(map[int]catalog.Element, len(env.Elements)),
	}
	for _, ev := range env.Events {
		cat.Events = append(cat.Events, catalog.Event{
			ID:        ev.ID,
			Name:      ev.Name,
			IsCurrent: ev.IsCurrent,
			Finished:  ev.Finished,
		})
	}
	for _, team := range env.Teams {
		cat.Teams[team.ID] = catalog.Team{
			ID:        team.ID,
			Name:      team.Name,
			ShortName: team.ShortName,
		}
	}
	for _, el := range env.Elements {
		pos, _ := catalog.PositionFromID(el.ElementType)
		cat.Elements[el.ID] = catalog.Element{
			ID:       el.ID,
			WebName:  el.WebName,
			TeamID:   el.Team,
			Position: pos,
		}
	}
	return cat, nil
}

func (c *Client) FetchStandings(ctx context.Context, leagueID int64) (standings.League, error) {
	if c.backendBaseURL != "" {
		raw, err := c.get(ctx, fmt.Sprintf("%s/league/%d", c.backendBaseURL, leagueID), 1, false)
		if err == nil {
			var root any
			if decodeErr := decodeJSON(raw, &root); decodeErr == nil {
				if league, _ := normalizeStandings(root, leagueID); len(league.Rows) > 0 {
					return league, nil
				}
			}
		}
		c.logger.WarnContext(ctx, "backend standings unusable, falling back to public api",
			"league_id", leagueID, "error", err)
	}

	path := fmt.Sprintf("%s/leagues-classic/%d/standings/", c.publicBaseURL, leagueID)
	raw, err := c.get(ctx, path, c.standingsRetries, true)
	if err != nil {
		return standings.League{}, err
	}

	var root any
	if err := decodeJSON(raw, &root); err != nil {
		return standings.League{}, err
	}
	league, hadRows := normalizeStandings(root, leagueID)
	if hadRows && len(league.Rows) == 0 {
		return standings.League{}, crerr.Wrapf(usecase.ErrNoUsableData, "league %d standings", leagueID)
	}
	return league, nil
}

func (c *Client) FetchEntryProfile(ctx context.Context, entryID int64) (squad.Meta, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/entry/%d/", c.publicBaseURL, entryID), 1, true)
	if err != nil {
		return squad.Meta{}, err
	}

	var env entryEnvelope
	if err := decodeJSON(raw, &env); err != nil {
		return squad.Meta{}, err
	}
	return squad.Meta{
		EntryID:     env.ID,
		TeamName:    env.Name,
		ManagerName: strings.TrimSpace(env.PlayerFirstName + " " + env.PlayerLastName),
		Gameweek:    env.CurrentEvent,
	}, nil
}

func (c *Client) FetchSquad(ctx context.Context, entryID int64, gameweek int) (usecase.SquadPayload, error) {
	if c.backendBaseURL != "" {
		raw, err := c.get(ctx, fmt.Sprintf("%s/team/%d", c.backendBaseURL, entryID), 1, false)
		if err == nil {
			var root any
			if decodeErr := decodeJSON(raw, &root); decodeErr == nil {
				if payload := normalizeSquad(root, c.deepScan); len(payload.Picks) > 0 {
					return payload, nil
				}
			}
		}
		c.logger.WarnContext(ctx, "backend squad unusable, falling back to public picks",
			"entry_id", entryID, "gameweek", gameweek, "error", err)
	}

	path := fmt.Sprintf("%s/entry/%d/event/%d/picks/", c.publicBaseURL, entryID, gameweek)
	raw, err := c.get(ctx, path, 1, true)
	if err != nil {
		return usecase.SquadPayload{}, err
	}

	var root any
	if err := decodeJSON(raw, &root); err != nil {
		return usecase.SquadPayload{}, err
	}
	return normalizeSquad(root, c.deepScan), nil
}

func (c *Client) FetchFixtures(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	path := c.publicBaseURL + "/fixtures/"
	if gameweek > 0 {
		path = fmt.Sprintf("%s?event=%d", path, gameweek)
	}
	raw, err := c.get(ctx, path, 1, true)
	if err != nil {
		return nil, err
	}

	var root any
	if err := decodeJSON(raw, &root); err != nil {
		return nil, err
	}
	return normalizeFixtures(root), nil
}

func (c *Client) FetchLivePoints(ctx context.Context, gameweek int) (map[int]int, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/event/%d/live/", c.publicBaseURL, gameweek), 1, true)
	if err != nil {
		return nil, err
	}

	var root any
	if err := decodeJSON(raw, &root); err != nil {
		return nil, err
	}
	return normalizeLivePoints(root), nil
}

func (c *Client) FetchSeasonNames(ctx context.Context, entryID int64) ([]string, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/entry/%d/history/", c.publicBaseURL, entryID), 1, true)
	if err != nil {
		return nil, err
	}

	var env entryHistoryEnvelope
	if err := decodeJSON(raw, &env); err != nil {
		return nil, err
	}
	seasons := make([]string, 0, len(env.Past))
	for _, past := range env.Past {
		if past.SeasonName != "" {
			seasons = append(seasons, past.SeasonName)
		}
	}
	return seasons, nil
}

func (c *Client) FetchSnapshots(ctx context.Context, leagueID int64) ([]history.Snapshot, error) {
	if c.backendBaseURL == "" {
		return nil, crerr.Wrap(usecase.ErrDependencyUnavailable, "snapshot history requires a backend")
	}

	raw, err := c.get(ctx, fmt.Sprintf("%s/history/%d", c.backendBaseURL, leagueID), 1, false)
	if err != nil {
		return nil, err
	}

	var root any
	if err := decodeJSON(raw, &root); err != nil {
		return nil, err
	}
	return normalizeSnapshots(root, leagueID), nil
}

func normalizeSnapshots(root any, leagueID int64) []history.Snapshot {
	rows, ok := asSlice(root)
	if !ok {
		if m, isMap := asMap(root); isMap {
			rows, _ = asSlice(m["snapshots"])
		}
	}

	out := make([]history.Snapshot, 0, len(rows))
	for _, row := range rows {
		m, ok := asMap(row)
		if !ok {
			continue
		}
		snap := history.Snapshot{
			LeagueID: leagueID,
			Label:    getString(m, "label", "name"),
		}
		if gw, ok := getInt(m, "gw", "event", "gameweek"); ok {
			snap.Gameweek = gw
		}
		if raw := getString(m, "taken_at", "created_at", "date"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				snap.TakenAt = t
			}
		}
		out = append(out, snap)
	}
	return out
}

// get performs a GET with up to attempts tries separated by the standings
// retry delay. Waits are cut short by ctx so a canceled request leaks no
// timers. The call is deduplicated per URL and guarded by the breaker.
func (c *Client) get(ctx context.Context, url string, attempts int, browser bool) ([]byte, error) {
	raw, err, shared := c.flight.Do(url, func() ([]byte, error) {
		var lastErr error
		for attempt := 0; attempt < attempts; attempt++ {
			if attempt > 0 {
				timer := time.NewTimer(c.standingsRetryDelay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "retry wait: %v", ctx.Err())
				case <-timer.C:
				}
			}

			body, attemptErr := c.doOnce(ctx, url, browser)
			if attemptErr == nil {
				return body, nil
			}
			lastErr = attemptErr
			if !isTransient(attemptErr) {
				return nil, attemptErr
			}
			if attempt+1 < attempts {
				c.logger.WarnContext(ctx, "upstream request failed, retrying",
					"url", url, "attempt", attempt+1, "error", attemptErr)
			}
		}
		return nil, lastErr
	})
	if shared {
		c.logger.DebugContext(ctx, "upstream request coalesced", "url", url)
	}
	return raw, err
}

func (c *Client) doOnce(ctx context.Context, url string, browser bool) ([]byte, error) {
	var body []byte
	err := c.breaker.Do(func() error {
		b, execErr := c.execute(ctx, url, browser)
		body = b
		return execErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, crerr.Wrap(usecase.ErrDependencyUnavailable, "upstream circuit open")
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) execute(ctx context.Context, url string, browser bool) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, resilience.Permanent(crerr.Wrapf(usecase.ErrInvalidInput, "build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if browser {
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Referer", publicReferer)
	} else {
		req.Header.Set("User-Agent", backendUserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "%s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Wrapf(usecase.ErrUpstreamUnavailable, "read %s: %v", url, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		rejected := &usecase.UpstreamRejectedError{
			Status:      resp.StatusCode,
			BodyExcerpt: excerpt(body),
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, resilience.Permanent(crerr.Wrapf(usecase.ErrNotFound, "%s: status 404", url))
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			return nil, rejected
		default:
			return nil, resilience.Permanent(rejected)
		}
	}
	return body, nil
}

// isTransient reports whether a failed attempt is worth retrying.
func isTransient(err error) bool {
	if errors.Is(err, usecase.ErrUpstreamUnavailable) {
		return true
	}
	var rejected *usecase.UpstreamRejectedError
	if errors.As(err, &rejected) {
		return rejected.Status >= http.StatusInternalServerError ||
			rejected.Status == http.StatusTooManyRequests
	}
	return false
}

func decodeJSON(raw []byte, target any) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(usecase.ErrMalformedResponse, "decode: %v", err)
	}
	return nil
}

func excerpt(body []byte) string {
	if len(body) > bodyExcerptLimit {
		body = body[:bodyExcerptLimit]
	}
	return string(body)
}
