package snapshots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lobsterleague/fpl-companion/internal/platform/resilience"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

type PublisherConfig struct {
	BackendBaseURL   string
	InternalJobToken string
	Timeout          time.Duration

	CircuitEnabled        bool
	CircuitFailureCount   int
	CircuitOpenTimeout    time.Duration
	CircuitHalfOpenMaxReq int
}

// Publisher asks the aggregation backend to capture a standings snapshot
// for a league. The backend owns storage and scheduling; this side only
// triggers.
type Publisher struct {
	client           *http.Client
	backendBaseURL   string
	internalJobToken string
	logger           *slog.Logger
	breaker          *resilience.Breaker
}

var _ usecase.SnapshotPublisher = (*Publisher)(nil)

func NewPublisher(cfg PublisherConfig, logger *slog.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	var breaker *resilience.Breaker
	if cfg.CircuitEnabled {
		breaker = resilience.NewBreaker(resilience.BreakerConfig{
			FailureThreshold:    cfg.CircuitFailureCount,
			OpenTimeout:         cfg.CircuitOpenTimeout,
			HalfOpenMaxInFlight: cfg.CircuitHalfOpenMaxReq,
		})
	}

	return &Publisher{
		client:           &http.Client{Timeout: timeout},
		backendBaseURL:   strings.TrimRight(strings.TrimSpace(cfg.BackendBaseURL), "/"),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          breaker,
	}
}

func (p *Publisher) Publish(ctx context.Context, leagueID int64) error {
	baseURL, err := validateHTTPBaseURL(p.backendBaseURL)
	if err != nil {
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "snapshot backend url: "+err.Error())
	}
	target := fmt.Sprintf("%s/autosnapshot/%d", baseURL, leagueID)

	preview := buildCurlPreview(target, p.internalJobToken != "")
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("snapshot.target_url", target),
			attribute.Int64("snapshot.league_id", leagueID),
			attribute.String("snapshot.request_curl_preview", preview),
		)
	}
	p.logger.InfoContext(ctx, "snapshot publish request",
		"league_id", leagueID, "target_url", target, "curl_preview", preview)

	doErr := p.breaker.Do(func() error {
		return p.post(ctx, target)
	})
	if errors.Is(doErr, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "snapshot circuit breaker rejected request",
			"state", p.breaker.State())
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "snapshot backend circuit open")
	}
	if doErr != nil {
		return doErr
	}

	p.logger.InfoContext(ctx, "snapshot published", "league_id", leagueID)
	return nil
}

func (p *Publisher) post(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return resilience.Permanent(crerr.Wrap(err, "create snapshot request"))
	}
	req.Header.Set("Accept", "application/json")
	if p.internalJobToken != "" {
		req.Header.Set("X-Internal-Job-Token", p.internalJobToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return crerr.Wrapf(usecase.ErrUpstreamUnavailable, "post %s: %v", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		rejected := &usecase.UpstreamRejectedError{
			Status:      resp.StatusCode,
			BodyExcerpt: strings.TrimSpace(string(raw)),
		}
		if isRetryableStatus(resp.StatusCode) {
			return rejected
		}
		return resilience.Permanent(rejected)
	}
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(target string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(target))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("X-Internal-Job-Token: ***"))
	}

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
