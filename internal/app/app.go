package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lobsterleague/fpl-companion/external/fpl"
	"github.com/lobsterleague/fpl-companion/external/snapshots"
	"github.com/lobsterleague/fpl-companion/internal/config"
	"github.com/lobsterleague/fpl-companion/internal/interfaces/httpapi"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
	"github.com/lobsterleague/fpl-companion/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := fpl.NewClient(fpl.ClientConfig{
		PublicBaseURL:       cfg.FPLBaseURL,
		BackendBaseURL:      cfg.BackendBaseURL,
		Timeout:             cfg.UpstreamTimeout,
		StandingsRetries:    cfg.StandingsRetries,
		StandingsRetryDelay: cfg.StandingsRetryDelay,
		DeepScanEnabled:     cfg.DeepScanEnabled,

		CircuitEnabled:        cfg.UpstreamCircuitEnabled,
		CircuitFailureCount:   cfg.UpstreamCircuitFailureCount,
		CircuitOpenTimeout:    cfg.UpstreamCircuitOpenTimeout,
		CircuitHalfOpenMaxReq: cfg.UpstreamCircuitHalfOpenMaxReq,

		Logger: logger,
	})

	var publisher usecase.SnapshotPublisher
	if cfg.SnapshotEnabled {
		publisher = snapshots.NewPublisher(snapshots.PublisherConfig{
			BackendBaseURL:   cfg.BackendBaseURL,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.SnapshotTimeout,

			CircuitEnabled:        cfg.UpstreamCircuitEnabled,
			CircuitFailureCount:   cfg.UpstreamCircuitFailureCount,
			CircuitOpenTimeout:    cfg.UpstreamCircuitOpenTimeout,
			CircuitHalfOpenMaxReq: cfg.UpstreamCircuitHalfOpenMaxReq,
		}, nil)
	}

	cacheTTL := time.Duration(0)
	if cfg.CacheEnabled {
		cacheTTL = cfg.CacheTTL
	}
	catalogSvc := usecase.NewCatalogService(client, cacheTTL, logger)

	handler := httpapi.NewHandler(
		catalogSvc,
		usecase.NewStandingsService(client, logger),
		usecase.NewSquadService(client, catalogSvc, logger),
		usecase.NewFixtureService(client, logger),
		usecase.NewBonusService(client, catalogSvc, logger),
		usecase.NewTenureService(client, logger),
		usecase.NewHistoryService(client, logger),
		usecase.NewSnapshotService(publisher, logger),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
