// Command server runs the transfer center recommendation service: it loads
// the campus roster and exclusion rules, wires the road-routing and census
// adapters, and serves recommendations over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/transfer-center/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/transfer-center/internal/adapter/kafka"
	"github.com/couchcryptid/transfer-center/internal/adapter/osrm"
	"github.com/couchcryptid/transfer-center/internal/census"
	"github.com/couchcryptid/transfer-center/internal/config"
	"github.com/couchcryptid/transfer-center/internal/domain"
	"github.com/couchcryptid/transfer-center/internal/engine"
	"github.com/couchcryptid/transfer-center/internal/observability"
	"github.com/couchcryptid/transfer-center/internal/rules"
)

func main() {
	// Local dev convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ruleRepo, err := rules.LoadFile(cfg.ExclusionRulesPath)
	if err != nil {
		logger.Error("failed to load exclusion rules", "error", err, "path", cfg.ExclusionRulesPath)
		os.Exit(1)
	}
	metrics.RuleCampusesLoaded.Set(float64(ruleRepo.CampusCount()))
	logger.Info("exclusion rules loaded", "path", cfg.ExclusionRulesPath, "campuses", ruleRepo.CampusCount())

	campuses, err := census.LoadCampuses(cfg.CampusesPath)
	if err != nil {
		logger.Error("failed to load campuses", "error", err, "path", cfg.CampusesPath)
		os.Exit(1)
	}
	logger.Info("campus roster loaded", "path", cfg.CampusesPath, "campuses", len(campuses))

	registry := census.NewRegistry()
	roster := census.NewRoster(campuses, registry)

	// Road routing (feature-flagged via OSRM_ENABLED).
	var router domain.RoadRouter
	if cfg.OSRMEnabled {
		client := osrm.NewClient(cfg.OSRMBaseURL, cfg.OSRMTimeout, logger, metrics)
		router = osrm.NewCachedRouter(client, cfg.RouteCacheSize, metrics)
		logger.Info("osrm routing enabled", "base_url", cfg.OSRMBaseURL, "cache_size", cfg.RouteCacheSize, "timeout", cfg.OSRMTimeout)
	} else {
		logger.Info("osrm routing disabled, using haversine estimates")
	}

	transport := domain.NewTransportEvaluator(router, logger)
	if cfg.TrafficModelEnabled {
		transport.Traffic = domain.NewTrafficModel()
		logger.Info("metro traffic model enabled")
	}

	policy := engine.PolicyFor(cfg.SelectionPolicy)
	logger.Info("selection policy configured", "policy", policy.Name())

	eng := engine.New(ruleRepo, transport, policy, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, roster, readiness{rules: ruleRepo}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start census feed consumer (feature-flagged via CENSUS_FEED_ENABLED).
	var consumer *kafkaadapter.Consumer
	if cfg.CensusFeedEnabled {
		consumer = kafkaadapter.NewConsumer(cfg, registry, logger, metrics)
		logger.Info("census feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaCensusTopic)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("census consumer error", "error", err)
			}
		}()
	} else {
		logger.Info("census feed disabled, using static campus census")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("census consumer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// readiness gates /readyz on the rule store having loaded. A loaded store
// with zero campuses is a valid (empty) rule set and counts as ready.
type readiness struct {
	rules *rules.Repository
}

func (r readiness) CheckReadiness(_ context.Context) error {
	if r.rules == nil {
		return errors.New("exclusion rules not loaded")
	}
	return nil
}
