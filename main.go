// package main provides the entry point for the advisory-sync backend,
// wiring the service clients, the resolution engine, the Kafka event
// processor, and the REST/GraphQL API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/events/modules/sweeps"
	"github.com/release-eng/advisory-sync/internal/api"
	"github.com/release-eng/advisory-sync/internal/clients"
	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/internal/kafka"
	"github.com/release-eng/advisory-sync/internal/services"
	"github.com/release-eng/advisory-sync/util"
)

func main() {
	logger := clients.InitLogger()
	defer logger.Sync() //nolint:errcheck

	buildClient := clients.NewBuildClient(clients.Config{
		BaseURL: util.GetEnvDefault("BREW_URL", "http://localhost:8081"),
		Token:   os.Getenv("BREW_TOKEN"),
	}, logger)

	bugClient := clients.NewBugClient(clients.Config{
		BaseURL: util.GetEnvDefault("BUGZILLA_URL", "http://localhost:8082"),
		Token:   os.Getenv("BUGZILLA_TOKEN"),
	}, logger)

	advisoryClient := clients.NewAdvisoryClient(clients.Config{
		BaseURL: util.GetEnvDefault("ERRATA_URL", "http://localhost:8083"),
		Token:   os.Getenv("ERRATA_TOKEN"),
	}, logger)

	eng := &engine.Engine{
		Builds:      buildClient,
		Bugs:        bugClient,
		Advisories:  advisoryClient,
		Logger:      logger,
		Concurrency: util.GetEnvInt("ENRICH_CONCURRENCY", 0),
	}

	groupDir := util.GetEnvDefault("GROUP_DIR", "/etc/advisory-sync/groups")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event processor is optional; the REST API works without Kafka.
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer := sweeps.NewSyncProducer(
			strings.Split(brokers, ","),
			util.GetEnvDefault("KAFKA_SYNC_TOPIC", "advisory-sync-events"),
		)
		defer producer.Close() //nolint:errcheck

		sweeper := &services.SweepServiceWrapper{Engine: eng, GroupDir: groupDir}
		if err := kafka.RunEventProcessor(ctx, sweeper, producer); err != nil {
			logger.Warn("Kafka event processor unavailable", zap.Error(err))
		}
	}

	app := api.NewFiberApp(eng, groupDir)

	port := util.GetEnvDefault("PORT", "8080")
	log.Printf("Starting advisory-sync API on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Fiber server failed: %v", err)
	}
}
