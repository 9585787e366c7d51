package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tokenfarm-io/staking-rewards-ledger/consumer"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/api"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	dbmodel "github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/tracing"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/queue"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the staking rewards ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	// create new db client
	mongoClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()
	var dbClient db.DbInterface = db.NewDbWithMetrics(mongoClient)

	chain, closeChain, err := newChain(ctx, &cfg.Chain)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating chain client")
	}
	defer closeChain()

	var eventConsumer consumer.EventConsumer
	if cfg.Queue != nil {
		// Create a basic zap logger
		zapLogger, err := zap.NewProduction()
		if err != nil {
			log.Fatal().Err(err).Msg("error while creating zap logger")
		}
		defer func() {
			_ = zapLogger.Sync()
		}()

		queueManager, err := queue.NewQueueManager(cfg.Queue, zapLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize event consumer")
		}
		if err := queueManager.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start event consumer")
		}
		defer func() {
			if err := queueManager.Stop(); err != nil {
				log.Error().Err(err).Msg("error while stopping event consumer")
			}
		}()
		eventConsumer = queueManager
	} else {
		log.Info().Msg("no queue configured, ledger events are not published")
	}

	service, err := services.NewService(cfg, dbClient, chain, eventConsumer)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating service")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	if err := service.StartLedgerService(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting ledger service")
	}

	server := api.New(&cfg.Server, service)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error while shutting down api server")
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}

	// the ledger may still hold state a failed write left behind
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := service.Flush(log.WithContext(flushCtx)); err != nil {
		log.Error().Err(err).Msg("failed to flush ledger state on shutdown")
	}

	log.Info().Msg("server stopped")
	return nil
}
