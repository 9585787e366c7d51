//go:build e2e

package e2etest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tokenfarm-io/staking-rewards-ledger/e2etest/container"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/api"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/queue"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/services"
)

var (
	eventuallyWaitTimeOut = 40 * time.Second
	eventuallyPollTime    = 1 * time.Second
)

type TestManager struct {
	Config       *config.Config
	manager      *container.Manager
	DbClient     *db.Database
	Service      *services.Service
	Server       *httptest.Server
	QueueManager *queue.QueueManager
	LedgerEvents <-chan amqp.Delivery
}

// StartManager starts mongodb and rabbitmq, then runs the ledger service
// on a simulated chain behind a test http server.
func StartManager(t *testing.T) *TestManager {
	manager, err := container.NewManager(t)
	require.NoError(t, err)

	mongoAddr, err := manager.RunMongoResource()
	require.NoError(t, err)
	queueAddr, err := manager.RunRabbitMQResource()
	require.NoError(t, err)

	cfg := DefaultLedgerConfig(mongoAddr, queueAddr)
	ctx := t.Context()

	err = manager.Retry(func() error {
		return model.Setup(ctx, &cfg.Db)
	})
	require.NoError(t, err)

	dbClient, err := db.New(ctx, cfg.Db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbClient.Close(context.Background())
	})

	queueManager, err := queue.NewQueueManager(cfg.Queue, zap.NewNop())
	require.NoError(t, err)
	// the broker takes a while to accept connections after the container starts
	err = manager.Retry(queueManager.Start)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = queueManager.Stop()
	})

	service, err := services.NewService(cfg, dbClient, chainclient.NewSimulator(cfg.Chain.StartBlock), queueManager)
	require.NoError(t, err)
	require.NoError(t, service.StartLedgerService(ctx))

	server := httptest.NewServer(api.NewRouter(&cfg.Server, service))
	t.Cleanup(server.Close)

	return &TestManager{
		Config:       cfg,
		manager:      manager,
		DbClient:     dbClient,
		Service:      service,
		Server:       server,
		QueueManager: queueManager,
		LedgerEvents: consumeLedgerEvents(t, cfg.Queue),
	}
}

func DefaultLedgerConfig(mongoAddr, queueAddr string) *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			RewardPerBlock: "1000000000000000000",
			Denominator:    "current",
			EmptyClaim:     "error",
			PoolAddress:    "0x0000000000000000000000000000000000000001",
			Deployer:       "0x0000000000000000000000000000000000000002",
			LPSymbol:       "LP",
			RewardSymbol:   "RWD",
		},
		Db: config.DbConfig{
			Username:           container.MongoUser,
			Password:           container.MongoPassword,
			DbName:             "ledger-e2e",
			Address:            mongoAddr,
			MaxPaginationLimit: 10,
		},
		Chain: config.ChainConfig{
			Mode: config.ChainModeSimulated,
		},
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Poller: config.PollerConfig{
			StatsPollingInterval: time.Minute,
		},
		Queue: &config.QueueConfig{
			QueueUser:              container.QueueUser,
			QueuePassword:          container.QueuePassword,
			Url:                    queueAddr,
			QueueProcessingTimeout: 5 * time.Second,
			MsgMaxRetryAttempts:    3,
			RetryInterval:          500 * time.Millisecond,
			QueueType:              config.ClassicQueueType,
		},
	}
}

func consumeLedgerEvents(t *testing.T, cfg *config.QueueConfig) <-chan amqp.Delivery {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	ch, err := conn.Channel()
	require.NoError(t, err)

	deliveries, err := ch.Consume(queue.LedgerEventQueueName, "", true, false, false, false, nil)
	require.NoError(t, err)

	return deliveries
}

// Post sends a json body to the api and requires a 200 response.
func (tm *TestManager) Post(t *testing.T, path, body string) {
	resp, err := http.Post(tm.Server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, path)
}

// Get fetches path and returns the response, the caller closes the body.
func (tm *TestManager) Get(t *testing.T, path string) *http.Response {
	resp, err := http.Get(tm.Server.URL + path)
	require.NoError(t, err)

	return resp
}

// StartOver runs a fresh service against tm's database and queue, as a
// restarted process would.
func StartOver(t *testing.T, tm *TestManager) *TestManager {
	service, err := services.NewService(tm.Config, tm.DbClient, chainclient.NewSimulator(tm.Config.Chain.StartBlock), tm.QueueManager)
	require.NoError(t, err)
	require.NoError(t, service.StartLedgerService(t.Context()))

	server := httptest.NewServer(api.NewRouter(&tm.Config.Server, service))
	t.Cleanup(server.Close)

	restarted := *tm
	restarted.Service = service
	restarted.Server = server
	return &restarted
}
