//go:build integration

package db_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/testutil"
)

const testPaginationLimit = 2

var (
	testDB    *db.Database
	testMongo *testutil.MongoContainer
)

func TestMain(m *testing.M) {
	var err error
	testMongo, err = testutil.StartMongoContainer("test-database")
	if err != nil {
		log.Fatalf("failed to setup mongo container: %v", err)
	}

	code, err := run(m)
	if purgeErr := testMongo.Purge(); purgeErr != nil {
		log.Printf("failed to purge mongo container: %v", purgeErr)
	}
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(code)
}

func run(m *testing.M) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.DbConfig{
		Username:           testMongo.Username,
		Password:           testMongo.Password,
		DbName:             testMongo.DbName,
		Address:            testMongo.Address,
		MaxPaginationLimit: testPaginationLimit,
	}
	if err := model.Setup(ctx, &cfg); err != nil {
		return 0, err
	}

	var err error
	testDB, err = db.New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer testDB.Close(context.Background())

	// integration tests run on this line
	return m.Run(), nil
}

func resetDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, testMongo.Truncate(ctx,
		model.LedgerAccountsCollection,
		model.LedgerPoolCollection,
		model.LedgerEventsCollection,
		model.LastProcessedBlockCollection,
	))
}
