package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

const (
	LedgerAccountsCollection     = "ledger_accounts"
	LedgerPoolCollection         = "ledger_pool"
	LedgerEventsCollection       = "ledger_events"
	LastProcessedBlockCollection = "last_processed_block"
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	LedgerAccountsCollection: {
		{Keys: bson.D{{Key: "order", Value: 1}}, Unique: true},
	},
	LedgerPoolCollection: nil,
	LedgerEventsCollection: {
		{Keys: bson.D{{Key: "account", Value: 1}, {Key: "block", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "block", Value: 1}}},
	},
	LastProcessedBlockCollection: nil,
}

// Setup creates every collection the ledger uses together with its indexes.
// It is safe to run against an already initialized database.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)
	for name, indexes := range collections {
		createCollection(ctx, database, name)
		for _, idx := range indexes {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	log.Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		// NamespaceExists when the collection is already there
		log.Debug().Msg(fmt.Sprintf("Failed to create collection: %s, %v", collectionName, err))
		return
	}

	log.Debug().Msg(fmt.Sprintf("Collection created successfully: %s", collectionName))
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	index := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	log.Debug().Msg(fmt.Sprintf("Index created successfully on collection: %s", collectionName))
	return nil
}
