package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
)

func (db *Database) GetLastProcessedBlock(ctx context.Context) (uint64, error) {
	var result model.LastProcessedBlock
	err := db.collection(model.LastProcessedBlockCollection).
		FindOne(ctx, bson.M{}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// If no document exists, return 0
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Height, nil
}

func (db *Database) UpdateLastProcessedBlock(ctx context.Context, height uint64) error {
	update := bson.M{"$set": bson.M{"height": height}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.LastProcessedBlockCollection).
		UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
