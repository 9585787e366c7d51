package db

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
)

func (db *Database) UpsertLedgerAccounts(ctx context.Context, accounts []*model.LedgerAccountDocument) error {
	if len(accounts) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(accounts))
	for _, acc := range accounts {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": acc.ID}).
			SetReplacement(acc).
			SetUpsert(true))
	}

	_, err := db.collection(model.LedgerAccountsCollection).
		BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

func (db *Database) GetLedgerAccount(ctx context.Context, address string) (*model.LedgerAccountDocument, error) {
	var account model.LedgerAccountDocument
	err := db.collection(model.LedgerAccountsCollection).
		FindOne(ctx, bson.M{"_id": address}).
		Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address,
				Message: "ledger account not found",
			}
		}
		return nil, err
	}

	return &account, nil
}

func (db *Database) FindLedgerAccounts(ctx context.Context) ([]*model.LedgerAccountDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := db.collection(model.LedgerAccountsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*model.LedgerAccountDocument
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (db *Database) FindLedgerAccountsPage(
	ctx context.Context, paginationToken string,
) ([]*model.LedgerAccountDocument, string, error) {
	filter := bson.M{}
	if paginationToken != "" {
		after, err := decodePaginationToken(paginationToken)
		if err != nil {
			return nil, "", err
		}
		filter["order"] = bson.M{"$gt": after}
	}

	limit := db.cfg.MaxPaginationLimit
	opts := options.Find().
		SetSort(bson.D{{Key: "order", Value: 1}}).
		SetLimit(limit + 1)

	cursor, err := db.collection(model.LedgerAccountsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, "", err
	}
	defer cursor.Close(ctx)

	var accounts []*model.LedgerAccountDocument
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, "", err
	}

	// the extra document only tells whether another page exists
	var next string
	if int64(len(accounts)) > limit {
		accounts = accounts[:limit]
		next = encodePaginationToken(accounts[len(accounts)-1].Order)
	}

	return accounts, next, nil
}

func (db *Database) UpsertPoolState(ctx context.Context, pool *model.PoolStateDocument) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.collection(model.LedgerPoolCollection).
		ReplaceOne(ctx, bson.M{"_id": model.PoolStateID()}, pool, opts)
	return err
}

func (db *Database) GetPoolState(ctx context.Context) (*model.PoolStateDocument, error) {
	var pool model.PoolStateDocument
	err := db.collection(model.LedgerPoolCollection).
		FindOne(ctx, bson.M{"_id": model.PoolStateID()}).
		Decode(&pool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.PoolStateID(),
				Message: "pool state not found",
			}
		}
		return nil, err
	}

	return &pool, nil
}

func (db *Database) SaveLedgerEvents(ctx context.Context, events []*model.LedgerEventDocument) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		docs = append(docs, ev)
	}

	// unordered so a journaled event does not stop the rest from being inserted
	_, err := db.collection(model.LedgerEventsCollection).
		InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var writeErr mongo.BulkWriteException
		if errors.As(err, &writeErr) && onlyDuplicateKeyErrors(writeErr) {
			return nil
		}
		return err
	}

	return nil
}

func (db *Database) FindLedgerEventsByAccount(
	ctx context.Context, address string, limit int64,
) ([]*model.LedgerEventDocument, error) {
	if limit <= 0 || limit > db.cfg.MaxPaginationLimit {
		limit = db.cfg.MaxPaginationLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "block", Value: -1}, {Key: "nonce", Value: -1}, {Key: "seq", Value: -1}}).
		SetLimit(limit)

	cursor, err := db.collection(model.LedgerEventsCollection).Find(ctx, bson.M{"account": address}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.LedgerEventDocument
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func onlyDuplicateKeyErrors(err mongo.BulkWriteException) bool {
	if err.WriteConcernError != nil || len(err.WriteErrors) == 0 {
		return false
	}
	for _, e := range err.WriteErrors {
		if !mongo.IsDuplicateKeyError(e) {
			return false
		}
	}
	return true
}

func encodePaginationToken(order int64) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatInt(order, 10)))
}

func decodePaginationToken(token string) (int64, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, &InvalidPaginationTokenError{Message: "invalid pagination token"}
	}
	order, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, &InvalidPaginationTokenError{Message: "invalid pagination token"}
	}
	return order, nil
}
