package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"starsync/internal/domain/transaction"
)

// Document shape: {_id: feedItemUid, identity, accountName,
// transactionTime, counterPartyName, direction, sourceAmount, reference,
// status}. The identity/accountName fields scope the replace-on-sync to
// one account instead of clearing the whole collection.
type transactionDoc struct {
	FeedItemUID      string    `bson:"_id"`
	Identity         string    `bson:"identity"`
	AccountName      string    `bson:"accountName"`
	TransactionTime  string    `bson:"transactionTime"`
	CounterPartyName string    `bson:"counterPartyName"`
	Direction        string    `bson:"direction"`
	SourceAmount     amountDoc `bson:"sourceAmount"`
	Reference        string    `bson:"reference"`
	Status           string    `bson:"status"`
}

type amountDoc struct {
	Currency   string `bson:"currency"`
	MinorUnits int64  `bson:"minorUnits"`
}

// TransactionRepository stores the latest transaction window per
// (identity, account) pair in the transactions collection.
type TransactionRepository struct {
	db *DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ReplaceForAccount deletes the stored window for (identity,
// accountName) and inserts the new one. Other accounts' rows are left
// alone. The delete+insert pair is not transactional (see the
// transaction.Repository contract).
func (r *TransactionRepository) ReplaceForAccount(ctx context.Context, identity, accountName string, txs []transaction.Transaction) error {
	col := r.db.collection(transactionsCollection)
	scope := bson.M{"identity": identity, "accountName": accountName}

	if err := r.db.traced(ctx, transactionsCollection, "deleteMany", func(ctx context.Context) error {
		_, err := col.DeleteMany(ctx, scope)
		return err
	}); err != nil {
		return err
	}

	if len(txs) == 0 {
		return nil
	}

	docs := make([]transactionDoc, 0, len(txs))
	for _, t := range txs {
		docs = append(docs, transactionDoc{
			FeedItemUID:      t.FeedItemUID,
			Identity:         identity,
			AccountName:      accountName,
			TransactionTime:  t.TransactionTime,
			CounterPartyName: t.CounterPartyName,
			Direction:        t.Direction,
			SourceAmount: amountDoc{
				Currency:   t.SourceAmount.Currency,
				MinorUnits: t.SourceAmount.MinorUnits,
			},
			Reference: t.Reference,
			Status:    t.Status,
		})
	}

	return r.db.traced(ctx, transactionsCollection, "insertMany", func(ctx context.Context) error {
		_, err := col.InsertMany(ctx, docs)
		return err
	})
}
