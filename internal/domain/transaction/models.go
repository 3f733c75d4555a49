// Package transaction defines the cached transaction model.
package transaction

import "context"

// Amount is a monetary amount in minor units.
type Amount struct {
	Currency   string
	MinorUnits int64
}

// Transaction is one feed item as cached from upstream.
type Transaction struct {
	FeedItemUID      string
	TransactionTime  string
	CounterPartyName string
	Direction        string
	SourceAmount     Amount
	Reference        string
	Status           string
}

// Repository persists the latest transaction window per account.
//
// ReplaceForAccount deletes the prior window for (identity, accountName)
// and inserts the new one. Like the account snapshot replacement, the
// delete+insert pair is not transactional; see account.Repository.
type Repository interface {
	ReplaceForAccount(ctx context.Context, identity, accountName string, txs []Transaction) error
}
