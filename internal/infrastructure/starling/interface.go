package starling

import (
	"context"
	"time"
)

// ClientInterface defines the methods required from the Starling API client.
type ClientInterface interface {
	FetchAccounts(ctx context.Context, token string) ([]Account, error)
	FetchTransactions(ctx context.Context, token, accountUID, categoryUID string, start, end time.Time) ([]Transaction, error)
}
