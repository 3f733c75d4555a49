package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"starsync/internal/domain/account"
	"starsync/internal/domain/transaction"
	"starsync/internal/infrastructure/starling"
)

// DefaultWindow is the trailing lookback period for transaction fetches.
const DefaultWindow = 7 * 24 * time.Hour

// Outcome says how a transaction sync resolved. Soft fails (unknown
// identity or account) return an empty result rather than an error, but
// the outcome keeps them distinguishable from a genuinely empty window.
type Outcome string

const (
	OutcomeSynced          Outcome = "synced"
	OutcomeUnknownIdentity Outcome = "unknown_identity"
	OutcomeUnknownAccount  Outcome = "unknown_account"
)

// TransactionSyncResult is the result of one transaction sync call.
type TransactionSyncResult struct {
	Identity     string
	AccountName  string
	Outcome      Outcome
	Transactions []transaction.Transaction
}

// TransactionSyncService fetches the trailing transaction window for
// one (identity, account) pair and replaces that pair's stored snapshot.
type TransactionSyncService struct {
	client       starling.ClientInterface
	tokens       TokenSource
	accounts     account.Repository
	transactions transaction.Repository
	window       time.Duration

	now func() time.Time // test hook
}

// NewTransactionSyncService creates a new transaction sync service.
// A non-positive window selects DefaultWindow.
func NewTransactionSyncService(
	client starling.ClientInterface,
	tokens TokenSource,
	accounts account.Repository,
	transactions transaction.Repository,
	window time.Duration,
) *TransactionSyncService {
	if window <= 0 {
		window = DefaultWindow
	}
	return &TransactionSyncService{
		client:       client,
		tokens:       tokens,
		accounts:     accounts,
		transactions: transactions,
		window:       window,
		now:          time.Now,
	}
}

// SyncTransactions resolves the identity's token and the named account
// from the stored snapshot, fetches the trailing window, and replaces
// the stored transactions for that (identity, account) pair.
//
// An unresolvable identity or account is a soft fail: the pair's stored
// window is replaced with an empty one, no network call is made, and
// the result outcome records which lookup missed. A fetch failure
// propagates to the caller and nothing is written.
func (s *TransactionSyncService) SyncTransactions(ctx context.Context, identity, accountName string) (*TransactionSyncResult, error) {
	result := &TransactionSyncResult{
		Identity:     identity,
		AccountName:  accountName,
		Transactions: []transaction.Transaction{},
	}

	token, ok, err := s.tokens.TokenFor(identity)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("Transaction sync: no token for identity %q", identity)
		result.Outcome = OutcomeUnknownIdentity
		return result, s.persist(ctx, result)
	}

	snapshot, err := s.accounts.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve account snapshot for identity %q: %w", identity, err)
	}
	var acct account.Account
	if snapshot != nil {
		acct, ok = snapshot.AccountByName(accountName)
	} else {
		ok = false
	}
	if !ok {
		log.Printf("Transaction sync: identity %q has no account named %q", identity, accountName)
		result.Outcome = OutcomeUnknownAccount
		return result, s.persist(ctx, result)
	}

	end := s.now().UTC().Truncate(time.Second)
	start := end.Add(-s.window)

	fetched, err := s.client.FetchTransactions(ctx, token, acct.ID, acct.DefaultCategory, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions for %s/%s: %w", identity, accountName, err)
	}

	result.Outcome = OutcomeSynced
	result.Transactions = toDomainTransactions(fetched)
	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}

	log.Printf("Transaction sync complete: %s/%s, %d transactions", identity, accountName, len(result.Transactions))
	return result, nil
}

func (s *TransactionSyncService) persist(ctx context.Context, result *TransactionSyncResult) error {
	err := s.transactions.ReplaceForAccount(ctx, result.Identity, result.AccountName, result.Transactions)
	if err != nil {
		return fmt.Errorf("replace transactions for %s/%s: %w", result.Identity, result.AccountName, err)
	}
	return nil
}

func toDomainTransactions(txs []starling.Transaction) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, transaction.Transaction{
			FeedItemUID:      t.FeedItemUID,
			TransactionTime:  t.TransactionTime,
			CounterPartyName: t.CounterPartyName,
			Direction:        t.Direction,
			SourceAmount: transaction.Amount{
				Currency:   t.SourceAmount.Currency,
				MinorUnits: t.SourceAmount.MinorUnits,
			},
			Reference: t.Reference,
			Status:    t.Status,
		})
	}
	return out
}
