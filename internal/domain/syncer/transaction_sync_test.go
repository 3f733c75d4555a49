package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"starsync/internal/domain/account"
	"starsync/internal/infrastructure/starling"
)

func snapshotWithMain() *account.Snapshot {
	return &account.Snapshot{
		Identity: "personal",
		Accounts: []account.Account{
			{ID: "acc-1", Name: "Main", Currency: "GBP", DefaultCategory: "cat-1"},
		},
	}
}

func newTxService(client *MockClient, tokenSource *MockTokenSource, accountRepo *MockAccountRepo, txRepo *MockTransactionRepo) *TransactionSyncService {
	return NewTransactionSyncService(client, tokenSource, accountRepo, txRepo, 0)
}

func TestSyncTransactions(t *testing.T) {
	tokenSource := &MockTokenSource{
		TokenForFunc: func(identity string) (string, bool, error) {
			return "tok-p", identity == "personal", nil
		},
	}
	accountRepo := &MockAccountRepo{
		FindByIdentityFunc: func(ctx context.Context, identity string) (*account.Snapshot, error) {
			return snapshotWithMain(), nil
		},
	}
	txRepo := &MockTransactionRepo{}

	var gotAccount, gotCategory string
	var gotStart, gotEnd time.Time
	client := &MockClient{
		FetchTransactionsFunc: func(ctx context.Context, token, accountUID, categoryUID string, start, end time.Time) ([]starling.Transaction, error) {
			gotAccount, gotCategory = accountUID, categoryUID
			gotStart, gotEnd = start, end
			return []starling.Transaction{
				{
					FeedItemUID:      "f1",
					TransactionTime:  "2024-01-02T10:00:00Z",
					CounterPartyName: "Grocer",
					Direction:        "OUT",
					SourceAmount:     starling.Amount{Currency: "GBP", MinorUnits: 1250},
					Reference:        "weekly shop",
					Status:           "SETTLED",
				},
			}, nil
		},
	}

	svc := newTxService(client, tokenSource, accountRepo, txRepo)
	svc.now = func() time.Time { return time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) }

	result, err := svc.SyncTransactions(context.Background(), "personal", "Main")
	if err != nil {
		t.Fatalf("SyncTransactions() failed: %v", err)
	}

	if result.Outcome != OutcomeSynced {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeSynced)
	}
	if gotAccount != "acc-1" || gotCategory != "cat-1" {
		t.Errorf("fetch used account=%q category=%q, want acc-1/cat-1", gotAccount, gotCategory)
	}

	// Trailing window: start = end - 7 days.
	wantEnd := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gotEnd.Equal(wantEnd) || !gotStart.Equal(wantStart) {
		t.Errorf("window = [%v, %v], want [%v, %v]", gotStart, gotEnd, wantStart, wantEnd)
	}

	if txRepo.ReplaceCalls != 1 {
		t.Fatalf("ReplaceForAccount called %d times, want 1", txRepo.ReplaceCalls)
	}
	if txRepo.LastIdentity != "personal" || txRepo.LastAccount != "Main" {
		t.Errorf("replace scoped to %s/%s, want personal/Main", txRepo.LastIdentity, txRepo.LastAccount)
	}
	if len(txRepo.LastTxs) != 1 {
		t.Fatalf("stored %d transactions, want 1", len(txRepo.LastTxs))
	}
	stored := txRepo.LastTxs[0]
	if stored.FeedItemUID != "f1" || stored.SourceAmount.MinorUnits != 1250 || stored.Direction != "OUT" {
		t.Errorf("unexpected stored transaction: %+v", stored)
	}
}

func TestSyncTransactions_UnknownIdentity(t *testing.T) {
	tokenSource := &MockTokenSource{
		TokenForFunc: func(identity string) (string, bool, error) {
			return "", false, nil
		},
	}
	client := &MockClient{}
	txRepo := &MockTransactionRepo{}

	svc := newTxService(client, tokenSource, &MockAccountRepo{}, txRepo)
	result, err := svc.SyncTransactions(context.Background(), "typo", "Main")
	if err != nil {
		t.Fatalf("SyncTransactions() failed: %v", err)
	}

	if result.Outcome != OutcomeUnknownIdentity {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeUnknownIdentity)
	}
	if len(result.Transactions) != 0 {
		t.Errorf("Transactions = %v, want empty", result.Transactions)
	}
	if client.TransactionCalls != 0 {
		t.Errorf("network calls = %d, want 0", client.TransactionCalls)
	}
	// The empty window is still persisted (replace-on-sync).
	if txRepo.ReplaceCalls != 1 || len(txRepo.LastTxs) != 0 {
		t.Errorf("ReplaceForAccount calls = %d with %d txs, want 1 with 0", txRepo.ReplaceCalls, len(txRepo.LastTxs))
	}
}

func TestSyncTransactions_UnknownAccount(t *testing.T) {
	tokenSource := &MockTokenSource{
		TokenForFunc: func(identity string) (string, bool, error) {
			return "tok-p", true, nil
		},
	}
	accountRepo := &MockAccountRepo{
		FindByIdentityFunc: func(ctx context.Context, identity string) (*account.Snapshot, error) {
			return snapshotWithMain(), nil
		},
	}
	client := &MockClient{}

	svc := newTxService(client, tokenSource, accountRepo, &MockTransactionRepo{})
	result, err := svc.SyncTransactions(context.Background(), "personal", "missing-account")
	if err != nil {
		t.Fatalf("SyncTransactions() failed: %v", err)
	}

	if result.Outcome != OutcomeUnknownAccount {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeUnknownAccount)
	}
	if client.TransactionCalls != 0 {
		t.Errorf("network calls = %d, want 0", client.TransactionCalls)
	}
}

func TestSyncTransactions_NoSnapshotStored(t *testing.T) {
	tokenSource := &MockTokenSource{
		TokenForFunc: func(identity string) (string, bool, error) {
			return "tok-p", true, nil
		},
	}
	accountRepo := &MockAccountRepo{
		FindByIdentityFunc: func(ctx context.Context, identity string) (*account.Snapshot, error) {
			return nil, nil
		},
	}

	svc := newTxService(&MockClient{}, tokenSource, accountRepo, &MockTransactionRepo{})
	result, err := svc.SyncTransactions(context.Background(), "personal", "Main")
	if err != nil {
		t.Fatalf("SyncTransactions() failed: %v", err)
	}
	if result.Outcome != OutcomeUnknownAccount {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeUnknownAccount)
	}
}

func TestSyncTransactions_FetchFailurePropagates(t *testing.T) {
	tokenSource := &MockTokenSource{
		TokenForFunc: func(identity string) (string, bool, error) {
			return "tok-p", true, nil
		},
	}
	accountRepo := &MockAccountRepo{
		FindByIdentityFunc: func(ctx context.Context, identity string) (*account.Snapshot, error) {
			return snapshotWithMain(), nil
		},
	}
	client := &MockClient{
		FetchTransactionsFunc: func(ctx context.Context, token, accountUID, categoryUID string, start, end time.Time) ([]starling.Transaction, error) {
			return nil, &starling.FetchError{Path: "/feed", StatusCode: 500}
		},
	}
	txRepo := &MockTransactionRepo{}

	_, err := newTxService(client, tokenSource, accountRepo, txRepo).SyncTransactions(context.Background(), "personal", "Main")
	if err == nil {
		t.Fatal("SyncTransactions() expected error on upstream failure")
	}

	var fetchErr *starling.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("error type = %T, want wrapped *starling.FetchError", err)
	}
	if txRepo.ReplaceCalls != 0 {
		t.Errorf("ReplaceForAccount called %d times after fetch failure, want 0", txRepo.ReplaceCalls)
	}
}
