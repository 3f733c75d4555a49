package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"starsync/internal/domain/account"
	"starsync/internal/domain/syncer"
	"starsync/internal/infrastructure/starling"
)

type MockAccountSyncer struct {
	SyncAllAccountsFunc func(ctx context.Context) ([]account.Snapshot, error)
}

func (m *MockAccountSyncer) SyncAllAccounts(ctx context.Context) ([]account.Snapshot, error) {
	if m.SyncAllAccountsFunc != nil {
		return m.SyncAllAccountsFunc(ctx)
	}
	return nil, nil
}

type MockTransactionSyncer struct {
	SyncTransactionsFunc func(ctx context.Context, identity, accountName string) (*syncer.TransactionSyncResult, error)
}

func (m *MockTransactionSyncer) SyncTransactions(ctx context.Context, identity, accountName string) (*syncer.TransactionSyncResult, error) {
	if m.SyncTransactionsFunc != nil {
		return m.SyncTransactionsFunc(ctx, identity, accountName)
	}
	return &syncer.TransactionSyncResult{}, nil
}

func TestHandleAccounts(t *testing.T) {
	handler := NewAccountsHandler(&MockAccountSyncer{
		SyncAllAccountsFunc: func(ctx context.Context) ([]account.Snapshot, error) {
			return []account.Snapshot{
				{
					Identity: "personal",
					Accounts: []account.Account{
						{ID: "x1", Name: "Main", Type: "PRIMARY", Currency: "GBP", CreatedAt: "2023-01-01T00:00:00Z", DefaultCategory: "cat1"},
					},
				},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.HandleAccounts(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var response []snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].TypeName != "personal" {
		t.Fatalf("unexpected response: %+v", response)
	}
	got := response[0].Accounts[0]
	if got.ID != "x1" || got.CreatedAt != "2023-01-01T00:00:00Z" || got.DefaultCategory != "cat1" {
		t.Errorf("unexpected account in response: %+v", got)
	}
}

func TestHandleAccounts_UpstreamFailure(t *testing.T) {
	handler := NewAccountsHandler(&MockAccountSyncer{
		SyncAllAccountsFunc: func(ctx context.Context) ([]account.Snapshot, error) {
			return nil, &starling.FetchError{Path: "/accounts", StatusCode: 401}
		},
	})

	rec := httptest.NewRecorder()
	handler.HandleAccounts(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHandleAccounts_MethodNotAllowed(t *testing.T) {
	handler := NewAccountsHandler(&MockAccountSyncer{})

	rec := httptest.NewRecorder()
	handler.HandleAccounts(rec, httptest.NewRequest(http.MethodPost, "/api/accounts", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
