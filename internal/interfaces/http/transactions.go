package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"starsync/internal/domain/syncer"
	"starsync/internal/domain/transaction"
)

// TransactionSyncer runs the transaction synchronization for one
// (identity, account) pair.
type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, identity, accountName string) (*syncer.TransactionSyncResult, error)
}

// TransactionsHandler serves the trailing transaction window for one
// account, refreshing it from upstream on every request.
type TransactionsHandler struct {
	syncer TransactionSyncer
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(syncer TransactionSyncer) *TransactionsHandler {
	return &TransactionsHandler{syncer: syncer}
}

type amountResponse struct {
	Currency   string `json:"currency"`
	MinorUnits int64  `json:"minorUnits"`
}

type transactionResponse struct {
	FeedItemUID      string         `json:"feedItemUid"`
	TransactionTime  string         `json:"transactionTime"`
	CounterPartyName string         `json:"counterPartyName"`
	Direction        string         `json:"direction"`
	SourceAmount     amountResponse `json:"sourceAmount"`
	Reference        string         `json:"reference"`
	Status           string         `json:"status"`
}

type transactionsResponse struct {
	Identity     string                `json:"identity"`
	AccountName  string                `json:"accountName"`
	Outcome      string                `json:"outcome"`
	Transactions []transactionResponse `json:"transactions"`
}

// HandleTransactions syncs and returns transactions for the identity
// and account named in the path. Unresolvable identity or account
// yields 200 with an empty list and a non-"synced" outcome.
func (h *TransactionsHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := r.PathValue("identity")
	accountName := r.PathValue("account")
	if identity == "" || accountName == "" {
		http.Error(w, "Missing identity or account", http.StatusBadRequest)
		return
	}

	result, err := h.syncer.SyncTransactions(r.Context(), identity, accountName)
	if err != nil {
		writeSyncError(w, "transaction sync", err)
		return
	}

	response := transactionsResponse{
		Identity:     result.Identity,
		AccountName:  result.AccountName,
		Outcome:      string(result.Outcome),
		Transactions: toTransactionResponses(result.Transactions),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding transactions response: %v", err)
	}
}

func toTransactionResponses(txs []transaction.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionResponse{
			FeedItemUID:      t.FeedItemUID,
			TransactionTime:  t.TransactionTime,
			CounterPartyName: t.CounterPartyName,
			Direction:        t.Direction,
			SourceAmount: amountResponse{
				Currency:   t.SourceAmount.Currency,
				MinorUnits: t.SourceAmount.MinorUnits,
			},
			Reference: t.Reference,
			Status:    t.Status,
		})
	}
	return out
}
