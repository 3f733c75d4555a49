package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"starsync/internal/domain/account"
	"starsync/internal/infrastructure/starling"
)

// AccountSyncer runs the account synchronization.
type AccountSyncer interface {
	SyncAllAccounts(ctx context.Context) ([]account.Snapshot, error)
}

// AccountsHandler serves the account snapshots, refreshing them from
// upstream on every request.
type AccountsHandler struct {
	syncer AccountSyncer
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(syncer AccountSyncer) *AccountsHandler {
	return &AccountsHandler{syncer: syncer}
}

type accountResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Currency        string `json:"currency"`
	CreatedAt       string `json:"createdAt"`
	DefaultCategory string `json:"defaultCategory"`
}

type snapshotResponse struct {
	TypeName string            `json:"typeName"`
	Accounts []accountResponse `json:"accounts"`
}

// HandleAccounts syncs all identities' accounts and returns the fresh
// snapshot set.
func (h *AccountsHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshots, err := h.syncer.SyncAllAccounts(r.Context())
	if err != nil {
		writeSyncError(w, "account sync", err)
		return
	}

	response := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		response = append(response, toSnapshotResponse(s))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding accounts response: %v", err)
	}
}

func toSnapshotResponse(s account.Snapshot) snapshotResponse {
	accounts := make([]accountResponse, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		accounts = append(accounts, accountResponse{
			ID:              a.ID,
			Name:            a.Name,
			Type:            a.Type,
			Currency:        a.Currency,
			CreatedAt:       a.CreatedAt,
			DefaultCategory: a.DefaultCategory,
		})
	}
	return snapshotResponse{TypeName: s.Identity, Accounts: accounts}
}

// writeSyncError maps sync failures onto status codes: upstream
// problems become 502, everything else 500.
func writeSyncError(w http.ResponseWriter, op string, err error) {
	log.Printf("Error during %s: %v", op, err)

	var fetchErr *starling.FetchError
	var schemaErr *starling.SchemaError
	if errors.As(err, &fetchErr) || errors.As(err, &schemaErr) {
		http.Error(w, "Upstream fetch failed", http.StatusBadGateway)
		return
	}
	http.Error(w, "Sync failed", http.StatusInternalServerError)
}
