// Package syncer provides the services that pull account and transaction
// data from the Starling API and replace the stored snapshots.
package syncer

import (
	"context"
	"fmt"
	"log"

	"starsync/internal/domain/account"
	"starsync/internal/infrastructure/starling"
	"starsync/internal/infrastructure/tokens"
)

// TokenSource lists bearer tokens by identity. Implemented by the
// file-backed token store.
type TokenSource interface {
	ListTokens() ([]tokens.IdentityToken, error)
	TokenFor(identity string) (token string, ok bool, err error)
}

// AccountSyncService fetches every identity's accounts from upstream
// and replaces the stored account snapshot wholesale.
type AccountSyncService struct {
	client   starling.ClientInterface
	tokens   TokenSource
	accounts account.Repository
}

// NewAccountSyncService creates a new account sync service.
func NewAccountSyncService(client starling.ClientInterface, tokens TokenSource, accounts account.Repository) *AccountSyncService {
	return &AccountSyncService{
		client:   client,
		tokens:   tokens,
		accounts: accounts,
	}
}

// SyncAllAccounts fetches accounts for every known identity, then
// replaces the stored snapshot set with the result. All identities are
// fetched before anything is written, so a failure part-way through
// leaves the previous snapshots untouched. Any single identity's fetch
// failure fails the whole sync.
//
// Returns the freshly fetched snapshots, not a re-read from storage.
func (s *AccountSyncService) SyncAllAccounts(ctx context.Context) ([]account.Snapshot, error) {
	identityTokens, err := s.tokens.ListTokens()
	if err != nil {
		return nil, err
	}

	snapshots := make([]account.Snapshot, 0, len(identityTokens))
	for _, it := range identityTokens {
		accounts, err := s.client.FetchAccounts(ctx, it.Token)
		if err != nil {
			return nil, fmt.Errorf("fetch accounts for identity %q: %w", it.Identity, err)
		}
		snapshots = append(snapshots, account.Snapshot{
			Identity: it.Identity,
			Accounts: toDomainAccounts(accounts),
		})
	}

	if err := s.accounts.ReplaceAll(ctx, snapshots); err != nil {
		return nil, fmt.Errorf("replace account snapshots: %w", err)
	}

	log.Printf("Account sync complete: %d identities", len(snapshots))
	return snapshots, nil
}

func toDomainAccounts(accounts []starling.Account) []account.Account {
	out := make([]account.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, account.Account{
			ID:              a.AccountUID,
			Name:            a.Name,
			Type:            a.AccountType,
			Currency:        a.Currency,
			CreatedAt:       a.CreatedAt,
			DefaultCategory: a.DefaultCategory,
		})
	}
	return out
}
