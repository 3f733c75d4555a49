package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"starsync/internal/domain/notify"
	"starsync/internal/domain/syncer"
	"starsync/internal/infrastructure/starling"
)

// FullSyncJob refreshes the account snapshots for every identity, then
// the trailing transaction window for each account found. Accounts are
// synced first so the transaction sync resolves against fresh data;
// the fetched snapshots are used directly instead of re-reading storage.
type FullSyncJob struct {
	runID    string
	accounts *syncer.AccountSyncService
	txs      *syncer.TransactionSyncService
	alerts   *notify.Service
}

// NewFullSyncJob creates a full sync job. alerts may be nil.
func NewFullSyncJob(accounts *syncer.AccountSyncService, txs *syncer.TransactionSyncService, alerts *notify.Service) *FullSyncJob {
	return &FullSyncJob{
		runID:    uuid.NewString(),
		accounts: accounts,
		txs:      txs,
		alerts:   alerts,
	}
}

// Execute runs the account sync and then the per-account transaction
// syncs. The first failure stops the run; later accounts keep the
// previous window. Upstream 401s additionally raise an operator alert
// since a token file needs rotating.
func (j *FullSyncJob) Execute(ctx context.Context) error {
	log.Printf("Sync run %s: starting", j.runID)

	snapshots, err := j.accounts.SyncAllAccounts(ctx)
	if err != nil {
		j.alert(ctx, "accounts", err)
		return fmt.Errorf("account sync failed: %w", err)
	}

	for _, snapshot := range snapshots {
		for _, acct := range snapshot.Accounts {
			if _, err := j.txs.SyncTransactions(ctx, snapshot.Identity, acct.Name); err != nil {
				j.alert(ctx, snapshot.Identity+"/"+acct.Name, err)
				return fmt.Errorf("transaction sync failed for %s/%s: %w", snapshot.Identity, acct.Name, err)
			}
		}
	}

	log.Printf("Sync run %s: complete, %d identities", j.runID, len(snapshots))
	return nil
}

func (j *FullSyncJob) alert(ctx context.Context, target string, err error) {
	var fetchErr *starling.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Unauthorized() {
		j.alerts.UpstreamUnauthorized(ctx, err.Error())
		return
	}
	j.alerts.SyncFailed(ctx, target, err)
}

// Target returns the sync run identifier.
func (j *FullSyncJob) Target() string {
	return j.runID
}

// Description returns a human-readable description of the job.
func (j *FullSyncJob) Description() string {
	return fmt.Sprintf("full sync (run %s)", j.runID)
}

// JobProvider returns a provider that yields one fresh FullSyncJob per
// scheduler trigger.
func JobProvider(accounts *syncer.AccountSyncService, txs *syncer.TransactionSyncService, alerts *notify.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		return []Job{NewFullSyncJob(accounts, txs, alerts)}, nil
	}
}
