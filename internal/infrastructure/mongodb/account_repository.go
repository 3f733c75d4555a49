package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"starsync/internal/domain/account"
)

// Document shape: {type_name, accounts: [{id, name, type, currency,
// createdAt, defaultCategory}]}, one document per identity.
type accountDoc struct {
	Identity string         `bson:"type_name"`
	Accounts []accountEntry `bson:"accounts"`
}

type accountEntry struct {
	ID              string `bson:"id"`
	Name            string `bson:"name"`
	Type            string `bson:"type"`
	Currency        string `bson:"currency"`
	CreatedAt       string `bson:"createdAt"`
	DefaultCategory string `bson:"defaultCategory"`
}

// AccountRepository stores account snapshots in the accounts collection.
type AccountRepository struct {
	db *DB
}

var _ account.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// ReplaceAll drops the accounts collection and inserts one document per
// identity. The drop happens only once the full replacement set is in
// hand; the drop+insert pair itself is not transactional (see the
// account.Repository contract).
func (r *AccountRepository) ReplaceAll(ctx context.Context, snapshots []account.Snapshot) error {
	col := r.db.collection(accountsCollection)

	if err := r.db.traced(ctx, accountsCollection, "drop", func(ctx context.Context) error {
		return col.Drop(ctx)
	}); err != nil {
		return err
	}

	if len(snapshots) == 0 {
		return nil
	}

	docs := make([]accountDoc, 0, len(snapshots))
	for _, s := range snapshots {
		docs = append(docs, toAccountDoc(s))
	}

	return r.db.traced(ctx, accountsCollection, "insertMany", func(ctx context.Context) error {
		_, err := col.InsertMany(ctx, docs)
		return err
	})
}

// FindByIdentity returns the stored snapshot for one identity, or nil
// when no snapshot exists.
func (r *AccountRepository) FindByIdentity(ctx context.Context, identity string) (*account.Snapshot, error) {
	col := r.db.collection(accountsCollection)

	var doc accountDoc
	err := r.db.traced(ctx, accountsCollection, "findOne", func(ctx context.Context) error {
		return col.FindOne(ctx, bson.M{"type_name": identity}).Decode(&doc)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snapshot := fromAccountDoc(doc)
	return &snapshot, nil
}

// All returns every stored snapshot.
func (r *AccountRepository) All(ctx context.Context) ([]account.Snapshot, error) {
	col := r.db.collection(accountsCollection)

	var docs []accountDoc
	err := r.db.traced(ctx, accountsCollection, "find", func(ctx context.Context) error {
		cursor, err := col.Find(ctx, bson.M{})
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]account.Snapshot, 0, len(docs))
	for _, doc := range docs {
		snapshots = append(snapshots, fromAccountDoc(doc))
	}
	return snapshots, nil
}

func toAccountDoc(s account.Snapshot) accountDoc {
	entries := make([]accountEntry, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		entries = append(entries, accountEntry{
			ID:              a.ID,
			Name:            a.Name,
			Type:            a.Type,
			Currency:        a.Currency,
			CreatedAt:       a.CreatedAt,
			DefaultCategory: a.DefaultCategory,
		})
	}
	return accountDoc{Identity: s.Identity, Accounts: entries}
}

func fromAccountDoc(doc accountDoc) account.Snapshot {
	accounts := make([]account.Account, 0, len(doc.Accounts))
	for _, e := range doc.Accounts {
		accounts = append(accounts, account.Account{
			ID:              e.ID,
			Name:            e.Name,
			Type:            e.Type,
			Currency:        e.Currency,
			CreatedAt:       e.CreatedAt,
			DefaultCategory: e.DefaultCategory,
		})
	}
	return account.Snapshot{Identity: doc.Identity, Accounts: accounts}
}
