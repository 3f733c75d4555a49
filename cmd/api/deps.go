package main

import (
	"context"
	"log"

	"starsync/internal/domain/notify"
	"starsync/internal/domain/syncer"
	"starsync/internal/infrastructure/firebase"
	"starsync/internal/infrastructure/mongodb"
	"starsync/internal/infrastructure/starling"
	"starsync/internal/infrastructure/tokens"
	httphandlers "starsync/internal/interfaces/http"
	"starsync/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *mongodb.DB

	// Handlers
	AccountsHandler     *httphandlers.AccountsHandler
	TransactionsHandler *httphandlers.TransactionsHandler

	// Sync services (for the scheduler)
	AccountSync     *syncer.AccountSyncService
	TransactionSync *syncer.TransactionSyncService

	Alerts *notify.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to document store")

	accountRepo := mongodb.NewAccountRepository(db)
	transactionRepo := mongodb.NewTransactionRepository(db)

	tokenStore := tokens.NewStore(cfg.Tokens.Dir)
	client := starling.NewClient(cfg.Starling.BaseURL)

	accountSync := syncer.NewAccountSyncService(client, tokenStore, accountRepo)
	transactionSync := syncer.NewTransactionSyncService(client, tokenStore, accountRepo, transactionRepo, cfg.Starling.Window())

	// Operator alerts are optional: without FCM credentials and device
	// tokens the nil service silently drops every alert.
	var alerts *notify.Service
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Printf("Warning: failed to initialize FCM client, alerts disabled: %v", err)
		} else {
			alerts = notify.NewService(fcm, cfg.Firebase.DeviceTokens)
		}
	}

	return &Dependencies{
		DB:                  db,
		AccountsHandler:     httphandlers.NewAccountsHandler(accountSync),
		TransactionsHandler: httphandlers.NewTransactionsHandler(transactionSync),
		AccountSync:         accountSync,
		TransactionSync:     transactionSync,
		Alerts:              alerts,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close(ctx context.Context) {
	if d.DB != nil {
		if err := d.DB.Close(ctx); err != nil {
			log.Printf("Error closing document store connection: %v", err)
		}
	}
}
