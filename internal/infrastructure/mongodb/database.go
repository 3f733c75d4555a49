// Package mongodb wraps the document store holding the cached snapshots.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("starsync/db")

const (
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
)

// DB is an explicitly constructed store handle. It is passed into the
// repositories rather than held as package state so tests can swap in
// doubles at the repository interface.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the document store and verifies the connection.
func New(ctx context.Context, uri, database string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	return &DB{client: client, db: client.Database(database)}, nil
}

// Close disconnects from the store.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// traced runs one store operation inside a span, mirroring the HTTP
// client tracing so a sync shows up as a single connected trace.
func (d *DB) traced(ctx context.Context, collection, op string, fn func(context.Context) error) error {
	ctx, span := dbTracer.Start(ctx, "db."+op, trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.operation", op),
		attribute.String("db.collection.name", collection),
	))
	defer span.End()

	err := fn(ctx)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
