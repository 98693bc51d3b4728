package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTxnRunner runs a function inside a driver session transaction so
// the orchestrator's finalize, log, open-next and entity-update writes
// commit or roll back together.
type MongoTxnRunner struct {
	client *mongo.Client
}

func NewMongoTxnRunner(client *mongo.Client) *MongoTxnRunner {
	return &MongoTxnRunner{client: client}
}

func (r *MongoTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NoopTxnRunner executes the function directly. Used when the deployment
// targets a standalone mongod without replica-set transactions, and by
// tests running against in-memory stores.
type NoopTxnRunner struct{}

func (NoopTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
