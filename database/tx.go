package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs a unit of work. Every repository call inside fn must use the ctx
// passed to fn so that it joins the transaction when one is open.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTx runs units of work inside a MongoDB multi-document transaction.
// Transactions need a replica set, so standalone deployments use DirectTx.
type MongoTx struct {
	client *mongo.Client
}

func NewMongoTx(client *mongo.Client) *MongoTx {
	return &MongoTx{client: client}
}

func (t *MongoTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// DirectTx runs fn without a transaction. Callers undo partial effects with
// compensating writes when fn fails part way.
type DirectTx struct{}

func (DirectTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewTxRunner picks the runner for the deployment.
func NewTxRunner(client *mongo.Client, transactions bool) TxRunner {
	if transactions && client != nil {
		return NewMongoTx(client)
	}
	return DirectTx{}
}
