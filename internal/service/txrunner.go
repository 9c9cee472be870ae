package service

import (
	"context"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/store"
)

// StoreProvider provides access to all stores within a transaction.
type StoreProvider interface {
	Users() store.UserStore
	Companies() store.CompanyStore
	Roles() store.RoleStore
	Members() store.MemberStore
	PasswordResets() store.PasswordResetStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(tx db.DBTX) error {
		return fn(store.NewStores(tx))
	})
}
