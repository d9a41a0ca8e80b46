package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weddingpro-backend/services"
)

type txKey struct{}

// Transactor runs a function in a gorm transaction and makes it visible to
// every repository through the context.
type Transactor struct {
	DB *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{DB: db}
}

// InTx joins the transaction already in ctx, or starts a new one.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db outside of one.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// forUpdate locks the selected rows when running inside a transaction.
func forUpdate(ctx context.Context, db *gorm.DB) *gorm.DB {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return conn(ctx, db).Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return conn(ctx, db)
}

// translate maps gorm errors onto the sentinels the services understand.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return services.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return services.ErrDuplicateKey
	default:
		return err
	}
}
