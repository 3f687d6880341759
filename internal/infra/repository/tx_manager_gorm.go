package repository

import (
	"context"
	"database/sql"

	repo "catalog/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Products() repo.ProductRepository { return r.products }
func (r *txReposGorm) Categories() repo.CategoryRepository { return r.categories }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.within(ctx, fn)
}

func (tm *TxManagerGorm) WithinReadOnlyTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.within(ctx, fn, &sql.TxOptions{ReadOnly: true})
}

func (tm *TxManagerGorm) within(ctx context.Context, fn func(r repo.TxRepos) error, opts ...*sql.TxOptions) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(&txReposGorm{
			products:   NewProductGormRepository(tx),
			categories: NewCategoryGormRepository(tx),
			auditLogs:  NewAuditLogGormRepository(tx),
		})
	}, opts...)
}
