package usecase_test

import (
	"context"
	"io"

	"catalog/internal/domain/model"
	"catalog/internal/logger"
	"catalog/internal/page"
	repo "catalog/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindAll(ctx context.Context, p page.Pageable) ([]model.Product, int64, error) {
	args := m.Called(ctx, p)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	updated, _ := args.Get(0).(model.Product)
	return updated, args.Error(1)
}

func (m *ProductRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) SearchProducts(ctx context.Context, categoryIDs []int64, name string, p page.Pageable) ([]model.ProductProjection, int64, error) {
	args := m.Called(ctx, categoryIDs, name, p)
	rows, _ := args.Get(0).([]model.ProductProjection)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) SearchProductsWithCategories(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) FindAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *CategoryRepoMock) FindAllPaged(ctx context.Context, p page.Pageable) ([]model.Category, int64, error) {
	args := m.Called(ctx, p)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, entry model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditLogRepoMock) ListForResource(ctx context.Context, q repo.HistoryQuery) ([]model.AuditLog, error) {
	args := m.Called(ctx, q)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// fakeTxManager は fn をそのまま呼び、どちらのTxが使われたかを記録する
type fakeTxManager struct {
	products   *ProductRepoMock
	categories *CategoryRepoMock
	audits     *AuditLogRepoMock
	calls      []string
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{
		products:   new(ProductRepoMock),
		categories: new(CategoryRepoMock),
		audits:     new(AuditLogRepoMock),
	}
}

func (m *fakeTxManager) Products() repo.ProductRepository { return m.products }
func (m *fakeTxManager) Categories() repo.CategoryRepository { return m.categories }
func (m *fakeTxManager) AuditLogs() repo.AuditLogRepository { return m.audits }

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls = append(m.calls, "rw")
	return fn(m)
}

func (m *fakeTxManager) WithinReadOnlyTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls = append(m.calls, "ro")
	return fn(m)
}

func discardLogger() *logrus.Logger {
	return logger.NewWithOutput(io.Discard, "panic", "text")
}
