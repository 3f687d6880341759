package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/model"
	"catalog/internal/page"
)

var (
	ErrNotFound = errors.New("not found")

	// 参照整合性（外部キー）違反
	ErrIntegrity = errors.New("integrity violation")
)

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindAll(ctx context.Context, p page.Pageable) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	DeleteByID(ctx context.Context, id int64) error

	// 条件に合う商品のID（と並び替え用の列）だけをページングして返す。並び順と総数はここで決まる。
	SearchProducts(ctx context.Context, categoryIDs []int64, name string, p page.Pageable) ([]model.ProductProjection, int64, error)

	// ids の商品をカテゴリ付きで返す。返す順序は保証しない。
	SearchProductsWithCategories(ctx context.Context, ids []int64) ([]model.Product, error)
}
