package repository

import (
	"context"

	"catalog/internal/domain/model"
	"catalog/internal/page"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	FindAllPaged(ctx context.Context, p page.Pageable) ([]model.Category, int64, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	// ids のうち存在するカテゴリだけを返す
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
}
