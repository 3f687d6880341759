package repository

import (
	"context"

	"catalog/internal/domain/model"
	"catalog/internal/page"

	"gorm.io/gorm"
)

var categorySortColumns = map[string]string{
	"id":   "categories.id",
	"name": "categories.name",
}

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return []model.Category{}, err
	}
	return list, nil
}

func (r *CategoryGormRepository) FindAllPaged(ctx context.Context, p page.Pageable) ([]model.Category, int64, error) {
	var list []model.Category
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&total).Error; err != nil {
		return []model.Category{}, 0, err
	}

	tx := applyOrder(r.db.WithContext(ctx), p.Sort, categorySortColumns, "categories.id")
	if err := tx.Offset(p.Offset()).Limit(p.Size).Find(&list).Error; err != nil {
		return []model.Category{}, 0, err
	}
	return list, total, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, translateError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	var list []model.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return []model.Category{}, err
	}
	return list, nil
}
