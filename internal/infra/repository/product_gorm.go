package repository

import (
	"context"
	"strings"

	"catalog/internal/domain/model"
	"catalog/internal/page"
	repo "catalog/internal/repository"

	"gorm.io/gorm"
)

var productSortColumns = map[string]string{
	"id":    "products.id",
	"name":  "products.name",
	"price": "products.price",
	"date":  "products.date",
}

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 条件なしで商品をページングして返す（カテゴリは読まない）
func (r *ProductGormRepository) FindAll(ctx context.Context, p page.Pageable) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	tx := applyOrder(r.db.WithContext(ctx), p.Sort, productSortColumns, "products.id")
	if err := tx.Offset(p.Offset()).Limit(p.Size).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品をカテゴリ付きで取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Categories").First(&p, id).Error
	if err != nil {
		return model.Product{}, translateError(err)
	}
	return p, nil
}

func (r *ProductGormRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// 商品の作成。カテゴリは既存の行を参照するだけで作成・更新しない。
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Categories.*").Create(&p).Error; err != nil {
		return model.Product{}, translateError(err)
	}
	return p, nil
}

// 商品の更新。カテゴリの関連は p.Categories で丸ごと置き換える。
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"img_url":     p.ImgURL,
		"date":        p.Date,
	})
	if res.Error != nil {
		return model.Product{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Product{}, repo.ErrNotFound
	}

	//中間テーブルを置き換え
	target := &model.Product{ID: p.ID}
	var err error
	if len(p.Categories) == 0 {
		err = db.Model(target).Association("Categories").Clear()
	} else {
		err = db.Model(target).Omit("Categories.*").Association("Categories").Replace(p.Categories)
	}
	if err != nil {
		return model.Product{}, translateError(err)
	}

	return r.FindByID(ctx, p.ID)
}

// 商品の削除（物理削除）。中間テーブルの行を消してから本体を消す。Tx内で呼ぶこと。
func (r *ProductGormRepository) DeleteByID(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{ID: id}).Association("Categories").Clear(); err != nil {
		return translateError(err)
	}

	res := db.Delete(&model.Product{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 検索条件だけを組み立てる（呼ぶたびに新しいチェーン）
func (r *ProductGormRepository) searchQuery(ctx context.Context, categoryIDs []int64, name string) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("products.id", "products.name", "products.price", "products.date")

	if len(categoryIDs) > 0 {
		tx = tx.Joins("JOIN "+model.ProductCategoryTable+" pc ON pc.product_id = products.id").
			Where("pc.category_id IN ?", categoryIDs)
	}

	if name = strings.TrimSpace(name); name != "" {
		tx = tx.Where("LOWER(products.name) LIKE LOWER(?)", "%"+name+"%")
	}
	return tx
}

func (r *ProductGormRepository) SearchProducts(ctx context.Context, categoryIDs []int64, name string, p page.Pageable) ([]model.ProductProjection, int64, error) {
	var rows []model.ProductProjection
	var total int64

	//total（JOINで行が増えるのでDISTINCTした結果を数える）
	err := r.db.WithContext(ctx).
		Table("(?) AS matched", r.searchQuery(ctx, categoryIDs, name)).
		Count(&total).Error
	if err != nil {
		return []model.ProductProjection{}, 0, err
	}

	tx := applyOrder(r.searchQuery(ctx, categoryIDs, name), p.Sort, productSortColumns, "products.id")
	if err := tx.Offset(p.Offset()).Limit(p.Size).Scan(&rows).Error; err != nil {
		return []model.ProductProjection{}, 0, err
	}
	if rows == nil {
		rows = []model.ProductProjection{}
	}

	return rows, total, nil
}

func (r *ProductGormRepository) SearchProductsWithCategories(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}
