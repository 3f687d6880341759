package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalog/internal/domain/model"
	"catalog/internal/dto"
	"catalog/internal/page"
	repo "catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// カテゴリで絞り込まないときの categoryId
const NoCategoryFilter = "0"

var productSortFields = []string{"id", "name", "price", "date"}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	txm         repo.TransactionManager
	log         *logrus.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, txm repo.TransactionManager, log *logrus.Logger) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		txm:         txm,
		log:         log,
	}
}

// 条件なしのページング一覧
func (u *ProductUsecase) FindAllPaged(ctx context.Context, p page.Pageable) (page.Page[dto.ProductDTO], error) {
	if err := p.Validate(productSortFields...); err != nil {
		return page.Page[dto.ProductDTO]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var out page.Page[dto.ProductDTO]
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Products().FindAll(ctx, p)
		if err != nil {
			return err
		}
		out = page.Map(page.New(items, p, total), dto.NewProductDTO)
		return nil
	})
	if err != nil {
		return page.Page[dto.ProductDTO]{}, toHTTPError(ctx, u.log, "product.find_all_paged", err)
	}
	return out, nil
}

// 名前の部分一致とカテゴリIDで絞り込んだページ。
// 1段目で並び順と総数を決め、2段目でカテゴリ付きの商品を読み、1段目の順に並べ直す。
func (u *ProductUsecase) Search(ctx context.Context, name string, categoryID string, p page.Pageable) (page.Page[dto.ProductDTO], error) {
	categoryIDs, err := ParseCategoryIDs(categoryID)
	if err != nil {
		return page.Page[dto.ProductDTO]{}, err
	}
	if err := p.Validate(productSortFields...); err != nil {
		return page.Page[dto.ProductDTO]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p = p.WithDefaultSort(page.Order{Property: "name", Direction: page.ASC})

	var out page.Page[dto.ProductDTO]
	err = u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		rows, total, err := r.Products().SearchProducts(ctx, categoryIDs, strings.TrimSpace(name), p)
		if err != nil {
			return err
		}
		projected := page.New(rows, p, total)

		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}

		entities, err := r.Products().SearchProductsWithCategories(ctx, ids)
		if err != nil {
			return err
		}

		ordered, err := ReplaceInOrder(rows, entities)
		if err != nil {
			return err
		}

		dtos := make([]dto.ProductDTO, 0, len(ordered))
		for _, e := range ordered {
			dtos = append(dtos, dto.NewProductDTOWithCategories(e))
		}
		out = page.WithContent(projected, dtos)
		return nil
	})
	if err != nil {
		return page.Page[dto.ProductDTO]{}, toHTTPError(ctx, u.log, "product.search", err)
	}
	return out, nil
}

func (u *ProductUsecase) FindByID(ctx context.Context, id int64) (dto.ProductDTO, error) {
	var out dto.ProductDTO
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = dto.NewProductDTOWithCategories(p)
		return nil
	})
	if err != nil {
		return dto.ProductDTO{}, toHTTPError(ctx, u.log, "product.find_by_id", err)
	}
	return out, nil
}

func (u *ProductUsecase) Insert(ctx context.Context, in dto.ProductDTO) (dto.ProductDTO, error) {
	var out dto.ProductDTO
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		var entity model.Product
		if err := copyDTOToEntity(ctx, r, in, &entity); err != nil {
			return err
		}

		created, err := r.Products().Create(ctx, entity)
		if err != nil {
			return err
		}
		out = dto.NewProductDTOWithCategories(created)
		return recordChange(ctx, r, model.AuditActionCreateProduct, out.ID, nil, &out)
	})
	if err != nil {
		return dto.ProductDTO{}, toHTTPError(ctx, u.log, "product.insert", err)
	}

	u.log.WithContext(ctx).WithField("product_id", out.ID).Info("product created")
	return out, nil
}

// 既存の商品を上書きする。存在確認は先に行い、カテゴリは渡されたIDで丸ごと置き換える。
func (u *ProductUsecase) Update(ctx context.Context, id int64, in dto.ProductDTO) (dto.ProductDTO, error) {
	var out dto.ProductDTO
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		entity, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := dto.NewProductDTOWithCategories(entity)
		if err := copyDTOToEntity(ctx, r, in, &entity); err != nil {
			return err
		}

		updated, err := r.Products().Update(ctx, entity)
		if err != nil {
			return err
		}
		out = dto.NewProductDTOWithCategories(updated)
		return recordChange(ctx, r, model.AuditActionUpdateProduct, id, &before, &out)
	})
	if err != nil {
		return dto.ProductDTO{}, toHTTPError(ctx, u.log, "product.update", err)
	}

	u.log.WithContext(ctx).WithField("product_id", id).Info("product updated")
	return out, nil
}

// 存在確認はTxの外で行い、削除と履歴の記録をTxで包む
func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	exists, err := u.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return toHTTPError(ctx, u.log, "product.exists", err)
	}
	if !exists {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		entity, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Products().DeleteByID(ctx, id); err != nil {
			return err
		}
		before := dto.NewProductDTOWithCategories(entity)
		return recordChange(ctx, r, model.AuditActionDeleteProduct, id, &before, nil)
	})
	if err != nil {
		return toHTTPError(ctx, u.log, "product.delete", err)
	}

	u.log.WithContext(ctx).WithField("product_id", id).Info("product deleted")
	return nil
}

// History は商品の変更履歴を新しい順に返す。削除済みの商品の履歴も読める。
func (u *ProductUsecase) History(ctx context.Context, id int64, limit, offset int) ([]dto.AuditLogDTO, error) {
	out := []dto.AuditLogDTO{}
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		logs, err := r.AuditLogs().ListForResource(ctx, repo.HistoryQuery{
			ResourceType: model.AuditResourceProduct,
			ResourceID:   id,
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			return err
		}
		for _, l := range logs {
			out = append(out, dto.NewAuditLogDTO(l))
		}
		return nil
	})
	if err != nil {
		return nil, toHTTPError(ctx, u.log, "product.history", err)
	}
	return out, nil
}

// ParseCategoryIDs は "0"（絞り込みなし）またはカンマ区切りのIDを解釈する
func ParseCategoryIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == NoCategoryFilter {
		return []int64{}, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid categoryId %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReplaceInOrder は ordered の並び順のまま、中身を entities の同じIDのものに差し替える。
// entities に無いIDがあれば（一貫した読み取りなら起きない）エラーにする。
func ReplaceInOrder(ordered []model.ProductProjection, entities []model.Product) ([]model.Product, error) {
	byID := make(map[int64]model.Product, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	out := make([]model.Product, 0, len(ordered))
	for _, o := range ordered {
		e, ok := byID[o.ID]
		if !ok {
			return nil, fmt.Errorf("product %d missing from batch fetch", o.ID)
		}
		out = append(out, e)
	}
	return out, nil
}

// スカラー項目を上書きし、カテゴリをDTOのIDから解決して作り直す
func copyDTOToEntity(ctx context.Context, r repo.TxRepos, in dto.ProductDTO, entity *model.Product) error {
	in.CopyToEntity(entity)

	ids := in.CategoryIDs()
	cats, err := r.Categories().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[int64]model.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	entity.Categories = make([]model.Category, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return NewHTTPError(http.StatusNotFound, fmt.Sprintf("category %d not found", id))
		}
		entity.Categories = append(entity.Categories, c)
	}
	return nil
}
