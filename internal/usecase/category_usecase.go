package usecase

import (
	"context"
	"net/http"

	"catalog/internal/dto"
	"catalog/internal/page"
	repo "catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

var categorySortFields = []string{"id", "name"}

type CategoryUsecase struct {
	txm repo.TransactionManager
	log *logrus.Logger
}

// DI
func NewCategoryUsecase(txm repo.TransactionManager, log *logrus.Logger) *CategoryUsecase {
	return &CategoryUsecase{txm: txm, log: log}
}

// 全カテゴリを保存順（id順）で返す
func (u *CategoryUsecase) FindAll(ctx context.Context) ([]dto.CategoryDTO, error) {
	var out []dto.CategoryDTO
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		list, err := r.Categories().FindAll(ctx)
		if err != nil {
			return err
		}
		out = dto.NewCategoryDTOs(list)
		return nil
	})
	if err != nil {
		return nil, toHTTPError(ctx, u.log, "category.find_all", err)
	}
	return out, nil
}

func (u *CategoryUsecase) FindAllPaged(ctx context.Context, p page.Pageable) (page.Page[dto.CategoryDTO], error) {
	if err := p.Validate(categorySortFields...); err != nil {
		return page.Page[dto.CategoryDTO]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var out page.Page[dto.CategoryDTO]
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		list, total, err := r.Categories().FindAllPaged(ctx, p)
		if err != nil {
			return err
		}
		out = page.New(dto.NewCategoryDTOs(list), p, total)
		return nil
	})
	if err != nil {
		return page.Page[dto.CategoryDTO]{}, toHTTPError(ctx, u.log, "category.find_all_paged", err)
	}
	return out, nil
}

func (u *CategoryUsecase) FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error) {
	var out dto.CategoryDTO
	err := u.txm.WithinReadOnlyTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = dto.NewCategoryDTO(c)
		return nil
	})
	if err != nil {
		return dto.CategoryDTO{}, toHTTPError(ctx, u.log, "category.find_by_id", err)
	}
	return out, nil
}
