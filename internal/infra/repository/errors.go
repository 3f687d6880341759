package repository

import (
	"errors"
	"fmt"

	"catalog/internal/page"
	repo "catalog/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormのエラーをrepositoryのエラーに変換する（gorm.Config.TranslateError が前提）
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", repo.ErrIntegrity, err)
	default:
		return err
	}
}

// 並び順をORDER BYにする。columns にないプロパティは無視し、最後に tieBreaker で順序を固定する。
func applyOrder(tx *gorm.DB, orders []page.Order, columns map[string]string, tieBreaker string) *gorm.DB {
	hasTie := false
	for _, o := range orders {
		col, ok := columns[o.Property]
		if !ok {
			continue
		}
		if col == tieBreaker {
			hasTie = true
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: col, Raw: true},
			Desc:   o.Direction == page.DESC,
		})
	}
	if !hasTie {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: tieBreaker, Raw: true}})
	}
	return tx
}
