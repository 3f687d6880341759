package dto

import (
	"encoding/json"
	"time"

	"catalog/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategoryDTO(c model.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func NewCategoryDTOs(list []model.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, NewCategoryDTO(c))
	}
	return out
}

// ProductDTO はAPI境界で使う商品の形。
// Categories は呼び出し側が渡したカテゴリID以外の順序を保証しない。
type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required,min=5,max=60"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	ImgURL      string          `json:"imgUrl" validate:"omitempty,url"`
	Date        time.Time       `json:"date" validate:"pastorpresent"`
	Categories  []CategoryDTO   `json:"categories"`
}

// NewProductDTO はカテゴリを含めずに変換する
func NewProductDTO(p model.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date,
		Categories:  []CategoryDTO{},
	}
}

// NewProductDTOWithCategories はカテゴリも含めて変換する
func NewProductDTOWithCategories(p model.Product) ProductDTO {
	d := NewProductDTO(p)
	d.Categories = NewCategoryDTOs(p.Categories)
	return d
}

// CategoryIDs は重複を除いたカテゴリIDを、渡された順で返す
func (d ProductDTO) CategoryIDs() []int64 {
	seen := make(map[int64]struct{}, len(d.Categories))
	ids := make([]int64, 0, len(d.Categories))
	for _, c := range d.Categories {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	return ids
}

// CopyToEntity はスカラー項目を上書きする。カテゴリは呼び出し側で解決して差し替える。
func (d ProductDTO) CopyToEntity(p *model.Product) {
	p.Name = d.Name
	p.Description = d.Description
	p.Date = d.Date
	p.ImgURL = d.ImgURL
	p.Price = d.Price
}

// AuditLogDTO は変更履歴1件。before / after は商品のJSONそのまま。
type AuditLogDTO struct {
	ID          int64           `json:"id"`
	ActorUserID int64           `json:"actorUserId"`
	Action      string          `json:"action"`
	ProductID   int64           `json:"productId"`
	Before      json.RawMessage `json:"before"`
	After       json.RawMessage `json:"after"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewAuditLogDTO(l model.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:          l.ID,
		ActorUserID: l.ActorUserID,
		Action:      string(l.Action),
		ProductID:   l.ResourceID,
		Before:      rawJSON(l.BeforeJSON),
		After:       rawJSON(l.AfterJSON),
		CreatedAt:   l.CreatedAt,
	}
}

// 空文字は null にする
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
