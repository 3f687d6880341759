package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategoryTable は商品とカテゴリの中間テーブル名。
const ProductCategoryTable = "product_categories"

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ImgURL      string          `gorm:"type:varchar(1024)" json:"img_url"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Categories  []Category      `gorm:"many2many:product_categories" json:"categories"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ProductProjection は検索の1段目（並び順と件数の決定）で使う軽量な読み取り形。
type ProductProjection struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Date  time.Time
}
