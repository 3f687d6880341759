package db

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	name        string
	description string
	price       string
	date        string
	categories  []int // seedCategories の添字
}

var seedCategories = []string{"Books", "Electronics", "Computers"}

const (
	catBooks = iota
	catElectronics
	catComputers
)

const gamerDescription = "Gaming desktop with a discrete GPU, 16GB of RAM and a 1TB SSD."

var seedProducts = []seedProduct{
	{"The Lord of the Rings", "Complete edition of the classic fantasy trilogy.", "90.50", "2020-07-13T20:50:07.12345Z", []int{catBooks}},
	{"Smart TV", "55 inch 4K smart television with HDR.", "2190.00", "2020-07-14T10:00:00Z", []int{catElectronics}},
	{"Macbook Pro", "13 inch laptop with 16GB of RAM and a 512GB SSD.", "1250.00", "2020-07-14T10:00:00Z", []int{catElectronics, catComputers}},
	{"PC Gamer", gamerDescription, "1200.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"Rails for Dummies", "A gentle introduction to web development with Ruby on Rails.", "100.99", "2020-07-14T10:00:00Z", []int{catBooks}},
	{"PC Gamer Ex", gamerDescription, "1350.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer X", gamerDescription, "1350.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Alfa", gamerDescription, "1850.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Tera", gamerDescription, "1950.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Y", gamerDescription, "1700.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Nitro", gamerDescription, "1450.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Card", gamerDescription, "1850.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Plus", gamerDescription, "1350.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Hera", gamerDescription, "2250.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Weed", gamerDescription, "2200.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Max", gamerDescription, "2099.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Turbo", gamerDescription, "1280.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Hot", gamerDescription, "1450.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Ez", gamerDescription, "1750.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Tr", gamerDescription, "1650.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Tx", gamerDescription, "1680.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Er", gamerDescription, "1850.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Min", gamerDescription, "2250.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Boo", gamerDescription, "2350.00", "2020-07-14T10:00:00Z", []int{catComputers}},
	{"PC Gamer Foo", gamerDescription, "4170.00", "2020-07-14T10:00:00Z", []int{catComputers}},
}

// Seed はカテゴリが1件もないときだけ初期データ（3カテゴリ・25商品）を入れる
func Seed(ctx context.Context, gormDB *gorm.DB) error {
	var n int64
	if err := gormDB.WithContext(ctx).Model(&model.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats := make([]model.Category, 0, len(seedCategories))
		for _, name := range seedCategories {
			cats = append(cats, model.Category{Name: name})
		}
		if err := tx.Create(&cats).Error; err != nil {
			return err
		}

		for i, sp := range seedProducts {
			date, err := time.Parse(time.RFC3339Nano, sp.date)
			if err != nil {
				return fmt.Errorf("seed product %q: %w", sp.name, err)
			}

			p := model.Product{
				Name:        sp.name,
				Description: sp.description,
				Price:       decimal.RequireFromString(sp.price),
				ImgURL:      fmt.Sprintf("https://img.example.com/products/%d-big.jpg", i+1),
				Date:        date,
			}
			for _, ci := range sp.categories {
				p.Categories = append(p.Categories, cats[ci])
			}

			if err := tx.Omit("Categories.*").Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
