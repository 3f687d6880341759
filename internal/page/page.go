package page

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultSize = 12
	MaxSize     = 100
)

var ErrInvalidSort = errors.New("invalid sort")

type Direction string

const (
	ASC  Direction = "asc"
	DESC Direction = "desc"
)

// Order は1つの並び替え条件（プロパティ名と向き）
type Order struct {
	Property  string
	Direction Direction
}

func (o Order) String() string {
	return o.Property + "," + string(o.Direction)
}

// Pageable はページ番号（0始まり）、件数、並び順
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Of は値を補正して Pageable を作る
func Of(page, size int, sort ...Order) Pageable {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Pageable{Page: page, Size: size, Sort: sort}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

func (p Pageable) Sorted() bool {
	return len(p.Sort) > 0
}

// WithDefaultSort は並び順の指定がないときだけ orders を使う
func (p Pageable) WithDefaultSort(orders ...Order) Pageable {
	if p.Sorted() {
		return p
	}
	p.Sort = orders
	return p
}

// Validate は並び替え対象が allowed に含まれるかを確認する
func (p Pageable) Validate(allowed ...string) error {
	for _, o := range p.Sort {
		ok := false
		for _, a := range allowed {
			if o.Property == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidSort, o.Property)
		}
	}
	return nil
}

// ParseSort は "name" / "name,desc" 形式の値を Order にする
func ParseSort(values []string) ([]Order, error) {
	orders := make([]Order, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		parts := strings.Split(v, ",")
		prop := strings.TrimSpace(parts[0])
		if prop == "" || len(parts) > 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, v)
		}

		dir := ASC
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				dir = DESC
			default:
				return nil, fmt.Errorf("%w: %q", ErrInvalidSort, v)
			}
		}
		orders = append(orders, Order{Property: prop, Direction: dir})
	}
	return orders, nil
}

// Page はページの中身とメタデータ
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

func New[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}

	return Page[T]{
		Content:          content,
		Number:           p.Page,
		Size:             p.Size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// Map は中身だけを変換し、メタデータはそのまま残す
func Map[T, U any](pg Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(pg.Content))
	for _, v := range pg.Content {
		content = append(content, fn(v))
	}
	return WithContent(pg, content)
}

// WithContent は pg のメタデータ（番号・件数・総数）を使って content を包み直す
func WithContent[T, U any](pg Page[T], content []U) Page[U] {
	if content == nil {
		content = []U{}
	}
	return Page[U]{
		Content:          content,
		Number:           pg.Number,
		Size:             pg.Size,
		TotalElements:    pg.TotalElements,
		TotalPages:       pg.TotalPages,
		NumberOfElements: len(content),
		First:            pg.First,
		Last:             pg.Last,
		Empty:            len(content) == 0,
	}
}
