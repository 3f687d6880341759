package repository

import (
	"context"

	"catalog/internal/domain/model"
)

// HistoryQuery は1リソース分の変更履歴を読む条件。Limit が0なら既定件数。
type HistoryQuery struct {
	ResourceType model.AuditResourceType
	ResourceID   int64
	Limit        int
	Offset       int
}

// AuditLogRepository は商品の変更履歴の追記と読み出し
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error

	//新しい順（id DESC）
	ListForResource(ctx context.Context, q HistoryQuery) ([]model.AuditLog, error)
}
