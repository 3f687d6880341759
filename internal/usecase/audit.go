package usecase

import (
	"context"
	"encoding/json"

	"catalog/internal/domain/model"
	"catalog/internal/dto"
	repo "catalog/internal/repository"
)

type actorKey struct{}

// WithActor は操作したユーザーのIDを ctx に載せる（変更履歴用）
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(actorKey{}).(int64)
	return id
}

// recordChange は同じTxで変更履歴を1件残す。before / after は nil なら空。
func recordChange(ctx context.Context, r repo.TxRepos, action model.AuditAction, productID int64, before, after *dto.ProductDTO) error {
	beforeJSON, err := snapshot(before)
	if err != nil {
		return err
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return err
	}

	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorFrom(ctx),
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
	})
}

func snapshot(p *dto.ProductDTO) (string, error) {
	if p == nil {
		return "", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
