package testutil

import (
	"context"
	"fmt"
	"io"
	"testing"

	"catalog/internal/config"
	"catalog/internal/infra/db"
	"catalog/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLite はテストごとに別のインメモリDBを作り、マイグレーションまで済ませる
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	log := logger.NewWithOutput(io.Discard, "error", "text")

	gormDB, err := db.Open(sqlite.Open(dsn), log, config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	//Tx内の問い合わせが同じ接続を使うように1本にする
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// NewSeededSQLite は初期データ（3カテゴリ・25商品）入り
func NewSeededSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB := NewSQLite(t)
	require.NoError(t, db.Seed(context.Background(), gormDB))
	return gormDB
}
