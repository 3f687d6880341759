package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Products() ProductRepository
	Categories() CategoryRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error

	// 読み取り専用（書き込みロックや変更追跡を省ける）
	WithinReadOnlyTx(ctx context.Context, fn func(r TxRepos) error) error
}
