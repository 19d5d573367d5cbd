package domain

import "context"

// Store 共享同一连接的仓储集合；
// InTx 在单个事务里执行 fn，fn 只能使用传入的 tx
type Store interface {
	Restaurants() RestaurantRepository
	Users() UserRepository
	Reports() ReportRepository
	Scans() ScanRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// Models 需要迁移的实体，按迁移顺序
func Models() []any {
	return []any{&User{}, &Restaurant{}, &Report{}, &Scan{}}
}
