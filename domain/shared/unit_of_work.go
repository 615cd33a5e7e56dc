package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 内的所有仓储操作共享同一事务；fn 返回错误时整体回滚。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory 每次业务操作创建一个新的 UnitOfWork，避免并发请求共享聚合列表。
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
