package shared

// AggregateRoot 聚合根接口
// 聚合根是一致性边界的入口：所有修改都经由聚合根完成，
// 聚合根记录领域事件，由 UnitOfWork 在提交前写入 outbox
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口，通过标识判断相等性
type Entity interface {
	ID() string
}
