package memory

import (
	"context"
)

const (
	tableOrders    = "orders"
	tableCustomers = "customers"
	tablePizzas    = "pizzas"
)

type txKey struct{}

// tx 是一次 UnitOfWork.Execute 的状态：持有的行锁和撤销日志。
// 只被执行 fn 的 goroutine 访问。
type tx struct {
	held map[string]chan struct{}
	undo []func()
}

func txFromContext(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// lockRow 在事务内锁住一行，直到提交或回滚。事务外直接返回。
// 锁用容量为 1 的 channel 实现，等待时可以被 ctx 取消。
func (s *Store) lockRow(ctx context.Context, table, id string) error {
	t := txFromContext(ctx)
	if t == nil {
		return nil
	}
	key := table + ":" + id
	if _, ok := t.held[key]; ok {
		return nil
	}

	v, _ := s.rowLocks.LoadOrStore(key, make(chan struct{}, 1))
	lock := v.(chan struct{})
	select {
	case lock <- struct{}{}:
		t.held[key] = lock
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *tx) release() {
	for key, lock := range t.held {
		<-lock
		delete(t.held, key)
	}
}

// rollback 逆序执行撤销日志
func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// remember 在修改 table[id] 之前记录旧值，调用方必须持有 s.mu 写锁。
func remember[V any](ctx context.Context, table map[string]V, id string) {
	t := txFromContext(ctx)
	if t == nil {
		return
	}
	prev, existed := table[id]
	t.undo = append(t.undo, func() {
		if existed {
			table[id] = prev
		} else {
			delete(table, id)
		}
	})
}
