/*
Package memory 进程内存储，实现与 gormstore 相同的仓储接口。

数据以快照（重建 DTO）保存，读出的聚合总是新副本，调用方修改不会泄漏回存储。
UnitOfWork 内的写操作按行加锁，不同订单互不阻塞；Execute 失败时按撤销日志
恢复本次修改过的行。
*/
package memory

import (
	"sync"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
)

type orderRecord struct {
	order order.ReconstructionDTO
	items []order.ItemReconstructionDTO
}

// Store holds all tables of the in-memory database.
type Store struct {
	mu        sync.RWMutex
	orders    map[string]orderRecord
	customers map[string]customer.ReconstructionDTO
	pizzas    map[string]pizza.ReconstructionDTO

	// rowLocks "表:id" -> chan struct{}
	rowLocks sync.Map
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[string]orderRecord),
		customers: make(map[string]customer.ReconstructionDTO),
		pizzas:    make(map[string]pizza.ReconstructionDTO),
	}
}

func orderToRecord(o *order.Order) orderRecord {
	items := make([]order.ItemReconstructionDTO, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = order.ItemReconstructionDTO{
			ID:         item.ID(),
			PizzaID:    item.PizzaID(),
			PizzaName:  item.PizzaName(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			TotalPrice: item.TotalPrice(),
			CreatedAt:  item.CreatedAt(),
		}
	}
	return orderRecord{
		order: order.ReconstructionDTO{
			ID:          o.ID(),
			CustomerID:  o.CustomerID(),
			Status:      o.Status(),
			TotalAmount: o.TotalAmount(),
			Notes:       o.Notes(),
			Version:     o.Version(),
			CreatedAt:   o.CreatedAt(),
			UpdatedAt:   o.UpdatedAt(),
		},
		items: items,
	}
}

func (r orderRecord) toDomain() *order.Order {
	dto := r.order
	dto.Items = make([]*order.Item, len(r.items))
	for i, item := range r.items {
		dto.Items[i] = order.RebuildItemFromDTO(item)
	}
	return order.RebuildFromDTO(dto)
}

func customerToRecord(c *customer.Customer) customer.ReconstructionDTO {
	addr := c.Address()
	return customer.ReconstructionDTO{
		ID:        c.ID(),
		Name:      c.Name(),
		Email:     c.Email().Value(),
		Phone:     c.Phone(),
		Address:   addr.Street(),
		ZipCode:   addr.ZipCode(),
		City:      addr.City(),
		State:     addr.State(),
		Version:   c.Version(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func pizzaToRecord(p *pizza.Pizza) pizza.ReconstructionDTO {
	return pizza.ReconstructionDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		Size:        p.Size(),
		Available:   p.Available(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
