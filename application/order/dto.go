package order

import "time"

// CreateOrderRequest 表示创建订单的入参。空的 items 交给领域层校验。
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	Items      []OrderItemRequest `json:"items"`
	Notes      string             `json:"notes"`
}

// OrderItemRequest 表示创建订单时的单个披萨项。
// unit_price 为兼容旧客户端保留，服务端忽略，价格始终取自菜单。
type OrderItemRequest struct {
	PizzaID   string `json:"pizza_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price,omitempty"`
}

// AddOrderItemRequest 表示向待处理订单追加披萨。
type AddOrderItemRequest struct {
	PizzaID  string `json:"pizza_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// ChangeStatusRequest 表示状态流转的可选入参，目前只有取消原因。
type ChangeStatusRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse 表示订单返回模型。金额以两位小数字符串输出。
type OrderResponse struct {
	ID                string              `json:"id"`
	CustomerID        string              `json:"customer_id"`
	Status            string              `json:"status"`
	StatusDescription string              `json:"status_description"`
	TotalAmount       string              `json:"total_amount"`
	Notes             string              `json:"notes,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	Version           int                 `json:"version"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	ID         string    `json:"id"`
	PizzaID    string    `json:"pizza_id"`
	PizzaName  string    `json:"pizza_name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
