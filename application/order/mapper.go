package order

import (
	"pizzeria/domain/order"
)

func toLineRequests(items []OrderItemRequest) []order.LineRequest {
	lines := make([]order.LineRequest, len(items))
	for i, item := range items {
		lines[i] = order.LineRequest{
			PizzaID:  item.PizzaID,
			Quantity: item.Quantity,
		}
	}
	return lines
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ID:         item.ID(),
			PizzaID:    item.PizzaID(),
			PizzaName:  item.PizzaName(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().String(),
			TotalPrice: item.TotalPrice().String(),
			CreatedAt:  item.CreatedAt(),
		}
	}

	return &OrderResponse{
		ID:                o.ID(),
		CustomerID:        o.CustomerID(),
		Status:            string(o.Status()),
		StatusDescription: o.Status().Description(),
		TotalAmount:       o.TotalAmount().String(),
		Notes:             o.Notes(),
		Items:             items,
		Version:           o.Version(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func toOrderResponses(orders []*order.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = toOrderResponse(o)
	}
	return responses
}
