package pizza

import (
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
)

func (r PizzaRequest) toDetails() (pizza.Details, error) {
	price, err := shared.ParseMoney(r.Price)
	if err != nil {
		return pizza.Details{}, pizza.NewValidationError("price", err.Error())
	}
	size, err := pizza.ParseSize(r.Size)
	if err != nil {
		return pizza.Details{}, err
	}
	return pizza.Details{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Size:        size,
	}, nil
}

func toPizzaResponse(p *pizza.Pizza) *PizzaResponse {
	return &PizzaResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().String(),
		Size:        string(p.Size()),
		SizeCM:      p.Size().Centimeters(),
		Available:   p.Available(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toPizzaResponses(pizzas []*pizza.Pizza) []*PizzaResponse {
	responses := make([]*PizzaResponse, len(pizzas))
	for i, p := range pizzas {
		responses[i] = toPizzaResponse(p)
	}
	return responses
}
