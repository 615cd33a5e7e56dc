package pizza

import (
	"time"

	"pizzeria/domain/shared"
)

type PizzaAddedEvent struct {
	PizzaID   string    `json:"pizza_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Size      string    `json:"size"`
	Timestamp time.Time `json:"occurred_on"`
}

func NewPizzaAddedEvent(p *Pizza) *PizzaAddedEvent {
	return &PizzaAddedEvent{
		PizzaID:   p.id,
		Name:      p.name,
		Price:     p.price.String(),
		Size:      string(p.size),
		Timestamp: time.Now(),
	}
}

func (e *PizzaAddedEvent) EventName() string      { return "pizza.added" }
func (e *PizzaAddedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *PizzaAddedEvent) GetAggregateID() string { return e.PizzaID }

// PizzaPriceChangedEvent only affects orders placed afterwards.
type PizzaPriceChangedEvent struct {
	PizzaID   string    `json:"pizza_id"`
	OldPrice  string    `json:"old_price"`
	NewPrice  string    `json:"new_price"`
	Timestamp time.Time `json:"occurred_on"`
}

func NewPizzaPriceChangedEvent(p *Pizza, oldPrice shared.Money) *PizzaPriceChangedEvent {
	return &PizzaPriceChangedEvent{
		PizzaID:   p.id,
		OldPrice:  oldPrice.String(),
		NewPrice:  p.price.String(),
		Timestamp: time.Now(),
	}
}

func (e *PizzaPriceChangedEvent) EventName() string      { return "pizza.price_changed" }
func (e *PizzaPriceChangedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *PizzaPriceChangedEvent) GetAggregateID() string { return e.PizzaID }

type PizzaRemovedEvent struct {
	PizzaID   string    `json:"pizza_id"`
	Timestamp time.Time `json:"occurred_on"`
}

func NewPizzaRemovedEvent(p *Pizza) *PizzaRemovedEvent {
	return &PizzaRemovedEvent{PizzaID: p.id, Timestamp: time.Now()}
}

func (e *PizzaRemovedEvent) EventName() string      { return "pizza.removed" }
func (e *PizzaRemovedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *PizzaRemovedEvent) GetAggregateID() string { return e.PizzaID }
