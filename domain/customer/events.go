package customer

import "time"

// CustomerRegisteredEvent Customer created event
type CustomerRegisteredEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"occurred_on"`
}

func NewCustomerRegisteredEvent(c *Customer) *CustomerRegisteredEvent {
	return &CustomerRegisteredEvent{
		CustomerID: c.id,
		Name:       c.name,
		Email:      c.email.Value(),
		Timestamp:  time.Now(),
	}
}

func (e *CustomerRegisteredEvent) EventName() string      { return "customer.registered" }
func (e *CustomerRegisteredEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *CustomerRegisteredEvent) GetAggregateID() string { return e.CustomerID }

// CustomerUpdatedEvent Customer profile changed
type CustomerUpdatedEvent struct {
	CustomerID   string    `json:"customer_id"`
	EmailChanged bool      `json:"email_changed"`
	Timestamp    time.Time `json:"occurred_on"`
}

func NewCustomerUpdatedEvent(c *Customer, emailChanged bool) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		CustomerID:   c.id,
		EmailChanged: emailChanged,
		Timestamp:    time.Now(),
	}
}

func (e *CustomerUpdatedEvent) EventName() string      { return "customer.updated" }
func (e *CustomerUpdatedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *CustomerUpdatedEvent) GetAggregateID() string { return e.CustomerID }

// CustomerDeletedEvent Customer removed
type CustomerDeletedEvent struct {
	CustomerID string    `json:"customer_id"`
	Timestamp  time.Time `json:"occurred_on"`
}

func NewCustomerDeletedEvent(c *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{CustomerID: c.id, Timestamp: time.Now()}
}

func (e *CustomerDeletedEvent) EventName() string      { return "customer.deleted" }
func (e *CustomerDeletedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *CustomerDeletedEvent) GetAggregateID() string { return e.CustomerID }
