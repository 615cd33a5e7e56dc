package order

import (
	"strings"
	"time"
)

// Transition names a lifecycle operation on an order.
type Transition string

const (
	TransitionConfirm        Transition = "confirm"
	TransitionStartPreparing Transition = "start_preparing"
	TransitionMarkReady      Transition = "mark_ready"
	TransitionMarkInDelivery Transition = "mark_in_delivery"
	TransitionMarkDelivered  Transition = "mark_delivered"
	TransitionCancel         Transition = "cancel"
)

type rule struct {
	from func(Status) bool
	to   Status
}

func only(s Status) func(Status) bool {
	return func(current Status) bool { return current == s }
}

// transitions is the complete state machine. Cancel is allowed from every
// non-terminal state; every other transition has exactly one source state.
var transitions = map[Transition]rule{
	TransitionConfirm:        {from: only(StatusPending), to: StatusConfirmed},
	TransitionStartPreparing: {from: only(StatusConfirmed), to: StatusPreparing},
	TransitionMarkReady:      {from: only(StatusPreparing), to: StatusReady},
	TransitionMarkInDelivery: {from: only(StatusReady), to: StatusInDelivery},
	TransitionMarkDelivered:  {from: only(StatusInDelivery), to: StatusDelivered},
	TransitionCancel:         {from: func(s Status) bool { return !s.IsTerminal() }, to: StatusCancelled},
}

// AllTransitions lists every lifecycle operation.
func AllTransitions() []Transition {
	return []Transition{
		TransitionConfirm,
		TransitionStartPreparing,
		TransitionMarkReady,
		TransitionMarkInDelivery,
		TransitionMarkDelivered,
		TransitionCancel,
	}
}

// ParseTransition accepts both "start_preparing" and "start-preparing".
func ParseTransition(value string) (Transition, error) {
	t := Transition(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	if _, ok := transitions[t]; !ok {
		return "", NewValidationError("transition", "unknown order transition: "+value)
	}
	return t, nil
}

// Target returns the status the transition leads to.
func (t Transition) Target() Status {
	return transitions[t].to
}

// Label is the human form used in error messages.
func (t Transition) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// CanApply reports whether the transition is legal from the given status.
func (t Transition) CanApply(current Status) bool {
	r, ok := transitions[t]
	return ok && r.from(current)
}

// ============================================================================
// Lifecycle behavior
// ============================================================================

// Apply performs a lifecycle transition. On an illegal transition the order is
// left untouched and a *TransitionError carrying both states is returned.
func (o *Order) Apply(t Transition, reason string) error {
	r, ok := transitions[t]
	if !ok {
		return NewValidationError("transition", "unknown order transition: "+string(t))
	}
	if !r.from(o.status) {
		return NewInvalidTransitionError(o.id, o.status, r.to, t)
	}

	from := o.status
	o.status = r.to
	o.updatedAt = time.Now()
	o.events.Record(NewOrderStatusChangedEvent(o.id, from, r.to, t, reason))
	return nil
}

// Confirm PENDING -> CONFIRMED
func (o *Order) Confirm() error { return o.Apply(TransitionConfirm, "") }

// StartPreparing CONFIRMED -> PREPARING
func (o *Order) StartPreparing() error { return o.Apply(TransitionStartPreparing, "") }

// MarkReady PREPARING -> READY
func (o *Order) MarkReady() error { return o.Apply(TransitionMarkReady, "") }

// MarkInDelivery READY -> IN_DELIVERY
func (o *Order) MarkInDelivery() error { return o.Apply(TransitionMarkInDelivery, "") }

// MarkDelivered IN_DELIVERY -> DELIVERED
func (o *Order) MarkDelivered() error { return o.Apply(TransitionMarkDelivered, "") }

// Cancel any non-terminal status -> CANCELLED
func (o *Order) Cancel(reason string) error { return o.Apply(TransitionCancel, reason) }
