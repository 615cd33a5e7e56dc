package order

import "strings"

// Status Order status enum
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusReady      Status = "READY"
	StatusInDelivery Status = "IN_DELIVERY"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var statusDescriptions = map[Status]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusPreparing:  "Preparing",
	StatusReady:      "Ready",
	StatusInDelivery: "Out for delivery",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

// AllStatuses lists statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusPreparing,
		StatusReady,
		StatusInDelivery,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus accepts the enum name in any case.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := statusDescriptions[s]; !ok {
		return "", NewValidationError("status", "unknown order status: "+value)
	}
	return s, nil
}

// Description returns a human readable label.
func (s Status) Description() string {
	return statusDescriptions[s]
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}
