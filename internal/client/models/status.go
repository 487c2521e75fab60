package models

import "slices"

// Status is a shipment lifecycle state as sent by the API.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusFailed         Status = "failed"
	StatusReturned       Status = "returned"
)

// Statuses lists every known status in display order.
var Statuses = []Status{
	StatusPending,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusFailed,
	StatusReturned,
}

var statusLabels = map[Status]string{
	StatusPending:        "Pending",
	StatusPickedUp:       "Picked Up",
	StatusInTransit:      "In Transit",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Delivered",
	StatusFailed:         "Failed",
	StatusReturned:       "Returned",
}

// happyPath is the ordered route a parcel takes when nothing goes wrong.
var happyPath = []Status{
	StatusPending,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human-readable name; unknown values are returned as is.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether s ends the lifecycle off the happy path.
func (s Status) Terminal() bool {
	return s == StatusFailed || s == StatusReturned
}

// Progress locates s on the happy path for the progress indicator.
// step is zero based; for failed, returned or unknown statuses step is -1.
func Progress(s Status) (step, total int) {
	return slices.Index(happyPath, s), len(happyPath)
}

// HappyPath returns a copy of the happy-path status sequence.
func HappyPath() []Status {
	return slices.Clone(happyPath)
}
