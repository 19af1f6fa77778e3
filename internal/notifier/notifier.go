// Package notifier delivers reservation events to the notification service
// over RabbitMQ. Delivery is best-effort: the caller commits its allocation
// regardless of the notification outcome and only logs failures.
package notifier

import (
	"context"
)

type Type string

const (
	TypeReservationCreated  Type = "RESERVATION_CREATED"
	TypeReservationCanceled Type = "RESERVATION_CANCELED"
)

// Notification is the payload consumed by the notification service.
type Notification struct {
	Type  Type   `json:"type"`
	Email string `json:"email"`
	Movie string `json:"movie,omitempty"`
	Start string `json:"start,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// Noop is used when no broker is configured (and in tests).
type Noop struct{}

func (Noop) Send(context.Context, Notification) error { return nil }
