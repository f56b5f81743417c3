package notify

import (
	"context"
	"log"
)

// Sender delivers customer-facing status notifications. Delivery is best
// effort everywhere in the system: callers log failures and move on.
type Sender interface {
	SendShippingUpdate(ctx context.Context, recipient, orderID, status, tracking string) error
}

// LogSender writes notifications to the process log. It stands in for a mail
// or push provider in development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendShippingUpdate(ctx context.Context, recipient, orderID, status, tracking string) error {
	log.Printf("[NOTIFY] [INFO] to=%s order=%s status=%s tracking=%s", recipient, orderID, status, tracking)
	return nil
}
