package publishers

import "context"

// Publisher sends snapshot events to a downstream sink (SQS, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// queueSender delivers one event to a message broker.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}
