package publishers

import (
	"context"
	"fmt"
	"io"

	"github.com/samvad-hq/samvad-portal/internal/logger"
)

// queuePublisher adapts a broker sender to the Publisher interface.
type queuePublisher struct {
	id     string
	typ    string
	sender queueSender
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	return q.sender.Send(ctx, evt)
}

func (q *queuePublisher) Close() error {
	if c, ok := q.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	sender, err := newAWSSQSSender(ctx, cfg.SQS, log)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{id: cfg.ID, typ: TypeSQS, sender: sender}, nil
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	sender, err := newAWSSNSSender(ctx, cfg.SNS, log)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{id: cfg.ID, typ: TypeSNS, sender: sender}, nil
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}
	sender, err := newGCPPubSubSender(ctx, cfg.PubSub, log)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{id: cfg.ID, typ: TypePubSub, sender: sender}, nil
}
