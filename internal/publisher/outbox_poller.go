package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	r "github.com/fjod/go_cart/storefront/internal/repository"
)

const (
	TopicCheckoutCompleted = "checkout-completed"
	EventCheckoutCompleted = "CheckoutCompleted"
)

// ReceiptSource is the part of the receipts repository the poller drains.
type ReceiptSource interface {
	UnpublishedReceipts(ctx context.Context, limit int) ([]*r.ReceiptRecord, error)
	MarkPublished(ctx context.Context, id string) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller publishes stored receipts to Kafka. A receipt that fails to
// publish stays unpublished and is picked up on the next tick.
type OutboxPoller struct {
	timeout   time.Duration
	eventTick time.Duration
	batch     int
	repo      ReceiptSource
	writer    MessageWriter
	log       *slog.Logger
}

func NewKafkaWriter(brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicCheckoutCompleted,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewOutboxPoller(repo ReceiptSource, writer MessageWriter, log *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		timeout:   time.Second * 5,
		eventTick: time.Second,
		batch:     100,
		repo:      repo,
		writer:    writer,
		log:       log,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublished(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close flushes and closes the writer.
func (p *OutboxPoller) Close() error {
	return p.writer.Close()
}

func (p *OutboxPoller) processUnpublished(ctx context.Context) int {
	records, err := p.repo.UnpublishedReceipts(ctx, p.batch)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to fetch unpublished receipts", slog.String("error", err.Error()))
		return 0
	}

	published := 0
	for _, rec := range records {
		if err := p.publish(ctx, rec); err != nil {
			p.log.WarnContext(ctx, "failed to publish receipt",
				slog.String("receipt_id", rec.ID), slog.String("error", err.Error()))
			continue
		}

		if err := p.repo.MarkPublished(ctx, rec.ID); err != nil {
			p.log.WarnContext(ctx, "failed to mark receipt as published",
				slog.String("receipt_id", rec.ID), slog.String("error", err.Error()))
			continue
		}
		published++
	}
	return published
}

func (p *OutboxPoller) publish(ctx context.Context, rec *r.ReceiptRecord) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(rec.ID), // receipt id keeps one order's events on one partition
		Value: rec.Payload,    // confirmation JSON as stored
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventCheckoutCompleted)},
			{Key: "session_id", Value: []byte(rec.SessionID)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
