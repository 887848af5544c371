package publisher

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"

	r "github.com/fjod/go_cart/storefront/internal/repository"
)

type MockReceiptSource struct {
	mu        sync.Mutex
	Records   []*r.ReceiptRecord
	FetchErr  error
	MarkErr   error
	Published []string
}

func (m *MockReceiptSource) UnpublishedReceipts(_ context.Context, limit int) ([]*r.ReceiptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var out []*r.ReceiptRecord
	for _, rec := range m.Records {
		if !rec.Published && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockReceiptSource) MarkPublished(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkErr != nil {
		return m.MarkErr
	}
	for _, rec := range m.Records {
		if rec.ID == id {
			rec.Published = true
			m.Published = append(m.Published, id)
			return nil
		}
	}
	return r.ErrReceiptNotFound
}

func (m *MockReceiptSource) publishedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Published...)
}

// MockWriter fails every message whose key is listed in FailKeys.
type MockWriter struct {
	mu       sync.Mutex
	Messages []kafka.Message
	FailKeys map[string]bool
	Closed   bool
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		if m.FailKeys[string(msg.Key)] {
			return errors.New("broker unavailable")
		}
		m.Messages = append(m.Messages, msg)
	}
	return nil
}

func (m *MockWriter) Close() error {
	m.Closed = true
	return nil
}
