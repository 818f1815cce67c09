package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	r "github.com/petpoint/pet_point/internal/checkout/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	events       []*r.OutboxEvent
	getErr       error
	processedIDs []int
	markErr      error
	stuckOrders  []*r.Order
	inserted     []*r.Order
}

func (m *mockRepo) Close() error { return nil }

func (m *mockRepo) RunMigrations(*r.Credentials) error { return nil }

func (m *mockRepo) CreateOrder(context.Context, *r.Order, []byte) error { return nil }

func (m *mockRepo) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	events := m.events
	m.events = nil
	return events, nil
}

func (m *mockRepo) MarkEventAsProcessed(_ context.Context, id int) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processedIDs = append(m.processedIDs, id)
	return nil
}

func (m *mockRepo) GetStuckOrders(context.Context) ([]*r.Order, error) {
	orders := m.stuckOrders
	m.stuckOrders = nil
	return orders, nil
}

func (m *mockRepo) InsertOrderEvent(_ context.Context, order *r.Order, _ []byte) error {
	m.inserted = append(m.inserted, order)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func newTestPoller(repo r.RepoInterface, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		timeout:      time.Second,
		eventTick:    time.Millisecond,
		recoveryTick: time.Millisecond,
		repo:         repo,
		writer:       writer,
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockRepo{events: []*r.OutboxEvent{
		{ID: 1, OrderID: "o1", EventType: "order.placed", Payload: []byte(`{"order_id":"o1"}`)},
		{ID: 2, OrderID: "o2", EventType: "order.placed", Payload: []byte(`{"order_id":"o2"}`)},
	}}
	writer := &mockWriter{}
	p := newTestPoller(repo, writer)

	p.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("o1"), writer.messages[0].Key)
	assert.Equal(t, []int{1, 2}, repo.processedIDs)
}

func TestProcessUnpublishedEvents_PublishFailure_NotMarked(t *testing.T) {
	repo := &mockRepo{events: []*r.OutboxEvent{
		{ID: 1, OrderID: "o1", Payload: []byte(`{}`)},
	}}
	writer := &mockWriter{err: errors.New("broker unavailable")}
	p := newTestPoller(repo, writer)

	p.processUnpublishedEvents(context.Background())

	assert.Empty(t, repo.processedIDs)
}

func TestRecoverStuckOrders_ReinsertsEvents(t *testing.T) {
	order := &r.Order{ID: "o1", UserID: "u1", CartSnapshot: []byte(`{}`)}
	repo := &mockRepo{stuckOrders: []*r.Order{order}}
	p := newTestPoller(repo, &mockWriter{})

	p.recoverStuckOrders(context.Background())

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "o1", repo.inserted[0].ID)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockRepo{}
	p := newTestPoller(repo, &mockWriter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
