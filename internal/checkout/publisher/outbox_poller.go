package publisher

import (
	"context"
	"strconv"
	"time"

	r "github.com/petpoint/pet_point/internal/checkout/repository"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// MessageWriter is the slice of kafka.Writer the poller uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OutboxPoller struct {
	timeout      time.Duration
	eventTick    time.Duration
	recoveryTick time.Duration
	repo         r.RepoInterface
	writer       MessageWriter
}

func NewOutboxPoller(repo r.RepoInterface, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "petpoint.orders",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{time.Second * 5, time.Second, time.Second * 5, repo, w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer eventTicker.Stop()
	defer recoveryTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-recoveryTicker.C:
			p.recoverStuckOrders(ctx)
		case <-ctx.Done():
			if err := p.writer.Close(); err != nil {
				log.WithError(err).Warn("failed to close kafka writer")
			}
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.WithError(err).Error("failed to fetch outbox events")
		return
	}

	for _, event := range events {
		errPublish := p.publishToKafka(ctx, event)
		if errPublish != nil {
			log.WithError(errPublish).WithField("event_id", event.ID).Error("failed to publish event")
			continue
		}

		errMark := p.repo.MarkEventAsProcessed(ctx, event.ID)
		if errMark != nil {
			log.WithError(errMark).WithField("event_id", event.ID).Error("failed to mark event as processed")
			continue
		}
	}
}

// recoverStuckOrders re-creates outbox events for orders whose event row is
// missing; the next event tick publishes them.
func (p *OutboxPoller) recoverStuckOrders(ctx context.Context) {
	orders, err := p.repo.GetStuckOrders(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get stuck orders")
		return
	}
	for _, order := range orders {
		log.WithField("order_id", order.ID).Info("recovering stuck order")

		if errInsert := p.repo.InsertOrderEvent(ctx, order, order.CartSnapshot); errInsert != nil {
			log.WithError(errInsert).WithField("order_id", order.ID).Error("failed to recover stuck order")
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *r.OutboxEvent) error {
	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(strconv.Itoa(event.ID))},
		},
	})
}
